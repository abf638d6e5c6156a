package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwi.com/voicepilot/internal/store"
)

func TestSettingsGetCreatesDefault(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	svc := NewSettingsService(c, discardLogger())

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultSettingsID, s.ID)
	assert.Equal(t, "en-US", s.Language)
	assert.True(t, s.VoiceEnabled)

	again, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, s.CreatedAt.Equal(again.CreatedAt))

	n, err := c.Settings.Count(ctx, store.SettingsCountArgs{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSettingsUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(newTestClient(t), discardLogger())

	s, err := svc.Update(ctx, store.SettingsUpdateInput{Theme: store.Ptr("dark")})
	require.NoError(t, err)
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, "en-US", s.Language)

	s, err = svc.Update(ctx, store.SettingsUpdateInput{AutoSpeak: store.Ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "dark", s.Theme)
	assert.True(t, s.AutoSpeak)
}

func TestProjectService(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	projects := NewProjectService(c, discardLogger())
	convs := NewConversationService(c, discardLogger())

	_, err := projects.Create(ctx, CreateProjectInput{Name: " "})
	assert.ErrorIs(t, err, ErrEmptyName)

	web, err := projects.Create(ctx, CreateProjectInput{Name: "web", Path: store.Ptr("/src/web")})
	require.NoError(t, err)
	_, err = projects.Create(ctx, CreateProjectInput{Name: "api"})
	require.NoError(t, err)
	_, err = projects.Create(ctx, CreateProjectInput{Name: "web2", Path: store.Ptr("/src/web")})
	assert.True(t, store.IsUniqueViolation(err))

	list, err := projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "api", list[0].Name)

	conv, err := convs.Start(ctx, StartConversationInput{Title: store.Ptr("t"), ProjectID: &web.ID})
	require.NoError(t, err)
	got, err := projects.Get(ctx, web.ID)
	require.NoError(t, err)
	require.Len(t, got.Conversations, 1)

	require.NoError(t, projects.Delete(ctx, web.ID))
	assert.ErrorIs(t, projects.Delete(ctx, web.ID), ErrProjectNotFound)
	_, err = projects.Get(ctx, web.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	detached, err := convs.Details(ctx, conv.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.ProjectID)
}
