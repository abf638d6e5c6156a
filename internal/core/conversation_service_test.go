package core

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwi.com/voicepilot/internal/store"
)

func TestStartConversation(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	settings := NewSettingsService(c, discardLogger())
	_, err := settings.Update(ctx, store.SettingsUpdateInput{Language: store.Ptr("de-DE"), VoiceEnabled: store.Ptr(false)})
	require.NoError(t, err)

	svc := NewConversationService(c, discardLogger())
	conv, err := svc.Start(ctx, StartConversationInput{
		FirstMessage: store.Ptr("  How do I   rotate the API keys?  "),
		SystemPrompt: store.Ptr("be brief"),
	})
	require.NoError(t, err)
	require.NotNil(t, conv.Title)
	assert.Equal(t, "How do I rotate the API keys?", *conv.Title)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, RoleUser, conv.Messages[0].Role)
	require.NotNil(t, conv.VoiceConfig)
	assert.Equal(t, "de-DE", conv.VoiceConfig.Language)
	assert.False(t, conv.VoiceConfig.Enabled)
	require.NotNil(t, conv.ClaudeConfig)
	assert.Equal(t, store.DefaultClaudeModel, conv.ClaudeConfig.Model)
	assert.Equal(t, "be brief", *conv.ClaudeConfig.SystemPrompt)

	empty, err := svc.Start(ctx, StartConversationInput{})
	require.NoError(t, err)
	assert.Nil(t, empty.Title)
	assert.Empty(t, empty.Messages)

	_, err = svc.Start(ctx, StartConversationInput{ProjectID: store.Ptr("missing")})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	n, err := c.Conversation.Count(ctx, store.ConversationCountArgs{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "failed start leaves nothing behind")
}

func TestStartSeedsSettingsOutsideTransaction(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	svc := NewConversationService(c, discardLogger())

	_, err := svc.Start(ctx, StartConversationInput{ProjectID: store.Ptr("missing")})
	require.ErrorIs(t, err, ErrProjectNotFound)

	settings, err := c.Settings.FindUnique(ctx, store.SettingsFindUniqueArgs{
		Where: store.SettingsWhereUniqueInput{ID: store.Ptr(store.DefaultSettingsID)},
	})
	require.NoError(t, err)
	require.NotNil(t, settings, "default settings survive the rolled back start")
	assert.Equal(t, "en-US", settings.Language)
}

func TestPostMessage(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	svc := NewConversationService(c, discardLogger())

	conv, err := svc.Start(ctx, StartConversationInput{})
	require.NoError(t, err)

	_, err = svc.PostMessage(ctx, conv.ID, RoleAssistant, "Hello, how can I help?")
	require.NoError(t, err)
	msg, err := svc.PostMessage(ctx, conv.ID, RoleUser, "Deploy the staging branch")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, msg.ConversationID)
	_, err = svc.PostMessage(ctx, conv.ID, RoleUser, "and then run the migrations")
	require.NoError(t, err)

	details, err := svc.Details(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, details.Title)
	assert.Equal(t, "Deploy the staging branch", *details.Title)
	require.Len(t, details.Messages, 3)
	assert.Equal(t, RoleAssistant, details.Messages[0].Role)
	assert.Equal(t, "and then run the migrations", details.Messages[2].Content)
	assert.False(t, details.UpdatedAt.Before(details.Messages[2].CreatedAt))

	_, err = svc.PostMessage(ctx, conv.ID, "robot", "hi")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.PostMessage(ctx, conv.ID, RoleUser, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	_, err = svc.PostMessage(ctx, "missing", RoleUser, "hi")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = svc.Archive(ctx, conv.ID)
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, conv.ID, RoleUser, "still there?")
	assert.ErrorIs(t, err, ErrConversationArchived)
}

func TestListConversations(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	svc := NewConversationService(c, discardLogger())
	projects := NewProjectService(c, discardLogger())

	p, err := projects.Create(ctx, CreateProjectInput{Name: "api", Path: store.Ptr("/src/api")})
	require.NoError(t, err)

	first, err := svc.Start(ctx, StartConversationInput{Title: store.Ptr("first"), ProjectID: &p.ID})
	require.NoError(t, err)
	second, err := svc.Start(ctx, StartConversationInput{Title: store.Ptr("second")})
	require.NoError(t, err)
	third, err := svc.Start(ctx, StartConversationInput{Title: store.Ptr("third")})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, first.ID, RoleUser, "Kubernetes rollout stuck")
	require.NoError(t, err)
	_, err = svc.Archive(ctx, third.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx, ListConversationsInput{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "most recently updated first")
	assert.Equal(t, second.ID, all[1].ID)

	withArchived, err := svc.List(ctx, ListConversationsInput{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, withArchived, 3)

	page, err := svc.List(ctx, ListConversationsInput{Take: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	next, err := svc.List(ctx, ListConversationsInput{Take: 1, After: &page[0].ID})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, second.ID, next[0].ID)

	byProject, err := svc.List(ctx, ListConversationsInput{ProjectID: &p.ID})
	require.NoError(t, err)
	require.Len(t, byProject, 1)
	assert.Equal(t, first.ID, byProject[0].ID)

	found, err := svc.List(ctx, ListConversationsInput{Search: store.Ptr("rollout")})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	found, err = svc.List(ctx, ListConversationsInput{Search: store.Ptr("SECOND")})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)
}

func TestConversationMessagesPaging(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	svc := NewConversationService(c, discardLogger())
	conv, err := svc.Start(ctx, StartConversationInput{FirstMessage: store.Ptr("one")})
	require.NoError(t, err)
	for _, content := range []string{"two", "three"} {
		_, err := svc.PostMessage(ctx, conv.ID, RoleUser, content)
		require.NoError(t, err)
	}

	page, err := svc.Messages(ctx, conv.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "one", page[0].Content)
	rest, err := svc.Messages(ctx, conv.ID, &page[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "three", rest[0].Content)

	_, err = svc.Messages(ctx, "missing", nil, 0)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversationConfiguration(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	svc := NewConversationService(c, discardLogger())
	conv, err := svc.Start(ctx, StartConversationInput{})
	require.NoError(t, err)

	voice, err := svc.UpdateVoiceConfig(ctx, conv.ID, store.VoiceConfigUpdateInput{
		Voice: store.Ptr("nova"),
		Speed: store.Multiply(1.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "nova", voice.Voice)
	assert.InDelta(t, 1.5, voice.Speed, 1e-9)

	claude, err := svc.UpdateClaudeConfig(ctx, conv.ID, store.ClaudeConfigUpdateInput{MaxTokens: store.SetTo(1024)})
	require.NoError(t, err)
	assert.Equal(t, 1024, claude.MaxTokens)

	_, err = svc.UpdateVoiceConfig(ctx, "missing", store.VoiceConfigUpdateInput{Voice: store.Ptr("x")})
	assert.ErrorIs(t, err, ErrConfigNotFound)

	key, err := svc.SetAPIKey(ctx, conv.ID, "anthropic", "sk-1")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", key.Provider)
	assert.Empty(t, key.Key)
	_, err = svc.SetAPIKey(ctx, conv.ID, "anthropic", "sk-2")
	require.NoError(t, err)
	stored, err := c.APIKey.FindUniqueOrThrow(ctx, store.APIKeyFindUniqueArgs{Where: store.APIKeyWhereUniqueInput{ConversationID: &conv.ID}})
	require.NoError(t, err)
	assert.Equal(t, "sk-2", stored.Key)

	_, err = svc.SetAPIKey(ctx, "missing", "anthropic", "sk")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	pc, err := svc.SetContext(ctx, conv.ID, ProjectContextInput{
		WorkingDirectory: "/src/api",
		GitBranch:        store.Ptr("main"),
		Files:            []string{"main.go", "go.mod"},
	})
	require.NoError(t, err)
	var files []string
	require.NoError(t, json.Unmarshal(pc.Files, &files))
	assert.Equal(t, []string{"main.go", "go.mod"}, files)

	pc, err = svc.SetContext(ctx, conv.ID, ProjectContextInput{WorkingDirectory: "/src/web"})
	require.NoError(t, err)
	assert.Equal(t, "/src/web", pc.WorkingDirectory)
	assert.Nil(t, pc.GitBranch)
	assert.Empty(t, pc.Files)

	require.NoError(t, svc.Delete(ctx, conv.ID))
	assert.ErrorIs(t, svc.Delete(ctx, conv.ID), ErrConversationNotFound)
	n, err := c.ProjectContext.Count(ctx, store.ProjectContextCountArgs{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "Fix the build", deriveTitle("\"Fix the build.\""))
	long := strings.Repeat("word ", 30)
	title := deriveTitle(long)
	assert.True(t, strings.HasSuffix(title, "..."))
	assert.LessOrEqual(t, len(title), maxTitleLength+3)
	assert.False(t, strings.Contains(title, "wor..."))

	short, rest := strings.Repeat("é", 20), strings.Repeat("é", 50)
	assert.Equal(t, short+" "+strings.Repeat("é", 39)+"...", deriveTitle(short+" "+rest))
	assert.Equal(t, strings.Repeat("é", 40)+"...", deriveTitle(strings.Repeat("é", 40)+" "+strings.Repeat("é", 30)))
}
