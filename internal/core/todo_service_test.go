package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwi.com/voicepilot/internal/store"
)

func TestTodoCreateAppends(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newTestClient(t), discardLogger())

	a, err := svc.Create(ctx, store.TodoCreateInput{Title: "write docs"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Position)
	b, err := svc.Create(ctx, store.TodoCreateInput{Title: "ship", Position: store.Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, b.Position)
	c, err := svc.Create(ctx, store.TodoCreateInput{Title: "celebrate"})
	require.NoError(t, err)
	assert.Equal(t, 11, c.Position)

	done, err := svc.Create(ctx, store.TodoCreateInput{Title: "old", Status: store.Ptr(store.TodoStatusCompleted)})
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)

	_, err = svc.Create(ctx, store.TodoCreateInput{Title: "  "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = svc.Create(ctx, store.TodoCreateInput{Title: "x", ConversationID: store.Ptr("missing")})
	assert.ErrorIs(t, err, ErrConversationNotFound)
	_, err = svc.Create(ctx, store.TodoCreateInput{Title: "x", Priority: store.Ptr(store.Priority("URGENT"))})
	assert.True(t, store.IsValidation(err))
}

func TestTodoMoveAndReorder(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newTestClient(t), discardLogger())
	todo, err := svc.Create(ctx, store.TodoCreateInput{Title: "review"})
	require.NoError(t, err)

	moved, err := svc.Move(ctx, todo.ID, store.TodoStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, store.TodoStatusCompleted, moved.Status)
	require.NotNil(t, moved.CompletedAt)

	moved, err = svc.Move(ctx, todo.ID, store.TodoStatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, moved.CompletedAt)

	_, err = svc.Move(ctx, todo.ID, "DONE")
	assert.True(t, store.IsValidation(err))
	_, err = svc.Move(ctx, "missing", store.TodoStatusBlocked)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	reordered, err := svc.Reorder(ctx, todo.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, reordered.Position)

	updated, err := svc.Update(ctx, todo.ID, store.TodoUpdateInput{Description: store.Set("second pass")})
	require.NoError(t, err)
	assert.Equal(t, "second pass", *updated.Description)
	_, err = svc.Update(ctx, todo.ID, store.TodoUpdateInput{Title: store.Ptr("")})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	require.NoError(t, svc.Delete(ctx, todo.ID))
	assert.ErrorIs(t, svc.Delete(ctx, todo.ID), ErrTodoNotFound)
}

func TestTodoListAndBoard(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	svc := NewTodoService(c, discardLogger())
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

	for _, in := range []store.TodoCreateInput{
		{Title: "a", Priority: store.Ptr(store.PriorityHigh), DueDate: store.Ptr(now.Add(-time.Hour))},
		{Title: "b", Priority: store.Ptr(store.PriorityHigh)},
		{Title: "c", Status: store.Ptr(store.TodoStatusBlocked), DueDate: store.Ptr(now.Add(time.Hour))},
		{Title: "d", Status: store.Ptr(store.TodoStatusCompleted), DueDate: store.Ptr(now.Add(-time.Hour)), CompletedAt: store.Ptr(now.Add(-48 * time.Hour))},
		{Title: "e", Status: store.Ptr(store.TodoStatusArchived)},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, ListTodosInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, todoTitles(list))

	list, err = svc.List(ctx, ListTodosInput{Priority: store.Ptr(store.PriorityHigh), Take: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = svc.List(ctx, ListTodosInput{Priority: store.Ptr(store.PriorityHigh), After: &list[0].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, todoTitles(list))

	list, err = svc.List(ctx, ListTodosInput{Status: store.Ptr(store.TodoStatusArchived)})
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, todoTitles(list))

	board, err := svc.Board(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []BoardCell{
		{Status: store.TodoStatusArchived, Priority: store.PriorityMedium, Count: 1},
		{Status: store.TodoStatusBacklog, Priority: store.PriorityHigh, Count: 2},
		{Status: store.TodoStatusBlocked, Priority: store.PriorityMedium, Count: 1},
		{Status: store.TodoStatusCompleted, Priority: store.PriorityMedium, Count: 1},
	}, board.Cells)
	assert.EqualValues(t, 1, board.Overdue)

	archived, err := svc.ArchiveCompleted(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, archived)
	list, err = svc.List(ctx, ListTodosInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, todoTitles(list))
}

func todoTitles(todos []store.Todo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.Title
	}
	return out
}
