package store

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRaw(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	mustTodo(t, c, TodoCreateInput{Title: "a", Position: Ptr(2)})
	mustTodo(t, c, TodoCreateInput{Title: "b", Position: Ptr(1)})
	mustTodo(t, c, TodoCreateInput{Title: "c", Status: Ptr(TodoStatusCompleted)})

	rows, err := c.QueryRaw(ctx, "SELECT COUNT(*) AS n FROM ? WHERE ? = ?", Ident("Todo"), Ident("status"), TodoStatusBacklog)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0]["n"])

	var scanned []struct{ Title string }
	err = c.QueryRawScan(ctx, &scanned, "SELECT title FROM ? WHERE ? = ? ORDER BY position", Ident("Todo"), Ident("status"), "BACKLOG")
	require.NoError(t, err)
	require.Len(t, scanned, 2)
	assert.Equal(t, "b", scanned[0].Title)
	assert.Equal(t, "a", scanned[1].Title)

	unsafe, err := c.QueryRawUnsafe(ctx, "SELECT title FROM Todo WHERE position = ?", 2)
	require.NoError(t, err)
	require.Len(t, unsafe, 1)
	assert.Equal(t, "a", unsafe[0]["title"])

	_, err = c.QueryRaw(ctx, "SELEC nonsense")
	var unknown *UnknownRequestError
	assert.ErrorAs(t, err, &unknown)
}

func TestExecuteRaw(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	mustTodo(t, c, TodoCreateInput{Title: "a"})
	mustTodo(t, c, TodoCreateInput{Title: "b"})

	n, err := c.ExecuteRaw(ctx, "UPDATE ? SET ? = ?", Ident("Todo"), Ident("priority"), PriorityCritical)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	count, err := c.Todo.Count(ctx, TodoCountArgs{Where: &TodoWhereInput{Priority: Equals(PriorityCritical)}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	n, err = c.ExecuteRawUnsafe(ctx, "DELETE FROM Todo WHERE title = ?", "a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = c.ExecuteRawUnsafe(ctx, "INSERT INTO Todo (id) VALUES (?)", "x")
	require.Error(t, err)
	var known *KnownRequestError
	require.ErrorAs(t, err, &known)
	assert.Equal(t, CodeNullConstraint, known.Code)
}

func TestLogEvents(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, func(o *ClientOptions) {
		o.Log = []LogDefinition{{Level: LogQuery, Emit: EmitEvent}, {Level: LogError, Emit: EmitEvent}}
	})

	var (
		mu     sync.Mutex
		events []LogEvent
	)
	record := func(ev LogEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}
	c.On(LogQuery, record)
	c.On(LogError, record)

	_, err := c.Todo.FindMany(ctx, TodoFindManyArgs{})
	require.NoError(t, err)
	_, err = c.QueryRaw(ctx, "SELEC nonsense")
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	var sawSelect, sawError bool
	for _, ev := range events {
		switch ev.Level {
		case LogQuery:
			if strings.Contains(ev.Query, "SELECT") && strings.Contains(ev.Query, "Todo") {
				sawSelect = true
			}
		case LogError:
			sawError = true
			assert.Equal(t, "queryRaw", ev.Target)
		}
	}
	assert.True(t, sawSelect, "query event for findMany")
	assert.True(t, sawError, "error event for the failed raw query")
}
