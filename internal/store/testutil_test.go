package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestClient opens a client over a fresh SQLite file with the schema
// pushed.
func newTestClient(t *testing.T, opts ...func(*ClientOptions)) *Client {
	t.Helper()
	o := ClientOptions{DatasourceURL: "file:" + filepath.Join(t.TempDir(), "voicepilot.db")}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(o)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Disconnect() })
	require.NoError(t, c.PushSchema(context.Background()))
	return c
}

func mustConversation(t *testing.T, c *Client, title string) *Conversation {
	t.Helper()
	conv, err := c.Conversation.Create(context.Background(), ConversationCreateArgs{
		Data: ConversationCreateInput{Title: Ptr(title)},
	})
	require.NoError(t, err)
	return conv
}

func mustTodo(t *testing.T, c *Client, in TodoCreateInput) *Todo {
	t.Helper()
	todo, err := c.Todo.Create(context.Background(), TodoCreateArgs{Data: in})
	require.NoError(t, err)
	return todo
}

// at returns a fixed UTC time offset by n minutes.
func at(n int) time.Time {
	return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute)
}

func titles(todos []Todo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.Title
	}
	return out
}
