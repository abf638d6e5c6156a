package core

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gwi.com/voicepilot/internal/store"
)

func newTestClient(t *testing.T) *store.Client {
	t.Helper()
	c, err := store.New(store.ClientOptions{
		DatasourceURL: "file:" + filepath.Join(t.TempDir(), "core.db"),
		Logger:        discardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Disconnect() })
	require.NoError(t, c.PushSchema(context.Background()))
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
