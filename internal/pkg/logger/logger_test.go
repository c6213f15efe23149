package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandlerAddsTraceAndUser(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), TraceIDKey, "trace-1")
	ctx = context.WithValue(ctx, UserIDKey, uint64(42))
	l.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "trace-1", rec[TraceIDKey])
	assert.EqualValues(t, 42, rec[UserIDKey])
}

func TestRemoteFilterHandlerDropsUntraced(t *testing.T) {
	var local, remote bytes.Buffer
	tee := &TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(&remote, nil)},
	}}
	l := log.New(&ContextHandler{tee})

	l.Info("no trace")
	assert.NotEmpty(t, local.String())
	assert.Empty(t, remote.String())

	l.InfoContext(context.WithValue(context.Background(), TraceIDKey, "t"), "traced")
	assert.Contains(t, remote.String(), "traced")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, log.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, log.LevelInfo, ParseLevel(""))
}
