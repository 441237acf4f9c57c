package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_BaseFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	reqCtx := NewRequestContext(logger, "conv-1", "analytics")
	require.NotEmpty(t, reqCtx.RequestID)

	reqCtx.Info("classified", slog.String(LogFieldIntent, "view_sales_trends"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, reqCtx.RequestID, line[LogFieldRequestID])
	assert.Equal(t, "conv-1", line[LogFieldConversationID])
	assert.Equal(t, "analytics", line[LogFieldModule])
	assert.Equal(t, "view_sales_trends", line[LogFieldIntent])
}

func TestRequestContext_WithID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	reqCtx := NewRequestContextWithID(logger, "req-42", "conv-1", "fna")
	assert.Equal(t, "req-42", reqCtx.RequestID)
}

func TestRequestContext_UniqueIDs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	a := NewRequestContext(logger, "conv-1", "")
	b := NewRequestContext(logger, "conv-1", "")
	assert.NotEqual(t, a.RequestID, b.RequestID)
}

func TestRequestContext_ContextRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	reqCtx := NewRequestContext(logger, "conv-1", "customer")

	ctx := WithRequestContext(context.Background(), reqCtx)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, reqCtx, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
