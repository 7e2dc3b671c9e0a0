package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterEmitsServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("shopair", "info", &buf)

	l.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shopair", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("shopair", "warn", &buf)

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-123")
	assert.Equal(t, "corr-123", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestAccountIDRoundTrip(t *testing.T) {
	ctx := WithAccountID(context.Background(), "acct-9")
	assert.Equal(t, "acct-9", AccountIDFromContext(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := NewWithWriter("shopair", "info", &buf)
	ctx := NewContext(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))
}

func TestWithContextEnrichment(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("shopair", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithAccountID(ctx, "acct-1")

	WithContext(ctx, base).Info("enriched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "acct-1", entry["account_id"])
}
