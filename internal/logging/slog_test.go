package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info").With("service", "eventhub")

	log.Info(context.Background(), "event created", "event_id", "42")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "event created", rec["msg"])
	assert.Equal(t, "eventhub", rec["service"])
	assert.Equal(t, "42", rec["event_id"])
	assert.Equal(t, "INFO", rec["level"])
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Debug(context.Background(), "debug")
	log.Info(context.Background(), "info")
	assert.Zero(t, buf.Len())

	log.Error(context.Background(), "boom")
	assert.Contains(t, buf.String(), "boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestContextWith_AddsFieldsToRecords(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")
	ctx := ContextWith(context.Background(), "account_id", "alice")
	ctx = ContextWith(ctx, "role", "user")

	log.Warn(ctx, "booking rejected", "event_id", "3")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "alice", rec["account_id"])
	assert.Equal(t, "user", rec["role"])
	assert.Equal(t, "3", rec["event_id"])
	assert.Equal(t, "WARN", rec["level"])
}

func TestContextWith_DoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")
	parent := ContextWith(context.Background(), "a", 1)
	_ = ContextWith(parent, "b", 2)

	log.Info(parent, "only a")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Contains(t, rec, "a")
	assert.NotContains(t, rec, "b")
}

func TestFromSlog_TextHandler(t *testing.T) {
	var buf bytes.Buffer
	log := FromSlog(slog.New(slog.NewTextHandler(&buf, nil))).With("component", "publisher")

	log.Info(ContextWith(context.Background(), "exchange", "events"), "started")

	assert.Contains(t, buf.String(), "msg=started")
	assert.Contains(t, buf.String(), "component=publisher exchange=events")
}
