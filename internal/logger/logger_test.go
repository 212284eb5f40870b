package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: " Warning ", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "verbose", want: LevelInfo},
		{in: "", want: LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestBackends_WriteStructuredJSON(t *testing.T) {
	for _, backend := range []string{BackendSlog, BackendZerolog} {
		t.Run(backend, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: LevelInfo, Format: "json", Backend: backend, Output: &buf})

			ctx := WithOperation(WithUserID(WithRequestID(context.Background(), "req-1"), "user-1"), "factors")
			l.WithContext(ctx).Info("analysis complete", Int("records", 42), String("trend", "improving"))

			entry := decodeLine(t, &buf)
			assert.Equal(t, "analysis complete", entry[messageKey(backend)])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, "user-1", entry["user_id"])
			assert.Equal(t, "factors", entry["operation"])
			assert.Equal(t, float64(42), entry["records"])
			assert.Equal(t, "improving", entry["trend"])
		})
	}
}

func TestBackends_RespectLevel(t *testing.T) {
	for _, backend := range []string{BackendSlog, BackendZerolog} {
		t.Run(backend, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: LevelWarn, Format: "json", Backend: backend, Output: &buf})

			l.Info("dropped")
			assert.Zero(t, buf.Len())

			l.Warn("kept")
			assert.NotZero(t, buf.Len())
			assert.Equal(t, LevelWarn, l.Level())
		})
	}
}

func TestWithRequestID_GeneratesID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	id := RequestIDFromContext(ctx)
	assert.Len(t, id, 36)
	assert.Empty(t, UserIDFromContext(ctx))
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Format: "json", Output: &buf})

	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, l, FromContext(WithLogger(context.Background(), l)))
}

func messageKey(backend string) string {
	if backend == BackendZerolog {
		return "message"
	}
	return "msg"
}
