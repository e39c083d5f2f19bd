package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	assert.Equal(t, charmlog.DebugLevel, DebugLevel.ToCharmlogLevel())
	assert.Equal(t, charmlog.WarnLevel, WarnLevel.ToCharmlogLevel())
	assert.Equal(t, charmlog.ErrorLevel, ErrorLevel.ToCharmlogLevel())
	assert.Equal(t, charmlog.InfoLevel, LogLevel("bogus").ToCharmlogLevel())
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write JSON lines with bound fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})

		l.With("request_id", "abc").Info("inspection conducted", "inspection_id", 7)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "inspection conducted", line["msg"])
		assert.Equal(t, "abc", line["request_id"])
		assert.EqualValues(t, 7, line["inspection_id"])
	})

	t.Run("Should drop messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: WarnLevel, Output: &buf})

		l.Info("hidden")

		assert.Empty(t, buf.String())
	})
}

func TestFromContext(t *testing.T) {
	t.Run("Should return the logger stored in context", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})
		ctx := ContextWithLogger(context.Background(), l)

		FromContext(ctx).Info("hello")

		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("Should fall back to the default logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}
