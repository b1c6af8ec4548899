package logging

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(buf *bytes.Buffer, level Level) Logger {
	return NewLogger(&Config{
		Level:       level,
		ServiceName: "engage-test",
		JSONFormat:  true,
		Output:      buf,
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, LevelInfo)

	log.Info("upload accepted", F("week", 3), F("participants", 12))

	out := buf.String()
	assert.Contains(t, out, `"message":"upload accepted"`)
	assert.Contains(t, out, `"week":3`)
	assert.Contains(t, out, `"participants":12`)
	assert.Contains(t, out, `"service_name":"engage-test"`)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, LevelWarn)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, LevelInfo)

	child := log.With(F("component", "store"))
	child.Info("session created")

	assert.Contains(t, buf.String(), `"component":"store"`)
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, LevelInfo)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	log.WithContext(ctx).Info("handling request")

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestLoggerFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, LevelInfo)

	log.Info("fields",
		F("str", "a"),
		F("int64", int64(9)),
		F("float", 1.5),
		F("bool", true),
		F("dur", time.Second),
	)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"str":"a"`)
	assert.Contains(t, out, `"int64":9`)
	assert.Contains(t, out, `"bool":true`)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	// Must not panic and must keep returning a usable logger.
	log.Info("ignored")
	log.With(F("k", "v")).WithContext(context.Background()).Error("ignored")
}
