package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(Config{Level: "WARN"}, &buf)
	require.NoError(t, err)

	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var event map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &event))
	assert.Equal(t, "kept", event["message"])
	assert.Equal(t, "warn", event["level"])
}

func TestNewWithWriter_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(Config{Level: "error", Debug: true}, &buf)
	require.NoError(t, err)

	l.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_BadInput(t *testing.T) {
	_, err := New(Config{Output: "syslog"})
	assert.Error(t, err)

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base, err := NewWithWriter(Config{}, &buf)
	require.NoError(t, err)

	l := WithComponent(base, "session")
	l.Info().Msg("attached")
	assert.Contains(t, buf.String(), `"component":"session"`)
}

func TestDebugfAdapter(t *testing.T) {
	var buf bytes.Buffer
	base, err := NewWithWriter(Config{Level: "debug"}, &buf)
	require.NoError(t, err)

	DebugfAdapter{Logger: base}.Debugf("GET %s", "/boards/b1")
	assert.Contains(t, buf.String(), "GET /boards/b1")
}
