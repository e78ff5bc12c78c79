package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, int(slog.LevelWarn))

	l.Info("hidden")
	l.Warn("shown", "address", "0xabc")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "address=0xabc")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0).With("component", "controller")

	l.Info("hello")

	assert.Contains(t, buf.String(), "component=controller")
}
