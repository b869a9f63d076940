package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	l.Debug("tick %d", 1)
	l.Warn("slow read: %s", "disk")

	assert.True(t, l.HasLevel("debug"))
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	msgs := l.Snapshot()
	assert.Equal(t, "tick 1", msgs[0].Message)
	assert.Equal(t, "slow read: disk", msgs[1].Message)

	msgs[0].Message = "changed"
	assert.Equal(t, "tick 1", l.Snapshot()[0].Message, "snapshot is a copy")
}

func TestEnvLoggerDebugGate(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	t.Setenv(DebugEnv, "")
	NewEnvLogger("[test]").Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	NewDebugLogger("[test]").Debug("forced")
	assert.Contains(t, buf.String(), "[test] DEBUG: forced")

	t.Setenv(DebugEnv, "1")
	NewEnvLogger("[test]").Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("hello")
	assert.True(t, buf.HasLevel("info"))
}
