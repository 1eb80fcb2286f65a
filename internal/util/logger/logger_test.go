package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerCachesBySubsystem(t *testing.T) {
	a := Logger("test-subsystem-a")
	b := Logger("test-subsystem-a")
	assert.Same(t, a, b)
}

func TestLoggerDistinctSubsystems(t *testing.T) {
	a := Logger("test-subsystem-b")
	b := Logger("test-subsystem-c")
	assert.NotSame(t, a, b)
}

func TestParseLevel(t *testing.T) {
	_, ok := parseLevel("debug")
	assert.True(t, ok)
	_, ok = parseLevel("not-a-level")
	assert.False(t, ok)
}

func TestDiscardDoesNotPanic(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() {
		log.Info("swallowed")
	})
}
