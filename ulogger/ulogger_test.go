package ulogger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default is zerolog", func(t *testing.T) {
		logger := New("test")
		require.NotNil(t, logger)

		_, ok := logger.(*ZLoggerWrapper)
		assert.True(t, ok)
	})

	t.Run("gocore logger type", func(t *testing.T) {
		logger := New("test", WithLoggerType("gocore"))
		require.NotNil(t, logger)

		_, ok := logger.(*GoCoreLogger)
		assert.True(t, ok)
	})

	t.Run("level option wins over config", func(t *testing.T) {
		var buf bytes.Buffer

		logger := New("test", WithLevel("ERROR"), WithWriter(&buf))

		logger.Infof("should not appear")
		logger.Errorf("should appear")

		out := buf.String()
		assert.NotContains(t, out, "should not appear")
		assert.Contains(t, out, "should appear")
	})
}

func TestZeroLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := NewZeroLogger("test", WithWriter(&buf), WithLevel("ERROR"))

	logger.Debugf("should not appear %d", 1)
	logger.Infof("should not appear %d", 2)
	logger.Errorf("should appear %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
}

func TestZeroLoggerNew(t *testing.T) {
	var buf bytes.Buffer

	parent := NewZeroLogger("parent", WithWriter(&buf), WithLevel("WARN"))
	child := parent.New("child")

	require.NotNil(t, child)
	assert.Equal(t, parent.LogLevel(), child.LogLevel())
}
