package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "ssh")
	assert.Equal(t, log.WarnLevel, l.GetLevel())

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown", "identity", "viper")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "identity=viper")
}

func TestNewUnknownLevel(t *testing.T) {
	l := New(&bytes.Buffer{}, "loud", "")
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}
