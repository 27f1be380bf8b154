package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultInfoLevel(t *testing.T) {
	l := New(&bytes.Buffer{}, LogConfig{})
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}

func TestNew_VerboseEnablesDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LogConfig{Verbose: true, Timestamps: BoolPtr(false)})
	assert.Equal(t, log.DebugLevel, l.GetLevel())
	l.Debug("verbose-msg")
	assert.Contains(t, buf.String(), "verbose-msg")
}

func TestNew_TimestampExplicitlyDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LogConfig{Timestamps: BoolPtr(false)})
	l.Info("hello", "name", "shop")
	out := strings.TrimSpace(buf.String())
	assert.NotRegexp(t, `^\d{1,2}:\d{2}:\d{2}`, out)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "name=shop")
}

func TestTimer_Done(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LogConfig{Timestamps: BoolPtr(false)})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return start }
	timer := l.StartTimer()
	l.now = func() time.Time { return start.Add(1500 * time.Millisecond) }

	timer.Done("Application creation time", "modules", 3)
	out := buf.String()
	assert.Contains(t, out, "Application creation time")
	assert.Contains(t, out, "modules=3")
	assert.Contains(t, out, "elapsed=1.5s")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LogConfig{Timestamps: BoolPtr(false)}).With("file", "shop.yaml")
	l.Error("Generation failed")
	out := buf.String()
	assert.Contains(t, out, "Generation failed")
	assert.Contains(t, out, "file=shop.yaml")
}
