package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("test message %s", "arg") }, "[DEBUG] test message arg\n"},
		{"info", func() { Info("info message %d", 42) }, "[INFO] info message 42\n"},
		{"warn", func() { Warn("warning message") }, "[WARN] warning message\n"},
		{"section", func() { Section("Proximity Search") }, "\n=== Proximity Search ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestQuietWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("debug")
	Info("info")
	Warn("warn")
	Section("section")
	Step("step")()

	assert.Zero(t, buf.Len())
}

func TestStep(t *testing.T) {
	buf := capture(t, true)

	done := Step("match")
	done()

	assert.Contains(t, buf.String(), "[DEBUG] match took ")
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
