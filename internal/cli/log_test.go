package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("context did not return the attached logger")
	}

	// A bare context falls back to the default logger.
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("bare context returned nil logger")
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	l.Debug("hidden")
	l.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info message missing")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Laid out 3 steps")

	out := buf.String()
	if !strings.Contains(out, "Laid out 3 steps") {
		t.Errorf("progress output = %q", out)
	}
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("progress output missing duration: %q", out)
	}
}
