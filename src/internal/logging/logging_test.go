package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Debug().Str("stage", "match").Msg("hidden")
	log.Error().Msg("also hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestNewDebugConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)
	log.Debug().Str("stage", "payload").Msg("tier evaluated")
	out := buf.String()
	if !strings.Contains(out, "tier evaluated") || !strings.Contains(out, "stage=payload") {
		t.Fatalf("console output: %q", out)
	}
}
