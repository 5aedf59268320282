package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR": LogLevelError,
		"warn":  LogLevelWarn,
		"":      LogLevelInfo,
		"bogus": LogLevelInfo,
		"DEBUG": LogLevelDebug,
		"trace": LogLevelTrace,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestLoggerFiltersByLevelAndPrefixes(t *testing.T) {
	var buf bytes.Buffer
	original := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(original)

	logger := NewLogger(LogLevelWarn).With("Imputer")
	logger.Info("hidden")
	logger.Warn("filled %d cells", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at WARN level: %q", out)
	}
	if !strings.Contains(out, "[WARN] [Imputer] filled 3 cells") {
		t.Errorf("expected prefixed warning, got %q", out)
	}
}
