package internal

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" Debug ": LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for input, expected := range tests {
		if got := ParseLogLevel(input); got != expected {
			t.Errorf("ParseLogLevel(%q) = %d, expected %d", input, got, expected)
		}
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := NewLogger(LogLevelWarn)
	logger.Error("e %d", 1)
	logger.Warn("w %d", 2)
	logger.Info("i %d", 3)
	logger.Debug("d %d", 4)

	out := buf.String()
	if !strings.Contains(out, "[ERROR] e 1") || !strings.Contains(out, "[WARN] w 2") {
		t.Errorf("Expected error and warn lines, got %q", out)
	}
	if strings.Contains(out, "[INFO]") || strings.Contains(out, "[DEBUG]") {
		t.Errorf("Expected info and debug to be filtered, got %q", out)
	}
}
