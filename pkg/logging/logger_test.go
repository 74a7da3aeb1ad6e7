package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestLevelFiltering tests that messages below the configured level are dropped
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WARN, false)
	logger.SetOutput(&buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("Expected debug/info to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("Expected warn/error to be logged, got: %s", out)
	}
}

// TestJSONFormat tests structured JSON output with fields
func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO, true)
	logger.SetOutput(&buf)

	logger.WithField("run_id", "abc123").Info("job finished", map[string]interface{}{
		"exit_code": 0,
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log entry as JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "job finished" {
		t.Errorf("Expected message 'job finished', got %q", entry.Message)
	}
	if entry.Fields["run_id"] != "abc123" {
		t.Errorf("Expected run_id field to survive WithField, got %v", entry.Fields)
	}
	if entry.Fields["exit_code"] != float64(0) {
		t.Errorf("Expected exit_code field, got %v", entry.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
