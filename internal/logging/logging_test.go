package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWriter_NamedComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter("debug", "json", &buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	logger.Named("loader").Info("hello")

	output := buf.String()
	if !strings.Contains(output, `"logger":"loader"`) {
		t.Errorf("expected logger name in output, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected JSON level field, got: %s", output)
	}
}

func TestNewWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter("info", "text", &buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	logger.Info("text check")

	output := buf.String()
	if !strings.Contains(output, "INFO") || !strings.Contains(output, "text check") {
		t.Errorf("expected console line, got: %s", output)
	}
}

func TestNewWriter_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter("warn", "text", &buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	logger.Info("should be suppressed")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be suppressed") {
		t.Error("Info message should be suppressed at Warn level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("Warn message should appear at Warn level")
	}
}

func TestConfig_RejectsUnknownValues(t *testing.T) {
	if _, err := Config("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := Config("info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
