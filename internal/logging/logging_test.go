package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("hidden")
	logger.Warn("skipping entry with unknown type", zap.String("key", "K1"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.HasPrefix(out, "WARN\tskipping entry with unknown type") {
		t.Errorf("console output = %q, want WARN prefix without timestamp", out)
	}
	if !strings.Contains(out, `"key": "K1"`) {
		t.Errorf("console output missing field: %q", out)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("rendered", zap.Int("entries", 3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "rendered" || entry["entries"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["ts"]; ok {
		t.Errorf("entry has timestamp: %v", entry)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", false); err == nil {
		t.Error("New() should reject unknown level")
	}
}
