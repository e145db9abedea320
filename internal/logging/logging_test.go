package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"repairdesk/internal/errors"
)

func TestBuildFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: "warn", Format: "json"}
	level, err := parseLevel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	log := build(cfg, level, zapcore.AddSync(&buf)).Named("backend")

	log.Info("dropped")
	log.Warn("kept", zap.String("issue_id", "5"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["msg"] != "kept" || entry["logger"] != "backend" || entry["issue_id"] != "5" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	before := Logger
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown level", Config{Level: "loud"}},
		{"unknown format", Config{Format: "xml"}},
		{"unwritable output", Config{Output: filepath.Join(t.TempDir(), "missing", "log.txt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Initialize(tt.cfg)
			if !errors.IsType(err, errors.TypeConfig) {
				t.Errorf("expected config error, got %v", err)
			}
			if Logger != before {
				t.Error("logger replaced on error")
			}
		})
	}
}

func TestInitializeFileOutput(t *testing.T) {
	before := Logger
	defer func() { Logger = before }()

	path := filepath.Join(t.TempDir(), "repairdesk.log")
	if err := Initialize(Config{Level: "debug", Format: "json", Output: path}); err != nil {
		t.Fatal(err)
	}
	Named("intake").Debug("issue toggled")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"logger":"intake"`) {
		t.Errorf("unexpected log file %s", data)
	}
}
