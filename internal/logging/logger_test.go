package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := New("production", "loud"); err == nil {
		t.Fatalf("expected invalid level to fail")
	}
}

func TestComponentFieldInJSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "production", "INFO")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	Component(logger, "backfill").Info().Msg("started")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["service"] != "wirsuchen" || line["component"] != "backfill" || line["environment"] != "production" {
		t.Fatalf("unexpected log fields: %v", line)
	}
}
