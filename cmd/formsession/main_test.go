package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestReportConfigError_UsesStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	reportConfigError(&buf, "missing.yaml", errors.New("boom"))

	var entry struct {
		Level   string `json:"level"`
		Message string `json:"message"`
		Error   string `json:"error"`
		Config  string `json:"config"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", buf.String(), err)
	}
	if entry.Level != "fatal" || entry.Message != "failed to load config" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Error != "boom" || entry.Config != "missing.yaml" {
		t.Fatalf("unexpected fields %+v", entry)
	}
}
