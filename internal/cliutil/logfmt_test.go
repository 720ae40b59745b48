package cliutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Paintersrp/procwatch/internal/event"
)

func TestNewLogRecordDefaults(t *testing.T) {
	record := NewLogRecord(event.Event{Process: "tsc", Message: "compiled cleanly"})
	if record.Level != event.LevelInfo {
		t.Fatalf("expected default level info, got %s", record.Level)
	}
	if record.Source != event.SourceStdout {
		t.Fatalf("expected default source stdout, got %s", record.Source)
	}
	if record.Process != "tsc" {
		t.Fatalf("process = %q", record.Process)
	}
}

func TestNewLogRecordInfersLevelFromMessage(t *testing.T) {
	cases := map[string]string{
		"ERROR: build failed":  event.LevelError,
		"warn: deprecated":     event.LevelWarn,
		"debug trace enabled":  event.LevelDebug,
		"info: server started": event.LevelInfo,
		"plain output":         event.LevelInfo,
	}
	for message, want := range cases {
		record := NewLogRecord(event.Event{Message: message})
		if record.Level != want {
			t.Errorf("message %q: level = %s, want %s", message, record.Level, want)
		}
	}
}

func TestNewLogRecordAppendsError(t *testing.T) {
	record := NewLogRecord(event.Event{
		Process: "svc",
		Level:   event.LevelError,
		Source:  event.SourceSystem,
		Message: "failed to read pipe",
		Err:     errors.New("bad file descriptor"),
	})
	if record.Message != "failed to read pipe: bad file descriptor" {
		t.Fatalf("message = %q", record.Message)
	}
}

func TestNewLogRecordRedactsSystemMessages(t *testing.T) {
	record := NewLogRecord(event.Event{
		Source:  event.SourceSystem,
		Level:   event.LevelError,
		Message: "failed to create child process: tool --token s3cr3t",
	})
	if strings.Contains(record.Message, "s3cr3t") {
		t.Fatalf("secret leaked into record: %q", record.Message)
	}

	// Captured child output passes through untouched.
	record = NewLogRecord(event.Event{
		Source:  event.SourceStdout,
		Message: "using --token s3cr3t",
	})
	if !strings.Contains(record.Message, "s3cr3t") {
		t.Fatalf("captured output should not be rewritten: %q", record.Message)
	}
}

func TestEncodeLogEvent(t *testing.T) {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	EncodeLogEvent(enc, &bytes.Buffer{}, event.Event{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Process:   "tsc",
		Type:      event.TypeLog,
		Level:     event.LevelInfo,
		Source:    event.SourceStdout,
		Message:   "compiled",
	})

	var record LogRecord
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record.Process != "tsc" || record.Message != "compiled" || record.Level != "info" {
		t.Fatalf("record = %+v", record)
	}
}

func TestFormatLogEvent(t *testing.T) {
	line := FormatLogEvent(event.Event{
		Timestamp: time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC),
		Process:   "docs",
		Level:     event.LevelInfo,
		Source:    event.SourceStdout,
		Message:   "generated 12 pages",
	})
	for _, want := range []string{"[docs]", "info", "generated 12 pages", "12:30:45"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestRedactSecrets(t *testing.T) {
	cases := []struct {
		input string
		leak  string
	}{
		{"DATABASE_PASSWORD=hunter2", "hunter2"},
		{"api_key: abc123", "abc123"},
		{"run --password hunter2", "hunter2"},
		{"run --token=tok_456", "tok_456"},
		{"echo ${SECRET_REF}", "SECRET_REF"},
	}
	for _, tc := range cases {
		got := RedactSecrets(tc.input)
		if strings.Contains(got, tc.leak) {
			t.Errorf("RedactSecrets(%q) = %q, still contains %q", tc.input, got, tc.leak)
		}
		if !strings.Contains(got, redactedPlaceholder) {
			t.Errorf("RedactSecrets(%q) = %q, missing placeholder", tc.input, got)
		}
	}

	if got := RedactSecrets("plain output line"); got != "plain output line" {
		t.Errorf("benign input rewritten: %q", got)
	}
}
