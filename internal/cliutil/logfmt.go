package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/Paintersrp/procwatch/internal/event"
)

// LogRecord represents a structured log event ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Process   string    `json:"process"`
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
	Source    string    `json:"source"`
}

// NewLogRecord converts a supervisor event into a structured log record.
// Supervisor-generated messages are passed through secret redaction since
// they can contain full command lines.
func NewLogRecord(evt event.Event) LogRecord {
	level := evt.Level
	if level == "" {
		if inferred := inferLogLevel(evt.Message); inferred != "" {
			level = inferred
		} else {
			level = event.LevelInfo
		}
	}
	source := evt.Source
	if source == "" {
		source = event.SourceStdout
	}
	message := evt.Message
	if source == event.SourceSystem {
		message = RedactSecrets(message)
	}
	if evt.Err != nil {
		message = fmt.Sprintf("%s: %v", message, evt.Err)
	}
	return LogRecord{
		Timestamp: evt.Timestamp,
		Process:   evt.Process,
		Level:     level,
		Message:   message,
		Source:    source,
	}
}

var levelTokenPattern = regexp.MustCompile(`(?i)\b(error|warn|info|debug)\b`)

func inferLogLevel(message string) string {
	matches := levelTokenPattern.FindStringSubmatch(message)
	if len(matches) < 2 {
		return ""
	}
	switch strings.ToLower(matches[1]) {
	case "error":
		return event.LevelError
	case "warn":
		return event.LevelWarn
	case "debug":
		return event.LevelDebug
	case "info":
		return event.LevelInfo
	default:
		return ""
	}
}

// EncodeLogEvent encodes a log event to JSON, reporting errors to stderr if
// needed.
func EncodeLogEvent(enc *json.Encoder, stderr io.Writer, evt event.Event) {
	if enc == nil {
		return
	}
	record := NewLogRecord(evt)
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := enc.Encode(&record); err != nil {
		fmt.Fprintf(stderr, "error: encode log: %v\n", err)
	}
}

// FormatLogEvent renders an event as a single human-readable line for
// terminal output.
func FormatLogEvent(evt event.Event) string {
	record := NewLogRecord(evt)
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	return fmt.Sprintf("%s [%s] %-5s %s",
		record.Timestamp.Format("15:04:05.000"), record.Process, record.Level, record.Message)
}
