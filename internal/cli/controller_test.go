package cli

import (
	stdcontext "context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/Paintersrp/procwatch/internal/api"
	"github.com/Paintersrp/procwatch/internal/event"
	"github.com/Paintersrp/procwatch/internal/proc"
)

func newStoppedSupervised(t *testing.T, name string) supervised {
	t.Helper()
	handle, err := proc.Create(name, "/nonexistent/procwatch-test-binary", nil, nil)
	if err == nil {
		t.Fatalf("expected spawn failure for nonexistent binary")
	}
	return supervised{name: name, handle: handle}
}

func TestTrackerStatusReportsObservedState(t *testing.T) {
	tr := newTracker([]supervised{newStoppedSupervised(t, "web")})

	now := time.Now()
	tr.observe(event.Event{Timestamp: now, Process: "web", Type: event.TypeStarting, Message: "spawning"})
	for i := 0; i < 3; i++ {
		tr.observe(event.Event{Timestamp: now, Process: "web", Type: event.TypeLog, Source: event.SourceStdout, Message: "line"})
	}

	status, err := tr.Status(stdcontext.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	report, ok := status.Processes["web"]
	if !ok {
		t.Fatalf("expected report for web, got %v", status.Processes)
	}
	if report.Lines != 3 {
		t.Fatalf("expected 3 lines, got %d", report.Lines)
	}
	if report.State != event.TypeStarting {
		t.Fatalf("expected starting state, got %q", report.State)
	}
	if report.Message != "spawning" {
		t.Fatalf("expected message 'spawning', got %q", report.Message)
	}
	if report.Running {
		t.Fatalf("expected process to report not running")
	}
}

func TestTrackerStopUnknownProcess(t *testing.T) {
	tr := newTracker(nil)
	_, err := tr.StopProcess(stdcontext.Background(), "ghost")
	if !errors.Is(err, api.ErrUnknownProcess) {
		t.Fatalf("expected ErrUnknownProcess, got %v", err)
	}
}

func TestTrackerStopProcessNotRunning(t *testing.T) {
	tr := newTracker([]supervised{newStoppedSupervised(t, "web")})
	_, err := tr.StopProcess(stdcontext.Background(), "web")
	if !errors.Is(err, api.ErrProcessNotRunning) {
		t.Fatalf("expected ErrProcessNotRunning, got %v", err)
	}
}

func TestTrackerStopProcessTerminatesChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	sink := make(chan event.Event, 64)
	handle, err := proc.Create("sleeper", "sh", []string{"-c", "sleep 30"}, event.ChanSink(sink))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tr := newTracker([]supervised{{name: "sleeper", handle: handle, src: sink}})

	result, err := tr.StopProcess(stdcontext.Background(), "sleeper")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !result.WasRunning {
		t.Fatalf("expected was_running true")
	}
	<-handle.Done()
	if handle.IsRunning() {
		t.Fatalf("expected child to be stopped")
	}
}
