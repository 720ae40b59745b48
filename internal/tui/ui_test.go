package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Paintersrp/procwatch/internal/event"
)

func newTestUI(t *testing.T) *UI {
	t.Helper()
	app := tview.NewApplication()
	table := tview.NewTable().SetFixed(1, 1).SetSelectable(true, false)
	logs := tview.NewTextView()
	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(logs, 0, 3, false)
	pages := tview.NewPages().AddPage("main", flex, true, true)

	ui := &UI{
		app:       app,
		pages:     pages,
		table:     table,
		logs:      logs,
		events:    make(chan event.Event, 1),
		processes: make(map[string]*processState),
		maxLogs:   defaultLogRetention,
		done:      make(chan struct{}),
	}

	app.SetRoot(pages, true)
	app.SetInputCapture(ui.handleKey)

	return ui
}

func TestHandleKeyRespectsOverlayFocus(t *testing.T) {
	ui := newTestUI(t)
	ui.app.SetFocus(ui.table)

	slash := tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone)
	if res := ui.handleKey(slash); res != nil {
		t.Fatalf("expected filter shortcut to be consumed when table focused")
	}

	if _, ok := ui.app.GetFocus().(*tview.InputField); !ok {
		t.Fatalf("expected filter input to have focus, got %T", ui.app.GetFocus())
	}

	ui.pages.RemovePage(filterPageName)
	ui.app.SetFocus(ui.table)

	runeEvent := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	if res := ui.handleKey(runeEvent); res != runeEvent {
		t.Fatalf("expected rune to pass through when table focused")
	}
	if ui.logsFocused {
		t.Fatalf("expected logsFocused to match table focus")
	}
}

func TestToggleFocusMovesBetweenPanes(t *testing.T) {
	ui := newTestUI(t)
	ui.app.SetFocus(ui.table)

	ui.toggleFocus()
	if ui.app.GetFocus() != ui.logs {
		t.Fatalf("expected logs to have focus after toggle")
	}
	ui.toggleFocus()
	if ui.app.GetFocus() != ui.table {
		t.Fatalf("expected table to regain focus")
	}
}

func TestApplyEventTracksProcessState(t *testing.T) {
	ui := newTestUI(t)

	now := time.Now()
	ui.mu.Lock()
	ui.applyEventLocked(event.Event{
		Timestamp: now,
		Process:   "tsc",
		Type:      event.TypeLog,
		Level:     event.LevelInfo,
		Source:    event.SourceStdout,
		Message:   "compiled",
	})
	ui.applyEventLocked(event.Event{
		Timestamp: now.Add(time.Second),
		Process:   "tsc",
		Type:      event.TypeError,
		Level:     event.LevelError,
		Source:    event.SourceSystem,
		Err:       errors.New("failed to read pipe"),
	})
	ui.mu.Unlock()

	ui.mu.RLock()
	defer ui.mu.RUnlock()
	state := ui.processes["tsc"]
	if state == nil {
		t.Fatal("expected process state to be created")
	}
	if state.lines != 1 {
		t.Fatalf("lines = %d, want 1", state.lines)
	}
	if len(state.logs) != 1 {
		t.Fatalf("retained %d records, want 1", len(state.logs))
	}
	if state.state != event.TypeError {
		t.Fatalf("state = %s, want error", state.state)
	}
	if state.message != "failed to read pipe" {
		t.Fatalf("message = %q", state.message)
	}
}

func TestLogRetentionTrimsOldRecords(t *testing.T) {
	ui := newTestUI(t)
	ui.maxLogs = 3

	ui.mu.Lock()
	for i := 0; i < 10; i++ {
		ui.applyEventLocked(event.Event{
			Process: "svc",
			Type:    event.TypeLog,
			Source:  event.SourceStdout,
			Message: "line",
		})
	}
	ui.mu.Unlock()

	ui.mu.RLock()
	defer ui.mu.RUnlock()
	if got := len(ui.processes["svc"].logs); got != 3 {
		t.Fatalf("retained %d records, want 3", got)
	}
}
