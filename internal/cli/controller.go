package cli

import (
	stdcontext "context"
	"fmt"
	"sync"
	"time"

	"github.com/Paintersrp/procwatch/internal/api"
	"github.com/Paintersrp/procwatch/internal/event"
	"github.com/Paintersrp/procwatch/internal/metrics"
)

// tracker folds supervisor events into per-process state and exposes it as
// the control surface served by the HTTP API.
type tracker struct {
	mu    sync.Mutex
	procs map[string]supervised
	stats map[string]*procStats
}

type procStats struct {
	state     event.Type
	lines     int
	firstSeen time.Time
	lastEvent time.Time
	message   string
}

func newTracker(procs []supervised) *tracker {
	t := &tracker{
		procs: make(map[string]supervised, len(procs)),
		stats: make(map[string]*procStats, len(procs)),
	}
	for _, p := range procs {
		t.procs[p.name] = p
	}
	return t
}

// observe updates metrics and the status snapshot from one muxed event.
func (t *tracker) observe(evt event.Event) {
	observeEvent(evt)

	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.stats[evt.Process]
	if st == nil {
		st = &procStats{firstSeen: evt.Timestamp}
		t.stats[evt.Process] = st
	}
	st.lastEvent = evt.Timestamp
	switch evt.Type {
	case event.TypeLog:
		if evt.Source == event.SourceStdout {
			st.lines++
		}
	default:
		st.state = evt.Type
		switch {
		case evt.Message != "":
			st.message = evt.Message
		case evt.Err != nil:
			st.message = evt.Err.Error()
		}
	}
}

func (t *tracker) Status(stdcontext.Context) (*api.StatusReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	reports := make(map[string]api.ProcessReport, len(t.procs))
	for name, p := range t.procs {
		report := api.ProcessReport{
			Name:    name,
			Running: p.handle.IsRunning(),
		}
		if st := t.stats[name]; st != nil {
			report.State = st.state
			report.Lines = st.lines
			report.FirstSeen = st.firstSeen
			report.LastEvent = st.lastEvent
			report.Message = st.message
		}
		reports[name] = report
	}
	return &api.StatusReport{
		GeneratedAt: time.Now().UTC(),
		Processes:   reports,
	}, nil
}

func (t *tracker) StopProcess(_ stdcontext.Context, name string) (*api.StopResult, error) {
	t.mu.Lock()
	p, ok := t.procs[name]
	t.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", api.ErrUnknownProcess, name)
	}
	if !p.handle.IsRunning() {
		return nil, fmt.Errorf("%w: %s", api.ErrProcessNotRunning, name)
	}
	p.handle.Stop()
	metrics.SetProcessRunning(name, false)
	return &api.StopResult{
		Process:    name,
		WasRunning: true,
		StoppedAt:  time.Now().UTC(),
	}, nil
}
