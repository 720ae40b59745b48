package api

import (
	stdcontext "context"
	"errors"
	"time"

	"github.com/Paintersrp/procwatch/internal/event"
)

var (
	ErrUnknownProcess    = errors.New("unknown process")
	ErrProcessNotRunning = errors.New("process not running")
)

// ProcessReport describes the runtime state of a single supervised process.
type ProcessReport struct {
	Name      string     `json:"name"`
	Running   bool       `json:"running"`
	State     event.Type `json:"state"`
	Lines     int        `json:"lines"`
	FirstSeen time.Time  `json:"first_seen"`
	LastEvent time.Time  `json:"last_event"`
	Message   string     `json:"message"`
}

// StatusReport aggregates supervisor-wide status information.
type StatusReport struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Processes   map[string]ProcessReport `json:"processes"`
}

// StopResult captures the outcome of a stop operation.
type StopResult struct {
	Process    string    `json:"process"`
	WasRunning bool      `json:"was_running"`
	StoppedAt  time.Time `json:"stopped_at"`
}

// Controller exposes supervisor operations required by control servers.
type Controller interface {
	Status(stdcontext.Context) (*StatusReport, error)
	StopProcess(stdcontext.Context, string) (*StopResult, error)
}
