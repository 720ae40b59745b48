//go:build !unix && !windows

package proc

import "github.com/Paintersrp/procwatch/internal/event"

// stubBackend is compiled on platforms without process-creation support.
// Start succeeds without doing anything and the handle never reports
// running.
type stubBackend struct{}

func newBackend(event.Sink) backend { return stubBackend{} }

func (stubBackend) start(string, string, []string, Options) error { return nil }

func (stubBackend) stop() {}

func (stubBackend) finished() <-chan struct{} { return nil }

func (stubBackend) isRunning() bool { return false }
