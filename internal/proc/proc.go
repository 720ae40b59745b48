package proc

import (
	"time"

	"github.com/Paintersrp/procwatch/internal/event"
)

const chunkSize = 4096

// Options carries optional spawn settings beyond the core name/path/args
// surface. The zero value inherits the parent's working directory and
// environment.
type Options struct {
	// Dir is the child's working directory. Empty means the parent's.
	Dir string

	// Env holds additional KEY=VALUE entries appended to the parent's
	// environment.
	Env []string
}

// backend is implemented once per target platform.
type backend interface {
	start(name, path string, args []string, opts Options) error
	stop()
	isRunning() bool
	// finished returns the reader goroutine's completion channel, or nil
	// when no reader was ever started.
	finished() <-chan struct{}
}

var noReader = func() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Handle is the platform-independent supervisor for one child process.
type Handle struct {
	name string
	b    backend
}

// Create builds the platform backend and immediately starts the child.
// The returned handle is always usable: when start fails it permanently
// reports not running and Stop is a no-op. The error reports why the child
// could not be created; the same failure is also surfaced through the sink.
func Create(name, path string, args []string, sink event.Sink) (*Handle, error) {
	return CreateWithOptions(name, path, args, Options{}, sink)
}

// CreateWithOptions is Create with explicit spawn options.
func CreateWithOptions(name, path string, args []string, opts Options, sink event.Sink) (*Handle, error) {
	h := &Handle{name: name, b: newBackend(sink)}
	err := h.b.start(name, path, args, opts)
	return h, err
}

// Name returns the diagnostic tag the handle was created with.
func (h *Handle) Name() string {
	return h.name
}

// IsRunning reports whether the child is still alive. It is conservative:
// once Stop has begun the handle reports not running regardless of what
// the operating system would say.
func (h *Handle) IsRunning() bool {
	return h.b.isRunning()
}

// Stop forcibly terminates the child, closes the pipe and joins the reader
// goroutine. Calling it on a handle that is not observed running is a
// no-op. Concurrent calls are safe: exactly one performs the teardown and
// the rest block until it has completed, after which no further events are
// emitted for the handle.
func (h *Handle) Stop() {
	h.b.stop()
}

// Done returns a channel closed once the reader goroutine has finished.
// After a Stop call has returned and this channel is closed, no further
// events are emitted for the handle. For a handle whose start failed the
// channel is already closed.
func (h *Handle) Done() <-chan struct{} {
	if d := h.b.finished(); d != nil {
		return d
	}
	return noReader
}

func emit(sink event.Sink, name string, t event.Type, level, message string, err error) {
	if sink == nil {
		return
	}
	sink.Emit(event.Event{
		Timestamp: time.Now(),
		Process:   name,
		Type:      t,
		Message:   message,
		Level:     level,
		Source:    event.SourceSystem,
		Err:       err,
	})
}

func emitLine(sink event.Sink, name, line string) {
	if sink == nil {
		return
	}
	sink.Emit(event.Event{
		Timestamp: time.Now(),
		Process:   name,
		Type:      event.TypeLog,
		Message:   line,
		Level:     event.LevelInfo,
		Source:    event.SourceStdout,
	})
}
