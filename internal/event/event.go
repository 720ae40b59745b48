package event

import "time"

// Type captures high level lifecycle and log notifications emitted by
// process handles.
type Type string

const (
	TypeStarting Type = "starting"
	TypeLog      Type = "log"
	TypeStopping Type = "stopping"
	TypeStopped  Type = "stopped"
	TypeClosed   Type = "closed"
	TypeError    Type = "error"
)

// Severity levels attached to events.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Event sources distinguish captured child output from supervisor-generated
// notifications.
const (
	SourceStdout = "stdout"
	SourceSystem = "procwatch"
)

// Event represents a single lifecycle or log notification tagged with the
// supervised process it concerns.
type Event struct {
	Timestamp time.Time
	Process   string
	Type      Type
	Message   string
	Level     string
	Source    string
	Err       error
}

// Sink receives events emitted on behalf of a supervised process. Emit is
// called from the handle's reader goroutine and from the goroutine invoking
// Stop; implementations must tolerate both.
type Sink interface {
	Emit(Event)
}

// ChanSink adapts a channel to the Sink interface.
type ChanSink chan<- Event

// Emit sends the event on the underlying channel.
func (c ChanSink) Emit(evt Event) { c <- evt }

// Func adapts a plain function to the Sink interface.
type Func func(Event)

// Emit invokes the wrapped function.
func (f Func) Emit(evt Event) { f(evt) }
