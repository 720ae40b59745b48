// Package proc supervises a single child process with streaming output
// capture.
//
// A handle launches the executable with stdout and stderr merged into one
// anonymous pipe and runs a background reader goroutine that strips ANSI
// escape sequences, assembles lines, and forwards them to the handle's
// event sink. Stop terminates the child unconditionally and joins the
// reader before returning, so no further events are emitted once it
// returns.
//
// Exactly one backend is compiled per target. The Windows backend flattens
// the command line and drives the Win32 process and pipe handles directly;
// the Unix backend fork/execs with a discrete argument vector in its own
// session. Platforms without process-creation support get a no-op backend
// that never reports running.
//
// Stop must not be called from the reader's sink. Concurrent Stop calls on
// the same handle are safe: one performs the teardown and the rest block
// until it has completed.
package proc
