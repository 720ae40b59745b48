//go:build unix

package proc

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/Paintersrp/procwatch/internal/ansi"
	"github.com/Paintersrp/procwatch/internal/event"
	"github.com/Paintersrp/procwatch/internal/lineio"
)

type unixBackend struct {
	name    string
	pid     int
	rdPipe  int
	closing atomic.Bool
	stopMu  sync.Mutex
	sink    event.Sink
	done    chan struct{}
}

func newBackend(sink event.Sink) backend {
	return &unixBackend{pid: -1, rdPipe: -1, sink: sink}
}

func (b *unixBackend) start(name, path string, args []string, opts Options) error {
	b.name = name

	argv0, err := exec.LookPath(path)
	if err != nil {
		emit(b.sink, name, event.TypeError, event.LevelError, "failed to create child process: "+path, err)
		return fmt.Errorf("create process %s: %w", name, err)
	}

	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		emit(b.sink, name, event.TypeError, event.LevelError, "failed to create child process: "+path, err)
		return fmt.Errorf("create pipe for %s: %w", name, err)
	}
	rd, wr := fds[0], fds[1]
	// Fds 1 and 2 are dup'ed into the child explicitly; keep the parent's
	// copies out of any other children.
	unix.CloseOnExec(rd)
	unix.CloseOnExec(wr)

	env := os.Environ()
	if len(opts.Env) > 0 {
		env = append(env, opts.Env...)
	}

	argv := append([]string{argv0}, args...)
	pid, err := syscall.ForkExec(argv0, argv, &syscall.ProcAttr{
		Dir:   opts.Dir,
		Env:   env,
		Files: []uintptr{0, uintptr(wr), uintptr(wr)},
		Sys:   &syscall.SysProcAttr{Setsid: true},
	})
	if err != nil {
		unix.Close(rd)
		unix.Close(wr)
		emit(b.sink, name, event.TypeError, event.LevelError, "failed to create child process: "+strings.Join(argv, " "), err)
		return fmt.Errorf("create process %s: %w", name, err)
	}
	unix.Close(wr)

	b.pid = pid
	b.rdPipe = rd
	b.done = make(chan struct{})
	go b.readLoop()
	emit(b.sink, name, event.TypeStarting, event.LevelDebug, strings.Join(argv, " "), nil)
	return nil
}

func (b *unixBackend) readLoop() {
	defer close(b.done)

	asm := lineio.NewAssembler(lineio.DecodeUTF8, func(line string) {
		emitLine(b.sink, b.name, line)
	})

	buf := make([]byte, chunkSize)
	for !b.closing.Load() {
		n, err := unix.Read(b.rdPipe, buf)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			if !b.closing.Load() {
				emit(b.sink, b.name, event.TypeError, event.LevelError, "failed to read pipe", err)
			}
			break
		}
		if n == 0 {
			break
		}
		asm.Consume(ansi.Strip(buf[:n]))
	}

	// Reap the child so no zombie remains when it exited on its own. When
	// stop already reaped it this returns ECHILD, which is fine.
	var status unix.WaitStatus
	if wpid, err := unix.Wait4(b.pid, &status, 0, nil); err == nil && wpid == b.pid && status.Exited() {
		emit(b.sink, b.name, event.TypeClosed, event.LevelDebug, fmt.Sprintf("closed (%d)", status.ExitStatus()), nil)
		return
	}
	emit(b.sink, b.name, event.TypeClosed, event.LevelDebug, "closed", nil)
}

func (b *unixBackend) finished() <-chan struct{} {
	return b.done
}

func (b *unixBackend) isRunning() bool {
	if b.closing.Load() || b.pid < 0 {
		return false
	}
	var status unix.WaitStatus
	wpid, err := unix.Wait4(b.pid, &status, unix.WNOHANG, nil)
	return err == nil && wpid == 0
}

func (b *unixBackend) stop() {
	// The mutex makes the teardown exclusive, events included: a concurrent
	// Stop blocks here until the winner has fully finished, then observes
	// the closing flag through isRunning and leaves without emitting.
	b.stopMu.Lock()
	defer b.stopMu.Unlock()
	if !b.isRunning() {
		return
	}
	b.closing.Store(true)
	emit(b.sink, b.name, event.TypeStopping, event.LevelDebug, "terminating", nil)

	killErr := unix.Kill(b.pid, unix.SIGKILL)
	// Closing the read end makes a blocked read fail; the reader treats
	// errors after the closing flag is set as shutdown, not failure.
	unix.Close(b.rdPipe)
	if killErr == nil {
		var status unix.WaitStatus
		unix.Wait4(b.pid, &status, 0, nil)
	}
	<-b.done
	emit(b.sink, b.name, event.TypeStopped, event.LevelInfo, "terminated", nil)
}
