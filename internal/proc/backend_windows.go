//go:build windows

package proc

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Paintersrp/procwatch/internal/ansi"
	"github.com/Paintersrp/procwatch/internal/event"
	"github.com/Paintersrp/procwatch/internal/lineio"
)

type windowsBackend struct {
	name    string
	proc    windows.Handle
	thread  windows.Handle
	rdPipe  windows.Handle
	closing atomic.Bool
	stopMu  sync.Mutex
	sink    event.Sink
	done    chan struct{}
}

func newBackend(sink event.Sink) backend {
	return &windowsBackend{sink: sink}
}

func (b *windowsBackend) start(name, path string, args []string, opts Options) error {
	b.name = name
	cmdline := buildCommandLine(strings.ReplaceAll(path, "/", `\`), args)

	failSpawn := func(stage string, err error) error {
		emit(b.sink, name, event.TypeError, event.LevelError, "failed to create child process: "+cmdline, err)
		return fmt.Errorf("%s for %s: %w", stage, name, err)
	}

	sa := &windows.SecurityAttributes{InheritHandle: 1}
	sa.Length = uint32(unsafe.Sizeof(*sa))

	var rd, wr windows.Handle
	if err := windows.CreatePipe(&rd, &wr, sa, 0); err != nil {
		return failSpawn("create pipe", err)
	}
	// The read end stays with the supervisor and must not leak into the
	// child.
	if err := windows.SetHandleInformation(rd, windows.HANDLE_FLAG_INHERIT, 0); err != nil {
		windows.CloseHandle(rd)
		windows.CloseHandle(wr)
		return failSpawn("create pipe", err)
	}

	si := &windows.StartupInfo{
		Flags:     windows.STARTF_USESTDHANDLES,
		StdOutput: wr,
		StdErr:    wr,
	}
	si.Cb = uint32(unsafe.Sizeof(*si))
	pi := &windows.ProcessInformation{}

	cmdPtr, err := windows.UTF16PtrFromString(cmdline)
	if err != nil {
		windows.CloseHandle(rd)
		windows.CloseHandle(wr)
		return failSpawn("create process", err)
	}

	var dirPtr *uint16
	if opts.Dir != "" {
		if dirPtr, err = windows.UTF16PtrFromString(opts.Dir); err != nil {
			windows.CloseHandle(rd)
			windows.CloseHandle(wr)
			return failSpawn("create process", err)
		}
	}

	flags := uint32(windows.NORMAL_PRIORITY_CLASS | windows.CREATE_NO_WINDOW)
	var envPtr *uint16
	if len(opts.Env) > 0 {
		envPtr, err = environmentBlock(append(os.Environ(), opts.Env...))
		if err != nil {
			windows.CloseHandle(rd)
			windows.CloseHandle(wr)
			return failSpawn("create process", err)
		}
		flags |= windows.CREATE_UNICODE_ENVIRONMENT
	}

	if err := windows.CreateProcess(nil, cmdPtr, nil, nil, true, flags, envPtr, dirPtr, si, pi); err != nil {
		windows.CloseHandle(rd)
		windows.CloseHandle(wr)
		return failSpawn("create process", err)
	}
	windows.CloseHandle(wr)

	b.proc = pi.Process
	b.thread = pi.Thread
	b.rdPipe = rd
	b.done = make(chan struct{})
	go b.readLoop()
	emit(b.sink, name, event.TypeStarting, event.LevelDebug, cmdline, nil)
	return nil
}

func environmentBlock(env []string) (*uint16, error) {
	var block []uint16
	for _, kv := range env {
		u, err := windows.UTF16FromString(kv)
		if err != nil {
			return nil, err
		}
		block = append(block, u...)
	}
	block = append(block, 0)
	return &block[0], nil
}

func (b *windowsBackend) readLoop() {
	defer close(b.done)

	asm := lineio.NewAssembler(lineio.DecodeSystem, func(line string) {
		emitLine(b.sink, b.name, line)
	})

	buf := make([]byte, chunkSize)
	for !b.closing.Load() {
		var read uint32
		if err := windows.ReadFile(b.rdPipe, buf, &read, nil); err != nil {
			// ERROR_BROKEN_PIPE is the normal end of stream once the
			// child has exited and the write end is gone.
			if !b.closing.Load() && !errors.Is(err, windows.ERROR_BROKEN_PIPE) {
				emit(b.sink, b.name, event.TypeError, event.LevelError, "failed to read pipe", err)
			}
			break
		}
		if read == 0 {
			break
		}
		asm.Consume(ansi.Strip(buf[:read]))
	}
	emit(b.sink, b.name, event.TypeClosed, event.LevelDebug, "closed", nil)
}

func (b *windowsBackend) finished() <-chan struct{} {
	return b.done
}

func (b *windowsBackend) isRunning() bool {
	if b.closing.Load() || b.proc == 0 {
		return false
	}
	var code uint32
	if err := windows.GetExitCodeProcess(b.proc, &code); err != nil {
		return false
	}
	return code == windows.STILL_ACTIVE
}

func (b *windowsBackend) stop() {
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

	// Termination is unconditional; killing a child that already exited is
	// not an error worth surfacing.
	_ = windows.TerminateProcess(b.proc, 0)
	windows.CloseHandle(b.proc)
	windows.CloseHandle(b.thread)
	windows.CloseHandle(b.rdPipe)
	<-b.done
	emit(b.sink, b.name, event.TypeStopped, event.LevelInfo, "terminated", nil)
}
