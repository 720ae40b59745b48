package cli

import (
	stdcontext "context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	httpapi "github.com/Paintersrp/procwatch/internal/api/http"
	"github.com/Paintersrp/procwatch/internal/cliutil"
	"github.com/Paintersrp/procwatch/internal/config"
	"github.com/Paintersrp/procwatch/internal/event"
	"github.com/Paintersrp/procwatch/internal/logmux"
	"github.com/Paintersrp/procwatch/internal/metrics"
	"github.com/Paintersrp/procwatch/internal/proc"
)

const (
	sourceBuffer = 16
	pollInterval = 200 * time.Millisecond
)

type processSpec struct {
	name string
	path string
	args []string
	opts proc.Options
}

type supervised struct {
	name   string
	handle *proc.Handle
	src    chan event.Event
}

// superviseProcesses starts every spec, prints muxed events until all
// children have exited or the command context is cancelled, then stops any
// survivors and drains the mux before returning. A non-empty listen address
// serves the status and metrics API for the duration of the run.
func superviseProcesses(cmd *cobra.Command, specs []processSpec, logBuffer int, jsonOut bool, listen string) error {
	mux := logmux.New(logBuffer)
	procs, started := startProcesses(mux, specs)
	ctrl := newTracker(procs)

	var (
		srvErr  error
		srvDone chan struct{}
		srvStop stdcontext.CancelFunc
	)
	if listen != "" {
		server, err := httpapi.NewServer(httpapi.Config{
			Addr:       listen,
			Controller: ctrl,
			Registry:   metrics.Registry(),
		})
		if err != nil {
			return err
		}
		srvCtx, cancel := stdcontext.WithCancel(cmd.Context())
		srvStop = cancel
		srvDone = make(chan struct{})
		go func() {
			defer close(srvDone)
			srvErr = server.Run(srvCtx)
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		printEvents(mux.Output(), cmd.OutOrStdout(), cmd.ErrOrStderr(), jsonOut, ctrl.observe)
	}()

	if started > 0 {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for waiting := true; waiting; {
			select {
			case <-cmd.Context().Done():
				waiting = false
			case <-ticker.C:
				waiting = false
				for _, p := range procs {
					if p.handle.IsRunning() {
						waiting = true
						break
					}
				}
			}
		}
	}

	// The API server must drain its in-flight handlers before the event
	// sources are torn down.
	if srvStop != nil {
		srvStop()
		<-srvDone
	}

	stopProcesses(procs)
	mux.Close()
	<-done

	if started < len(specs) {
		return fmt.Errorf("%d of %d processes failed to start", len(specs)-started, len(specs))
	}
	return srvErr
}

func startProcesses(mux *logmux.Mux, specs []processSpec) ([]supervised, int) {
	procs := make([]supervised, 0, len(specs))
	started := 0
	for _, spec := range specs {
		src := make(chan event.Event, sourceBuffer)
		mux.Add(src)
		handle, err := proc.CreateWithOptions(spec.name, spec.path, spec.args, spec.opts, event.ChanSink(src))
		if err == nil {
			metrics.SetProcessRunning(spec.name, true)
			started++
		}
		procs = append(procs, supervised{name: spec.name, handle: handle, src: src})
	}
	return procs, started
}

func stopProcesses(procs []supervised) {
	for _, p := range procs {
		p.handle.Stop()
		// The reader may still be draining a naturally exited child; its
		// source can only be closed once no more events will arrive.
		<-p.handle.Done()
		metrics.SetProcessRunning(p.name, false)
		close(p.src)
	}
}

func printEvents(events <-chan event.Event, out, errOut io.Writer, jsonOut bool, observe func(event.Event)) {
	var enc *json.Encoder
	if jsonOut {
		enc = json.NewEncoder(out)
	}
	for evt := range events {
		observe(evt)
		if enc != nil {
			cliutil.EncodeLogEvent(enc, errOut, evt)
			continue
		}
		fmt.Fprintln(out, cliutil.FormatLogEvent(evt))
	}
}

func observeEvent(evt event.Event) {
	switch evt.Type {
	case event.TypeLog:
		if evt.Source == event.SourceStdout {
			metrics.IncLinesCaptured(evt.Process)
		}
	case event.TypeError:
		metrics.IncProcessError(evt.Process)
	case event.TypeClosed:
		metrics.SetProcessRunning(evt.Process, false)
	}
}

// useJSON decides the output encoding: an explicit flag or manifest format
// wins, otherwise JSON is used whenever stdout is not a terminal.
func useJSON(format string, jsonFlag bool, out io.Writer) bool {
	if jsonFlag || format == config.FormatJSON {
		return true
	}
	if format == config.FormatText {
		return false
	}
	if f, ok := out.(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return true
}

func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	return list
}
