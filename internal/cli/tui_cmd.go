package cli

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/logmux"
	"github.com/Paintersrp/procwatch/internal/proc"
	"github.com/Paintersrp/procwatch/internal/tui"
)

func newTuiCmd(ctx *context) *cobra.Command {
	var maxLogs int

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Supervise processes with an interactive terminal interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}

			mux := logmux.New(cfg.Log.Buffer)
			specs := make([]processSpec, 0, len(cfg.Processes))
			for _, name := range cfg.ProcessNames() {
				p := cfg.Processes[name]
				specs = append(specs, processSpec{
					name: name,
					path: p.Path,
					args: p.Args,
					opts: proc.Options{Dir: p.Workdir, Env: envList(p.Env)},
				})
			}
			procs, _ := startProcesses(mux, specs)

			ui := tui.New(tui.WithMaxLogs(maxLogs))

			// Once the UI is done the processes are torn down; closing
			// their sources lets the mux drain and close its output.
			stopped := make(chan struct{})
			go func() {
				defer close(stopped)
				<-ui.Done()
				stopProcesses(procs)
				mux.Close()
			}()

			var pump sync.WaitGroup
			pump.Add(1)
			go func() {
				defer pump.Done()
				sink := ui.EventSink()
				for evt := range mux.Output() {
					observeEvent(evt)
					select {
					case sink <- evt:
					case <-ui.Done():
						// UI stopped; keep draining so producers never
						// block on a full sink.
					}
				}
				ui.CloseEvents()
			}()

			err = ui.Run(cmd.Context())

			<-stopped
			pump.Wait()
			return err
		},
	}

	cmd.Flags().IntVar(&maxLogs, "max-logs", 0, "Maximum log records retained per process (0 uses the default)")
	return cmd
}
