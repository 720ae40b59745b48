package cli

import (
	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/internal/proc"
)

func newRunCmd(ctx *context) *cobra.Command {
	var (
		jsonOut bool
		listen  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Supervise the processes declared in the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}

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

			return superviseProcesses(cmd, specs, cfg.Log.Buffer,
				useJSON(cfg.Log.Format, jsonOut, cmd.OutOrStdout()), listen)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit log records as JSON regardless of terminal detection")
	cmd.Flags().StringVar(&listen, "listen", "", "Serve the status and metrics API on this address (for example 127.0.0.1:7663)")
	return cmd
}
