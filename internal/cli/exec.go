package cli

import (
	"github.com/spf13/cobra"
)

func newExecCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "exec NAME -- PATH [ARG...]",
		Short: "Supervise a single ad-hoc command",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := processSpec{
				name: args[0],
				path: args[1],
				args: args[2:],
			}
			return superviseProcesses(cmd, []processSpec{spec}, 0,
				useJSON("", jsonOut, cmd.OutOrStdout()), "")
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit log records as JSON regardless of terminal detection")
	return cmd
}
