package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/procwatch/schema"
)

func newConfigCmd(ctx *context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the process manifest",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Parse and validate the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manifest %s is valid: %d processes\n",
				*ctx.configFile, len(cfg.Processes))
			for _, name := range cfg.ProcessNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, cfg.Processes[name].Path)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a starter manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *ctx.configFile
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := os.WriteFile(path, schema.ManifestExample, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter manifest to %s\n", path)
			return nil
		},
	})

	return cmd
}
