package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/mavinspect/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration mavinspect would run with, after merging defaults,
the config file, MAVINSPECT_* environment variables and flags.

The output is valid YAML and can be saved as .mavinspect.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}

			source := "defaults"
			if path != "" {
				source = path
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# source: %s\n", source)
			_, err = w.Write(out)
			return err
		},
	}
}
