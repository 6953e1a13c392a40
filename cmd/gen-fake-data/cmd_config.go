package main

import (
	"fmt"
	"os"

	"fakedata/internal/config"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "fakedata.yaml"

// newConfigCmd manages experiment config files.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage experiment config files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default experiment config as YAML",
		Long: `Writes the default experiment configuration to a YAML file that can be
passed back with --config.

Example:
  gen-fake-data config init experiments/many.yaml
  gen-fake-data --config experiments/many.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
