package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/drivecycle/config"
)

// NewRootCmd builds the drivecycle command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "drivecycle",
		Short:         "Longitudinal vehicle dynamics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); environment only when empty")

	load := func() (*config.Config, error) {
		if cfgPath == "" {
			return config.FromEnv()
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	root.AddCommand(newRunCmd(load), newVehicleCmd(load), newScenariosCmd())
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }
