package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ClimbCoach/internal/app"
	"ClimbCoach/internal/config"
	"ClimbCoach/internal/logging"
)

const configEnv = "CLIMBCOACH_CONFIG"

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "climbcoach",
		Short:         "Climb.Coach marketing site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile == "" {
				return nil
			}
			if err := os.Setenv(configEnv, cfgFile); err != nil {
				return fmt.Errorf("set %s: %w", configEnv, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $"+configEnv+")")

	root.AddCommand(newServeCmd(), newPostsCmd(), newLeadsCmd())
	return root
}

func buildApp(cmd *cobra.Command) (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build application: %w", err)
	}
	return application, nil
}
