package main

import (
	"profilehub/config"

	"github.com/spf13/cobra"
)

var envFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "profilehub",
		Short:         "ProfileHub user accounts API",
		Long:          `ProfileHub serves signup, email verification, login, password reset and profile file management over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file to load before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if version != "dev" {
		cfg.Version = version
	}
	return cfg, nil
}
