package main

import (
	"os"

	"lyrics-api/internal/app"
	"lyrics-api/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
)

var cmdRoot = &cobra.Command{
	Use:   "lyrics-api",
	Short: "Multi-provider lyrics search and normalization service",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		app.SetupLogging(config.Default().Log)
		cfg = config.Load(configPath)
		app.SetupLogging(cfg.Log)
	},
}

func init() {
	cmdRoot.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default $XDG_CONFIG_HOME/lyrics-api/config.toml)")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}
