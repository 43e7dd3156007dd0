package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"energydash/config"
	"energydash/logger"
)

var configPath string

var rootCMD = &cobra.Command{
	Use:   "energydash",
	Short: "French daily gas and electricity consumption explorer",
	Long: `energydash loads the ODRE daily raw consumption export once per process
and serves aggregated views of it (hourly, daily, ratio, monthly, annual)
over HTTP or prints them from the command line.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCMD.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: ./config or ../config next to the binary)")

	rootCMD.AddCommand(serveCMD)
	rootCMD.AddCommand(viewCMD)
}

// setup loads the configuration and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
