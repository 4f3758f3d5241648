// Package cmd 命令行入口.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/log"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:           "hydrogen",
		Short:         "Hydrogen media management service",
		Version:       configs.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.InitConfig(configPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			cfg := configs.GetConfig()
			log.Setup(cfg.Log, cfg.Server.Debug || debug)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose output")

	registerServeCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
	registerJobsCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
