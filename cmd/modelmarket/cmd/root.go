/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/modelmarket/pkg/config"
	"github.com/ssargent/modelmarket/pkg/di"
	"github.com/ssargent/modelmarket/pkg/logger"
	"github.com/ssargent/modelmarket/pkg/market"
)

var container *di.Container

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modelmarket",
		Short: "modelmarket - AI model listing store",
		Long: `modelmarket keeps purchasable AI model listings as fixed-size records in
program-owned accounts and creates them through the create_listing
transition.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", config.GetDefaultConfigPath(), "Path to the configuration file")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory (overrides the configuration file)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides the configuration file)")

	rootCmd.AddCommand(
		newInitCmd(),
		newAccountCmd(),
		newListingCmd(),
		newJournalCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration file (defaults when it does not exist)
// and applies flag and MODELMARKET_* environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v := config.NewViper()
	bindings := map[string]string{
		"data_dir":      "data-dir",
		"logging.level": "log-level",
		"port":          "port",
		"bind":          "bind",
	}
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}
	cfg.ApplyOverrides(v)

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	return cfg, nil
}

// openMarket opens the host under the configured data directory and binds
// the configured program to it. The returned func closes the host.
func openMarket(cfg *config.Config) (*market.Service, func(), error) {
	if container == nil {
		return nil, nil, fmt.Errorf("dependency container not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	programID, err := cfg.ProgramIdentity()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	h, err := container.GetHostFactory().OpenHost(cfg.DataDir, cfg.Rent)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open host: %w", err)
	}
	return market.NewService(h, programID), func() { h.Close() }, nil
}

// withMarket loads the configuration, opens the market and runs fn.
func withMarket(cmd *cobra.Command, fn func(svc *market.Service) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, closeFn, err := openMarket(cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}
