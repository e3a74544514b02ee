/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/modelmarket/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the account store",
		Long: `Initialize modelmarket for local development.

This command will:
- Write a configuration file with a generated program id and API key
- Create the data directory and the account store

Examples:
  modelmarket init
  modelmarket init --config ./modelmarket.yaml --data-dir ./data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			force, _ := cmd.Flags().GetBool("force")

			if config.ConfigExists(configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to regenerate.\n", configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}

			_, closeFn, err := openMarket(cfg)
			if err != nil {
				return err
			}
			closeFn()

			cmd.Printf("✅ modelmarket initialized\n")
			cmd.Printf("Config file: %s\n", configPath)
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
			cmd.Printf("Program id: %s\n", cfg.ProgramID)
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Regenerate the configuration even if it exists")
	return initCmd
}
