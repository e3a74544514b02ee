/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/modelmarket/pkg/api"
	"github.com/ssargent/modelmarket/pkg/config"
	"github.com/ssargent/modelmarket/pkg/market"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the modelmarket REST API server.

Requests under /api/v1 must carry the configured API key in X-API-Key.
/metrics and /swagger/ are served without authentication.

Examples:
  modelmarket serve
  modelmarket serve --port 9000 --bind 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Security.APIKey == "" || cfg.Security.APIKey == config.AutoValue {
				return fmt.Errorf("security.api_key is not set (run 'modelmarket init' first)")
			}

			svc, closeFn, err := openMarket(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Serving program %s on %s\n", svc.ProgramID(), cfg.Address())
			cmd.Printf("Metrics available at: http://%s/metrics\n", cfg.Address())
			return startServer(ctx, svc, cfg)
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind")
	return serveCmd
}

func startServer(ctx context.Context, svc *market.Service, cfg *config.Config) error {
	starter := container.GetServerFactory().CreateServerStarter()
	return starter.StartServer(ctx, svc, api.ServerConfig{
		Port:   cfg.Port,
		Bind:   cfg.Bind,
		APIKey: cfg.Security.APIKey,
	})
}
