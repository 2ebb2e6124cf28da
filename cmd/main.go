/*
Package main is the entry point for shopreco.

It loads configuration, initializes the global logger and runs the backend API, the
console server or both, shutting them down gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"shopreco/internal/configs"
	"shopreco/internal/pkg/logx"
)

var rootCmd = &cobra.Command{
	Use:           "shopreco",
	Short:         "Product recommendation demo: backend API and interactive console",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the backend API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), runAPI)
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the console page server against BACKEND_URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), runConsole)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend API and the console server together",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), func(ctx context.Context, cfg *configs.AppConfig) error {
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return runAPI(ctx, cfg) })
			g.Go(func() error { return runConsole(ctx, cfg) })
			return g.Wait()
		})
	},
}

func init() {
	rootCmd.AddCommand(apiCmd, consoleCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

// run loads the configuration, sets up logging and calls fn with a context that
// ends on SIGINT or SIGTERM.
func run(parent context.Context, fn func(ctx context.Context, cfg *configs.AppConfig) error) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Int("console_port", cfg.ConsolePort).
		Str("backend_url", cfg.Client.BackendURL).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("postgres", cfg.DatabaseDSN != "").
		Bool("redis", cfg.RedisAddr != "").
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, cfg)
}
