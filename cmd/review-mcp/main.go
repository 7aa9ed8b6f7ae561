package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-review-mcp/internal/config"
	"github.com/ironsheep/image-review-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra already prints; just exit non-zero
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		logFormat  string
	)

	root := &cobra.Command{
		Use:   "image-review-mcp",
		Short: "MCP server for interactive medical image review",
		Long: `image-review-mcp drives a single image review session over MCP on stdin/stdout.

Configure it in your MCP client (e.g., Claude Desktop). Logs go to stderr.

Environment variables:
  ` + config.EnvLogLevel + `=debug    Override the configured log level`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			config.ApplyEnv(cfg)
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			logger.Debug("starting image review server",
				"version", Version,
				"build_time", BuildTime,
				"commit", GitCommit)

			srv := server.New(server.Options{
				Config:  cfg,
				Logger:  logger,
				Version: Version,
			})
			if err := srv.Run(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or TOML config file")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.Flags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "image-review-mcp %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "init-config <path>",
		Short: "Write the default configuration to a YAML or TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(config.DefaultConfig(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	})

	return root
}

// newLogger writes to stderr; stdout is reserved for the MCP protocol.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
