package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/internal/server"
	"github.com/ludo-technologies/citescan/internal/store"
	"github.com/ludo-technologies/citescan/service"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the audit HTTP API",
		Long: `Start the HTTP API serving audits and the pattern library.

Audits are cached in SQLite by content fingerprint when --cache is set.

Endpoints:
  POST /api/v1/aieo/audit          score content ({"content": "...", "format": "markdown"})
  GET  /api/v1/aieo/patterns       list the pattern library
  GET  /api/v1/aieo/patterns/{id}  describe one pattern
  GET  /healthz                    liveness

Examples:
  citescan serve
  citescan serve --addr :9000 --cache citescan.db --cache-ttl 12`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, "+config.DefaultConfig().Server.Addr+")")
	cmd.Flags().String("cache", "", "SQLite audit cache path (empty disables the cache)")
	cmd.Flags().Int("cache-ttl", 0, "Audit cache TTL in hours (default from config)")
	cmd.Flags().StringP("config", "c", "", "Path to config file")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Path, _ = cmd.Flags().GetString("cache")
	}
	if cmd.Flags().Changed("cache-ttl") {
		cfg.Cache.TTLHours, _ = cmd.Flags().GetInt("cache-ttl")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []service.AuditOption{
		service.WithAuditLogger(logger),
		service.WithAuditTTL(time.Duration(cfg.Cache.TTLHours) * time.Hour),
	}

	if cfg.Cache.Path != "" {
		st, err := store.Open(ctx, cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		purged, err := st.PurgeExpired(ctx, time.Now())
		if err != nil {
			logger.Warn("failed to purge expired audits", "error", err)
		} else if purged > 0 {
			logger.Info("purged expired audits", "count", purged)
		}

		opts = append(opts, service.WithAuditCache(st))
		logger.Info("audit cache enabled", "path", cfg.Cache.Path, "ttl_hours", cfg.Cache.TTLHours)
	}

	engine := service.NewEngineFromConfig(cfg, logger)
	audit := service.NewAuditService(engine, service.NewContentValidator(&cfg.Limits), opts...)

	return server.New(audit, engine, logger).ListenAndServe(ctx, cfg.Server.Addr)
}
