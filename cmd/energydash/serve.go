package main

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"energydash/internal/energy/collector"
	"energydash/internal/energy/loader"
	"energydash/internal/energy/server"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Warm the dataset cache and serve the options, views and Prometheus metrics over HTTP.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := loader.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
			return err
		}
		if err := server.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := collector.New(cfg, log)
		if cfg.Server.WarmOnStart {
			// a failed warm-up is retried by the first request
			if err := c.Warm(ctx); err != nil {
				log.Warn("dataset not loaded at startup", zap.Error(err))
			}
		}
		go c.ReportStats(ctx, cfg.Server.StatsInterval)

		srv := server.New(c.Loader, c.URL, server.Options{
			ListenAddr:   cfg.Server.ListenAddr,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}, log)
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}
