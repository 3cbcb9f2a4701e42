package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/murmur/internal/cli"
	httpAdapter "github.com/aretw0/murmur/pkg/adapters/http"
	"github.com/aretw0/murmur/pkg/adapters/redis"
	"github.com/aretw0/murmur/pkg/observability"
	"github.com/aretw0/murmur/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the engine as a JSON API described by /openapi.yaml, with server-sent events per
group on /events. Set MURMUR_REDIS_ADDR to serialize group access across replicas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("metrics") {
			cfg.Metrics, _ = cmd.Flags().GetBool("metrics")
		}
		logger := cli.CreateLogger(cfg.Level(), false)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		hooks := observability.Combine(metrics.Hooks(), observability.LoggingHooks(logger))

		var locker ports.DistributedLocker
		if cfg.RedisAddr != "" {
			rl := redis.NewFromAddr(cfg.RedisAddr, cfg.RedisPrefix)
			defer rl.Close()
			if err := rl.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("redis unavailable: %w", err)
			}
			logger.Info("using redis locks", "addr", cfg.RedisAddr)
			locker = rl
		}

		engine, err := buildEngine(cmd, cfg, logger, hooks, locker)
		if err != nil {
			return err
		}

		handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if cfg.Metrics {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}
		handler, err := httpAdapter.NewHandler(engine, handlerOpts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting murmur server", "addr", srv.Addr, "groups", engine.Groups())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-sigCtx.Done():
			logger.Info("shutting down", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("murmur server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (env MURMUR_PORT)")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics (env MURMUR_METRICS)")
}
