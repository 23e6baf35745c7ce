package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/framepilot/internal/adapters/http"
	"github.com/aretw0/framepilot/internal/config"
	"github.com/aretw0/framepilot/internal/logging"
	redisAdapter "github.com/aretw0/framepilot/pkg/adapters/redis"
	"github.com/aretw0/framepilot/pkg/observability"
	"github.com/aretw0/framepilot/pkg/registry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session HTTP server",
	Long:  `Starts the framepilot registry in server mode, exposing session management and event dispatch as a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen, _ = cmd.Flags().GetString("listen")
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			fmt.Printf("Error in config: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(level)

		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(promReg)

		regOpts := []registry.Option{
			registry.WithLogger(logger),
			registry.WithHooks(metrics.Hooks()),
		}
		if cfg.Redis.Enabled {
			store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				redisAdapter.WithPrefix(cfg.Redis.Prefix))
			defer store.Close()
			regOpts = append(regOpts, registry.WithMirror(store))
			logger.Info("snapshot mirror enabled", "addr", cfg.Redis.Addr)
		}

		reg := registry.New(regOpts...)
		handler := httpAdapter.NewHandler(reg,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithGatherer(promReg),
		)

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting framepilot server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			logger.Error("server error", "err", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("framepilot server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", ":8080", "Address to listen on")
}
