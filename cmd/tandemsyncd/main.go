// Command tandemsyncd runs the sync core as a standalone daemon: one local
// replica of a shared space kept converged with the backend, with Prometheus
// metrics on the side. Useful for soak testing a backend and for hosting the
// replica on an always-on box.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tandemapp/tandemsync"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "tandemsyncd").Logger()

	cfg, err := tandemsync.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	app, err := tandemsync.New(cfg, tandemsync.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct sync core")
	}

	ctx := context.Background()
	app.Start(ctx)
	log.Info().
		Str("base_url", cfg.BaseURL).
		Str("space_id", cfg.SpaceID).
		Str("db_path", cfg.DBPath).
		Msg("sync daemon started")

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server starting")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("metrics server failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Int("pending", app.Pending()).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// One last push so a clean shutdown leaves nothing queued.
	app.Flush(shutdownCtx)

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("metrics server shutdown")
		}
	}
	if err := app.Close(); err != nil {
		log.Error().Err(err).Msg("close sync core")
	}
	log.Info().Msg("daemon exited")
}
