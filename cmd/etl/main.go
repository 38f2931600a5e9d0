// Command etl fetches current weather for one city, reshapes it into a flat
// CSV record, and loads it. Each task can run on its own so an external
// scheduler can trigger them separately:
//
//	etl -task extract
//	etl -task transform
//	etl -task load
//
// The default, -task all, runs the three in dependency order.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weather-data-etl/internal/adapter/filestore"
	httpadapter "github.com/couchcryptid/weather-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/weather-data-etl/internal/adapter/openweather"
	"github.com/couchcryptid/weather-data-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/weather-data-etl/internal/config"
	"github.com/couchcryptid/weather-data-etl/internal/observability"
	"github.com/couchcryptid/weather-data-etl/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	taskFlag := flag.String("task", "all", "task to run: extract, transform, load, or all")
	flag.Parse()

	tasks, err := pipeline.ParseTask(*taskFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, tasks, logger, metrics); err != nil {
		logger.Error("etl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, tasks []pipeline.Task, logger *slog.Logger, metrics *observability.Metrics) error {
	client := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherURL, cfg.OpenWeatherTimeout, logger, metrics)
	store := filestore.New(cfg.RawDataPath, cfg.CSVDataPath)

	var sinks []pipeline.Sink
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.SQLitePath != "" {
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("sqlite close error", "error", err)
			}
		}()
		sinks = append(sinks, db)
		logger.Info("sqlite sink enabled", "path", cfg.SQLitePath)
	}

	p, err := pipeline.New(cfg.City, client, store, sinks, logger, metrics)
	if err != nil {
		return err
	}

	if cfg.HTTPAddr == "" {
		return p.Run(ctx, tasks...)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, prometheus.DefaultGatherer, logger)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		runErr := p.Run(gctx, tasks...)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return runErr
	})

	return g.Wait()
}
