// Command pricingboard runs the pricing board service: vendor feed
// consumers, the HTTP API, the live stream and the daily eviction.
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
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/pricing-board/internal/api"
	"github.com/rickgao/pricing-board/internal/broker"
	"github.com/rickgao/pricing-board/internal/config"
	"github.com/rickgao/pricing-board/internal/evictor"
	"github.com/rickgao/pricing-board/internal/logging"
	"github.com/rickgao/pricing-board/internal/metrics"
	"github.com/rickgao/pricing-board/internal/model"
	"github.com/rickgao/pricing-board/internal/pipeline"
	"github.com/rickgao/pricing-board/internal/pricing"
	"github.com/rickgao/pricing-board/internal/store"
	"github.com/rickgao/pricing-board/internal/stream"
	"github.com/rickgao/pricing-board/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pricingboard.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("pricing board failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logCloser.Close()
	logger = logger.With("instance_id", cfg.Instance.ID)
	slog.SetDefault(logger)

	logger.Info("starting pricing board",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
		"mode", cfg.Kafka.Mode,
	)

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Core
	repo := store.NewInMemoryRepository(store.Config{RetentionDays: cfg.Eviction.RetentionDays}, logger)
	svc := pricing.NewService(repo, logger)

	var m *metrics.Metrics
	if cfg.MetricsEnabled() {
		m = metrics.New()
		m.ObserveStore(repo.Stats)
	}

	hub := stream.NewHub(stream.Config{
		SendBuffer:   cfg.Stream.SendBuffer,
		WriteTimeout: cfg.Stream.WriteTimeout,
		PingInterval: cfg.Stream.PingInterval,
		PongWait:     cfg.Stream.PongWait,
	}, logger)
	if m != nil {
		hub.SetObserver(m)
	}

	// Transport
	transport, feeds := newTransport(cfg, logger)
	defer func() {
		for _, f := range feeds {
			f.Source.Close()
		}
		if err := transport.Close(); err != nil {
			logger.Warn("transport close failed", "error", err)
		}
	}()

	pipe := pipeline.New(pipeline.Config{
		OutboundTopic:   cfg.Kafka.OutboundTopic,
		DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
		FetchBackoff:    cfg.Kafka.FetchBackoff,
	}, pricing.NewEnricher(nil), svc, broker.FanOut{transport, hub}, transport, logger)
	if m != nil {
		pipe.SetRecorder(m)
	}

	var evictObserver evictor.Observer
	if m != nil {
		evictObserver = m
	}
	ev, err := evictor.New(evictor.Config{
		RunAt:      cfg.Eviction.RunAt,
		RunOnStart: cfg.Eviction.RunOnStart,
	}, repo, evictObserver, logger)
	if err != nil {
		return fmt.Errorf("create evictor: %w", err)
	}

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterConfig{
		BasePath:    cfg.HTTP.BasePath,
		MetricsPath: cfg.Metrics.Path,
	}, api.Deps{
		Handler: api.NewHandler(pipe, svc, logger),
		Stream:  hub,
		Health:  healthReport(cfg, repo, pipe, hub, ev),
		Metrics: m,
	}, logger)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// Start components
	if err := pipe.Start(ctx, feeds); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}
	if err := ev.Start(ctx); err != nil {
		return fmt.Errorf("start evictor: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr, "base_path", cfg.HTTP.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		// Stop intake first so nothing new reaches the publishers.
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown failed", "error", err)
		}
		if err := pipe.Stop(shutdownCtx); err != nil {
			logger.Warn("pipeline stop failed", "error", err)
		}
		if err := ev.Stop(shutdownCtx); err != nil {
			logger.Warn("evictor stop failed", "error", err)
		}
		return hub.Close()
	})

	err = g.Wait()
	logger.Info("pricing board stopped", "records", repo.Stats().Records)
	return err
}

// newTransport returns the publisher shared by the outbound and dead-letter
// paths plus one source per configured feed.
func newTransport(cfg *config.Config, logger *slog.Logger) (broker.Publisher, []pipeline.Feed) {
	feeds := make([]pipeline.Feed, 0, len(cfg.Kafka.Feeds))

	if cfg.Kafka.Mode == config.ModeMemory {
		mem := broker.NewMemory(cfg.Kafka.MemoryCapacity)
		for _, f := range cfg.Kafka.Feeds {
			feeds = append(feeds, pipeline.Feed{Vendor: model.VendorID(f.Vendor), Topic: f.Topic, Source: mem.Source(f.Topic)})
		}
		return mem, feeds
	}

	kcfg := broker.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxAttempts:    cfg.Kafka.MaxAttempts,
		BatchTimeout:   broker.DefaultKafkaConfig().BatchTimeout,
	}
	for _, f := range cfg.Kafka.Feeds {
		feeds = append(feeds, pipeline.Feed{
			Vendor: model.VendorID(f.Vendor),
			Topic:  f.Topic,
			Source: broker.NewKafkaSource(kcfg, f.Topic, logger),
		})
	}
	return broker.NewKafkaPublisher(kcfg, logger), feeds
}

// healthReport builds the component section of /health.
func healthReport(cfg *config.Config, repo *store.InMemoryRepository, pipe *pipeline.Pipeline, hub *stream.Hub, ev *evictor.Evictor) func() gin.H {
	return func() gin.H {
		lastRun, lastResult := ev.LastRun()
		eviction := gin.H{
			"retention_days": cfg.Eviction.RetentionDays,
			"run_at":         cfg.Eviction.RunAt,
			"cutoff":         repo.Cutoff().String(),
		}
		if !lastRun.IsZero() {
			eviction["last_run"] = lastRun.Format(time.RFC3339)
			eviction["last_evicted"] = lastResult.Records
		}

		buckets := repo.Buckets()
		dates := make([]string, len(buckets))
		for i, d := range buckets {
			dates[i] = d.String()
		}

		return gin.H{
			"instance": cfg.Instance.ID,
			"version":  version.Get(),
			"components": gin.H{
				"store":    repo.Stats(),
				"buckets":  dates,
				"pipeline": pipe.Stats(),
				"stream":   hub.Stats(),
				"eviction": eviction,
			},
		}
	}
}
