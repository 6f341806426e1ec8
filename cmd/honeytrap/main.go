package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/greyline-systems/honeytrap/internal/api"
	"github.com/greyline-systems/honeytrap/internal/config"
	"github.com/greyline-systems/honeytrap/internal/controller"
	"github.com/greyline-systems/honeytrap/internal/detect"
	"github.com/greyline-systems/honeytrap/internal/events"
	"github.com/greyline-systems/honeytrap/internal/gemini"
	"github.com/greyline-systems/honeytrap/internal/intel"
	"github.com/greyline-systems/honeytrap/internal/profile"
	"github.com/greyline-systems/honeytrap/internal/reply"
	"github.com/greyline-systems/honeytrap/internal/report"
	"github.com/greyline-systems/honeytrap/internal/store"
	"github.com/greyline-systems/honeytrap/internal/strategy"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("honeytrap starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store. Redis is preferred; the in-memory fallback keeps the
	// honeypot conversational when Redis is down or not configured.
	var primary store.Backend
	redisStore, err := store.NewRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		slog.Warn("redis unavailable, sessions are memory-only", "url", cfg.RedisURL, "error", err)
	} else {
		defer redisStore.Close()
		primary = redisStore
		slog.Info("redis connected", "url", cfg.RedisURL, "ttl", cfg.SessionTTL)
	}
	sessions := store.New(primary, slog.Default())

	// Report archive (optional).
	var archiver controller.Archiver
	if cfg.DatabaseURL != "" {
		archive, err := report.NewArchive(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer archive.Close()
		archiver = archive
		slog.Info("report archive connected")
	} else {
		slog.Warn("DATABASE_URL not set, reports are not archived")
	}

	// Event publisher (optional).
	var sink controller.EventSink
	if cfg.NatsURL != "" {
		pub, err := events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		sink = pub
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running without event publishing")
	}

	// Agents. With a Gemini key each stage runs on the LLM; without one
	// the deterministic implementations keep the honeypot functional.
	var (
		detector  detect.Detector
		profiler  profile.Profiler
		extractor intel.Extractor
		generator reply.Generator
	)
	if cfg.GeminiAPIKey != "" {
		llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		detector = detect.NewLLMDetector(llm, slog.Default())
		profiler = profile.NewHybridProfiler(llm, slog.Default())
		extractor = intel.NewLLMExtractor(llm, slog.Default())
		generator = reply.NewLLMGenerator(llm, slog.Default())
		slog.Info("gemini client ready", "model", cfg.GeminiModel)
	} else {
		detector = detect.NewKeywordDetector()
		profiler = profile.NewRuleProfiler()
		extractor = intel.NewRegexExtractor()
		generator = reply.NewStubGenerator()
		slog.Warn("GEMINI_API_KEY not set, running with rule-based agents")
	}

	// Reporting callback.
	var reporter report.Reporter
	if cfg.CallbackURL != "" {
		reporter = report.NewClient(cfg.CallbackURL, cfg.CallbackAPIKey, slog.Default())
		slog.Info("reporting callback ready", "url", cfg.CallbackURL)
	} else {
		slog.Warn("CALLBACK_URL not set, final reports are log-only")
	}

	stratCfg := strategy.DefaultConfig()
	stratCfg.MaxTurns = cfg.MaxTurns
	stratCfg.MinIntel = cfg.MinIntel

	ctrl := controller.New(controller.Options{
		Store:     sessions,
		Detector:  detector,
		Profiler:  profiler,
		Extractor: extractor,
		Generator: generator,
		Strategy:  strategy.New(stratCfg),
		Reporter:  reporter,
		Archiver:  archiver,
		Sink:      sink,
		Logger:    slog.Default(),
		Timeout:   cfg.AgentTimeout,
	})

	srv := api.NewServer(cfg.Port, cfg.APIToken, ctrl)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("honeytrap ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("honeytrap stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
