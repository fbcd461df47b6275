package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"SetupSentinel/internal/collector"
	"SetupSentinel/internal/config"
	"SetupSentinel/internal/logger"
	"SetupSentinel/internal/metrics"
	"SetupSentinel/internal/notifier"
	"SetupSentinel/internal/recorder"
	"SetupSentinel/internal/render"
	"SetupSentinel/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("SetupSentinel starting", zap.Time("at", time.Now()), zap.String("config", cfgPath))
	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info("data source", zap.String("fetcher", fetcher.Name()))

	col := collector.NewCollector(fetcher, cfg.DataSource.LookbackBars, cfg.Network.Timeout)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if !tn.Configured() {
		log.Warn("telegram credentials missing, alerts will only be logged", zap.Error(notifier.ErrNotConfigured))
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)
	if cfg.Metrics.Addr != "" {
		go metrics.Serve(ctx, cfg.Metrics.Addr, reg)
	}

	opts := scheduler.Options{
		Source:        col,
		Notifier:      tn,
		Recorder:      rec,
		Metrics:       m,
		Instruments:   cfg.ResolveInstruments(),
		SetupWindow:   cfg.Strategy.SetupWindow,
		TrendBoundary: cfg.Boundary(),
		SendTimeout:   cfg.Network.Timeout,
	}
	if cfg.ChartEnabled() {
		opts.Renderer = render.NewChartRenderer(cfg.Chart.Lookback, cfg.Chart.Width, cfg.Chart.Height)
	}
	sched := scheduler.NewScheduler(ctx, opts)

	if os.Getenv("RUN_ONCE") == "true" {
		if _, err := sched.RunOnce(ctx); err != nil {
			log.Error("run", zap.Error(err))
		}
		return
	}

	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatal("register cron task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, running all instruments now")
		go func() {
			if _, err := sched.RunOnce(ctx); err != nil {
				log.Warn("startup run skipped", zap.Error(err))
			}
		}()
	}

	log.Info("SetupSentinel is running", zap.String("cron", cfg.Schedule.DailyCron))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
}
