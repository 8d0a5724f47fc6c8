package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"StockScout/internal/collector"
	"StockScout/internal/config"
	"StockScout/internal/fundamentals"
	"StockScout/internal/journal"
	"StockScout/internal/logger"
	"StockScout/internal/notifier"
	"StockScout/internal/pipeline"
	"StockScout/internal/regime"
	"StockScout/internal/risk"
	"StockScout/internal/scheduler"
	"StockScout/internal/screen"
	"StockScout/internal/universe"
)

func main() {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	cfgPath := flag.String("config", defaultCfg, "path to config file")
	once := flag.Bool("once", false, "run one screening pass and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		boot := logger.New("info", false)
		boot.Fatal().Err(err).Msg("Load config failed")
	}
	if err := cfg.Validate(); err != nil {
		boot := logger.New("info", false)
		boot.Fatal().Err(err).Msg("Config validation failed")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Str("config", *cfgPath).Msg("StockScout starting")

	// Price history source: self-hosted bars API when configured, Yahoo
	// Finance otherwise.
	var fetcher collector.Fetcher
	if cfg.Bars.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.Bars.BaseURL, cfg.Bars.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Msg("Price source selected")
	prices := collector.NewCollector(fetcher, cfg.Bars.LookbackDays, cfg.Bars.RequestsPerSec, log)

	// Universe sources are tried in order; the run is fatal only when all
	// of them fail.
	var sources []universe.Provider
	if cfg.Universe.URL != "" {
		sources = append(sources, universe.NewHTTPProvider(cfg.Universe.URL, cfg.Proxy, log))
	}
	if cfg.Universe.FallbackFile != "" {
		sources = append(sources, universe.NewFileProvider(cfg.Universe.FallbackFile))
	}
	if len(cfg.Universe.Symbols) > 0 {
		sources = append(sources, universe.NewStaticProvider(cfg.Universe.Symbols))
	}
	uni := universe.NewChainProvider(log, sources...)

	funds := fundamentals.NewHTTPProvider(cfg.Fundamentals.BaseURL, cfg.Fundamentals.APIKey,
		cfg.Proxy, cfg.Fundamentals.RequestsPerSec, log)

	classifier := regime.NewClassifier(regime.Config{
		BullishVIXMax: cfg.Regime.BullishVIXMax,
		BearishVIXMin: cfg.Regime.BearishVIXMin,
	}, log)

	pipe := pipeline.New(pipeline.Config{
		IndexSymbol:     cfg.Market.IndexSymbol,
		VIXSymbol:       cfg.Market.VIXSymbol,
		ExcludedSectors: cfg.Screen.ExcludedSectors,
		Thresholds: screen.FundamentalThresholds{
			MinMarketCap:      cfg.Screen.MinMarketCap,
			MaxDebtToEquity:   cfg.Screen.MaxDebtToEquity,
			MinROCE:           cfg.Screen.MinROCE,
			MinSalesGrowth5Y:  cfg.Screen.MinSalesGrowth5Y,
			MinProfitGrowth5Y: cfg.Screen.MinProfitGrowth5Y,
		},
		MinHistoryBars: cfg.Screen.MinHistoryBars,
		Risk: risk.Profile{
			Capital:      cfg.Risk.Capital,
			RiskPerTrade: cfg.Risk.RiskPerTrade,
			StopRatio:    cfg.Risk.StopRatio,
			TargetRatio:  cfg.Risk.TargetRatio,
		},
		Workers: cfg.Workers,
	}, classifier, uni, funds, prices, log)

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	var jrn journal.Journal
	if cfg.Database.SQLitePath != "" {
		sj, err := journal.NewSQLiteJournal(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("Journal unavailable, decisions will not be persisted")
			jrn = journal.NewNoopJournal()
		} else {
			jrn = sj
			defer sj.Close()
		}
	} else {
		jrn = journal.NewNoopJournal()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, pipe, tn, jrn, log)

	if *once {
		sched.RunScreenNow()
		return
	}

	if err := sched.Register(cfg.Schedule.ScreenCron); err != nil {
		log.Fatal().Err(err).Msg("Register cron task failed")
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, screening now")
		go sched.RunScreenNow()
	}

	log.Info().Str("cron", cfg.Schedule.ScreenCron).Msg("StockScout is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("Shutdown signal received, stopping")
	cancel()
}
