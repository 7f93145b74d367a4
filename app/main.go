package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/titouancv/linkedin-scrapper/app/api"
	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/cfg"
	"github.com/titouancv/linkedin-scrapper/app/feed"
	"github.com/titouancv/linkedin-scrapper/app/fetcher"
	"github.com/titouancv/linkedin-scrapper/app/parser"
	"github.com/titouancv/linkedin-scrapper/app/search"
	"github.com/titouancv/linkedin-scrapper/app/tasks"
	"github.com/titouancv/linkedin-scrapper/app/trends"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting LinkedIn Radar", "version", appCfg.Version, "feed_source", appCfg.FeedSource)

	topics := catalog.NewCatalog(appCfg.TopicsDir)
	if err := topics.Run(); err != nil {
		slog.Error("Failed to load topic catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Topic catalog loaded", "count", topics.Count())

	if !appCfg.HasSearchCredentials() {
		slog.Warn("Google search credentials not set, search results will be empty")
	}

	searcher := search.NewSearcher(
		search.NewClient(appCfg.GoogleAPIKey, appCfg.GoogleCX),
		fetcher.NewFetcher(appCfg.FetchTimeout, appCfg.UserAgent),
		parser.NewParser(),
	)

	var source feed.Source
	switch appCfg.FeedSource {
	case cfg.FeedSourceSearch:
		source = feed.NewSearchSource(searcher, time.Now, appCfg.FeedCacheTTL)
	default:
		source = feed.NewSyntheticSource(time.Now, appCfg.FeedCacheTTL)
	}
	assembler := feed.NewAssembler(topics, source)

	var scorer *catalog.Scorer
	if appCfg.TrendsEnabled {
		scorer = catalog.NewScorer(
			trends.NewClient(appCfg.UserAgent),
			catalog.WithTTL(appCfg.PopularityTTL),
			catalog.WithBatchDelay(appCfg.TrendsBatchDelay),
		)
	} else {
		slog.Info("Popularity scoring disabled, all topics score 0")
	}

	scheduler := tasks.NewScheduler(topics, scorer, source)
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(api.NewHandler(topics, scorer, assembler, searcher)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
