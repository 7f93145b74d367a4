package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://radar.example.com)"`

	// Upstream configuration
	UserAgent    string `long:"user-agent" env:"USER_AGENT" description:"User agent string sent when fetching post pages"`
	GoogleAPIKey string `long:"google-api-key" env:"GOOGLE_API_KEY" description:"Google Custom Search API key"`
	GoogleCX     string `long:"google-cx" env:"GOOGLE_CX" description:"Google Custom Search engine identifier"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Post page fetch timeout in seconds (0 disables)"`

	// Feed configuration
	FeedSource   string `long:"feed-source" env:"FEED_SOURCE" default:"search" choice:"search" choice:"synthetic" description:"Where feed posts come from"`
	TopicsDir    string `long:"topics-dir" env:"TOPICS_DIR" default:"./topics" description:"Directory containing topic override files"`
	FeedCacheTTL int    `long:"feed-cache-ttl" env:"FEED_CACHE_TTL" default:"60" description:"Live feed cache lifetime in minutes"`

	// Background task configuration
	TrendsEnabled      bool   `long:"trends-enabled" env:"TRENDS_ENABLED" description:"Score topic popularity with Google Trends"`
	PopularityTTL      int    `long:"popularity-ttl" env:"POPULARITY_TTL" default:"24" description:"Popularity cache lifetime in hours"`
	TrendsBatchDelay   int    `long:"trends-batch-delay" env:"TRENDS_BATCH_DELAY" default:"1000" description:"Delay between trend comparison batches in milliseconds"`
	PopularitySchedule string `long:"popularity-schedule" env:"POPULARITY_SCHEDULE" default:"@daily" description:"Cron schedule for background popularity refresh"`
	WarmSchedule       string `long:"warm-schedule" env:"WARM_SCHEDULE" description:"Cron schedule for pre-loading the first page of every topic feed (empty disables)"`
	WorkerCount        int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Paris)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", raw.WorkerCount)
	}

	cfg := &Cfg{
		Port:               raw.Port,
		BaseUrl:            raw.BaseUrl,
		UserAgent:          cmp.Or(raw.UserAgent, defaultUserAgent),
		GoogleAPIKey:       raw.GoogleAPIKey,
		GoogleCX:           raw.GoogleCX,
		FetchTimeout:       time.Duration(max(raw.FetchTimeout, 0)) * time.Second,
		FeedSource:         raw.FeedSource,
		TopicsDir:          raw.TopicsDir,
		FeedCacheTTL:       time.Duration(max(raw.FeedCacheTTL, 0)) * time.Minute,
		TrendsEnabled:      raw.TrendsEnabled,
		PopularityTTL:      time.Duration(max(raw.PopularityTTL, 0)) * time.Hour,
		TrendsBatchDelay:   time.Duration(max(raw.TrendsBatchDelay, 0)) * time.Millisecond,
		PopularitySchedule: raw.PopularitySchedule,
		WarmSchedule:       raw.WarmSchedule,
		WorkerCount:        raw.WorkerCount,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
