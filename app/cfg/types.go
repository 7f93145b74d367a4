package cfg

import "time"

const (
	FeedSourceSearch    = "search"
	FeedSourceSynthetic = "synthetic"
)

type Cfg struct {
	// Server configuration
	Port    string
	BaseUrl string

	// Upstream configuration
	UserAgent    string
	GoogleAPIKey string
	GoogleCX     string
	FetchTimeout time.Duration

	// Feed configuration
	FeedSource   string
	TopicsDir    string
	FeedCacheTTL time.Duration

	// Background task configuration
	TrendsEnabled      bool
	PopularityTTL      time.Duration
	TrendsBatchDelay   time.Duration
	PopularitySchedule string
	WarmSchedule       string
	WorkerCount        int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

func (c *Cfg) HasSearchCredentials() bool {
	return c.GoogleAPIKey != "" && c.GoogleCX != ""
}
