package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/titouancv/linkedin-scrapper/app/metrics"
	"github.com/titouancv/linkedin-scrapper/app/trends"
)

const (
	BatchSize         = 5
	DefaultTTL        = 24 * time.Hour
	DefaultBatchDelay = time.Second
	TrendWindow       = 30 * 24 * time.Hour
	// FailureBackoff is how long read-through callers skip the trend source
	// after every batch of a refresh failed.
	FailureBackoff = 5 * time.Minute
	// RefreshTimeout bounds a shared read-through refresh.
	RefreshTimeout = 2 * time.Minute
)

var errRecentFailure = errors.New("trend source failed recently")

// Scorer rates topics 0..100 by recent search interest. Scores are computed
// in batches against a trend source and cached for the TTL.
type Scorer struct {
	source    trends.Source
	now       func() time.Time
	ttl       time.Duration
	batchSize int
	limiter   *rate.Limiter
	group     singleflight.Group

	mu        sync.RWMutex
	scores    map[string]int
	fetchedAt time.Time
	failedAt  time.Time
}

type ScorerOption func(*Scorer)

func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		s.now = now
	}
}

func WithTTL(ttl time.Duration) ScorerOption {
	return func(s *Scorer) {
		s.ttl = ttl
	}
}

func WithBatchDelay(delay time.Duration) ScorerOption {
	return func(s *Scorer) {
		s.limiter = newBatchLimiter(delay)
	}
}

func NewScorer(source trends.Source, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		source:    source,
		now:       time.Now,
		ttl:       DefaultTTL,
		batchSize: BatchSize,
		limiter:   newBatchLimiter(DefaultBatchDelay),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newBatchLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Scores returns the score of every keyword it knows. It never fails: when
// the trend source is unavailable the previous scores, or none, are served.
func (s *Scorer) Scores(ctx context.Context, keywords []string) map[string]int {
	if scores, ok := s.cached(keywords); ok {
		return scores
	}

	scores, err := s.do(ctx, keywords, false)
	if errors.Is(err, errRecentFailure) {
		slog.Debug("Trend source in backoff, serving previous scores")
		return s.snapshot()
	}
	if err != nil {
		slog.Warn("Popularity refresh failed, serving previous scores", "error", err)
		return s.snapshot()
	}
	return scores
}

// Refresh queries the trend source regardless of cache state or backoff.
func (s *Scorer) Refresh(ctx context.Context, keywords []string) (map[string]int, error) {
	return s.do(ctx, keywords, true)
}

// do runs at most one upstream refresh at a time; concurrent callers share
// its result. Read-through refreshes outlive the request that started them.
func (s *Scorer) do(ctx context.Context, keywords []string, force bool) (map[string]int, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		if force {
			return s.refresh(ctx, keywords)
		}

		if scores, ok := s.cached(keywords); ok {
			return scores, nil
		}
		if s.inBackoff() {
			return nil, errRecentFailure
		}

		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RefreshTimeout)
		defer cancel()
		return s.refresh(refreshCtx, keywords)
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(v.(map[string]int)), nil
}

func (s *Scorer) refresh(ctx context.Context, keywords []string) (map[string]int, error) {
	to := s.now()
	from := to.Add(-TrendWindow)

	scores := make(map[string]int, len(keywords))
	var errs []error
	batches := 0

	for start := 0; start < len(keywords); start += s.batchSize {
		batch := keywords[start:min(start+s.batchSize, len(keywords))]
		batches++

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("interrupted between trend batches: %w", err)
		}

		points, err := s.source.InterestOverTime(ctx, batch, from, to)
		if err != nil {
			slog.Warn("Trend batch failed", "keywords", batch, "error", err)
			errs = append(errs, err)
			for _, keyword := range batch {
				scores[keyword] = 0
			}
			continue
		}

		for i, keyword := range batch {
			scores[keyword] = averageInterest(points, i)
		}
	}

	if batches > 0 && len(errs) == batches {
		metrics.TrendRefreshes.WithLabelValues("failed").Inc()
		s.mu.Lock()
		s.failedAt = s.now()
		s.mu.Unlock()
		return nil, fmt.Errorf("all trend batches failed: %w", errors.Join(errs...))
	}

	outcome := "ok"
	if len(errs) > 0 {
		outcome = "partial"
	}
	metrics.TrendRefreshes.WithLabelValues(outcome).Inc()

	s.mu.Lock()
	s.scores = scores
	s.fetchedAt = to
	s.failedAt = time.Time{}
	s.mu.Unlock()

	slog.Info("Popularity scores refreshed", "keywords", len(keywords), "failed_batches", len(errs))
	return scores, nil
}

func (s *Scorer) cached(keywords []string) (map[string]int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.scores == nil || s.now().Sub(s.fetchedAt) >= s.ttl {
		return nil, false
	}
	for _, keyword := range keywords {
		if _, ok := s.scores[keyword]; !ok {
			return nil, false
		}
	}
	return maps.Clone(s.scores), true
}

func (s *Scorer) inBackoff() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return !s.failedAt.IsZero() && s.now().Sub(s.failedAt) < FailureBackoff
}

func (s *Scorer) snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.scores == nil {
		return map[string]int{}
	}
	return maps.Clone(s.scores)
}

// averageInterest is the rounded mean of the samples that carry data for the
// keyword at index, clamped to 0..100.
func averageInterest(points []trends.Point, index int) int {
	sum, count := 0, 0
	for _, point := range points {
		if index >= len(point.Values) || index >= len(point.HasData) || !point.HasData[index] {
			continue
		}
		sum += point.Values[index]
		count++
	}
	if count == 0 {
		return 0
	}

	score := int(math.Round(float64(sum) / float64(count)))
	return max(0, min(100, score))
}
