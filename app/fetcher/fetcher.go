package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/titouancv/linkedin-scrapper/app/metrics"
)

const maxBodySize = 5 << 20

// Fetcher performs one browser-like GET per page. Failures are reported as an
// absent page, never as an error.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Run returns the page markup and true, or "" and false when the page could
// not be retrieved.
func (f *Fetcher) Run(ctx context.Context, url string) (string, bool) {
	html, err := f.fetch(ctx, url)
	if err != nil {
		slog.Debug("Failed to fetch page", "url", url, "error", err)
		metrics.PageFetches.WithLabelValues("failed").Inc()
		return "", false
	}

	metrics.PageFetches.WithLabelValues("ok").Inc()
	return html, true
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(data), nil
}
