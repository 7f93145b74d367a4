package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://trends.google.com"
	timeseriesID   = "TIMESERIES"
)

// Point is one sample of interest over time, one value per compared keyword.
type Point struct {
	Time    time.Time
	Values  []int
	HasData []bool
}

type Source interface {
	InterestOverTime(ctx context.Context, keywords []string, from, to time.Time) ([]Point, error)
}

// Client talks to the Google Trends web endpoints used by the explore page.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Time    string `json:"time"`
			Value   []int  `json:"value"`
			HasData []bool `json:"hasData"`
		} `json:"timelineData"`
	} `json:"default"`
}

func (c *Client) InterestOverTime(ctx context.Context, keywords []string, from, to time.Time) ([]Point, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	window := from.Format("2006-01-02") + " " + to.Format("2006-01-02")
	req := exploreRequest{}
	for _, keyword := range keywords {
		req.ComparisonItem = append(req.ComparisonItem, comparisonItem{Keyword: keyword, Time: window})
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode explore request: %w", err)
	}

	var explore exploreResponse
	params := url.Values{"hl": {"en-US"}, "tz": {"0"}, "req": {string(payload)}}
	if err := c.get(ctx, "/trends/api/explore", params, &explore); err != nil {
		return nil, fmt.Errorf("failed to explore keywords: %w", err)
	}

	for _, widget := range explore.Widgets {
		if widget.ID != timeseriesID {
			continue
		}

		var data multilineResponse
		params := url.Values{"hl": {"en-US"}, "tz": {"0"}, "req": {string(widget.Request)}, "token": {widget.Token}}
		if err := c.get(ctx, "/trends/api/widgetdata/multiline", params, &data); err != nil {
			return nil, fmt.Errorf("failed to fetch interest over time: %w", err)
		}

		points := make([]Point, 0, len(data.Default.TimelineData))
		for _, entry := range data.Default.TimelineData {
			point := Point{Values: entry.Value, HasData: entry.HasData}
			if sec, err := strconv.ParseInt(entry.Time, 10, 64); err == nil {
				point.Time = time.Unix(sec, 0).UTC()
			}
			points = append(points, point)
		}
		return points, nil
	}

	return nil, fmt.Errorf("no %s widget in explore response", timeseriesID)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(stripGuard(data), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// stripGuard removes the ")]}'" line Trends prepends to every JSON body.
func stripGuard(data []byte) []byte {
	if i := bytes.IndexByte(data, '{'); i >= 0 {
		return data[i:]
	}
	return data
}
