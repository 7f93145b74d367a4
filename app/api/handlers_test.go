package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/cfg"
	"github.com/titouancv/linkedin-scrapper/app/feed"
	"github.com/titouancv/linkedin-scrapper/app/search"
	"github.com/titouancv/linkedin-scrapper/app/trends"
)

type fakeSearcher struct {
	topic  string
	offset int
}

func (f *fakeSearcher) Run(ctx context.Context, topic string, offset int) search.Page {
	f.topic = topic
	f.offset = offset
	return search.Page{
		Results: []search.Result{{Title: "t", Link: "https://www.linkedin.com/posts/1", AuthorName: "Jane"}},
		HasMore: true,
	}
}

type fakeTrends struct{}

func (fakeTrends) InterestOverTime(ctx context.Context, keywords []string, from, to time.Time) ([]trends.Point, error) {
	point := trends.Point{Values: make([]int, len(keywords)), HasData: make([]bool, len(keywords))}
	for i := range keywords {
		point.Values[i] = 60
		point.HasData[i] = true
	}
	return []trends.Point{point}, nil
}

func setupTestServer(t *testing.T) (*gin.Engine, *fakeSearcher) {
	t.Helper()

	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()
	if _, err := cfg.Load(); err != nil {
		t.Fatal(err)
	}

	topics := catalog.NewCatalog("")
	if err := topics.Run(); err != nil {
		t.Fatal(err)
	}

	now := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	assembler := feed.NewAssembler(topics, feed.NewSyntheticSource(now, 0))
	scorer := catalog.NewScorer(fakeTrends{}, catalog.WithBatchDelay(0))
	searcher := &fakeSearcher{}

	return NewServer(NewHandler(topics, scorer, assembler, searcher)), searcher
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListSubjects(t *testing.T) {
	r, _ := setupTestServer(t)

	rec := get(t, r, "/api/subjects")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var body struct {
		Subjects []catalog.Topic `json:"subjects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Subjects) == 0 {
		t.Fatal("Expected subjects")
	}
	if body.Subjects[0].Slug != "ai-act" || body.Subjects[0].PopularityScore != 60 {
		t.Errorf("Unexpected first subject: %+v", body.Subjects[0])
	}
}

func TestGetFeed(t *testing.T) {
	r, _ := setupTestServer(t)

	tests := []struct {
		name           string
		path           string
		expectedItems  int
		expectedCursor *int
	}{
		{"defaults", "/api/feed/ai-act", feed.DefaultLimit, intPtr(15)},
		{"explicit page", "/api/feed/ai-act?cursor=15&limit=10", 10, intPtr(25)},
		{"malformed params ignored", "/api/feed/ai-act?cursor=abc&limit=x", feed.DefaultLimit, intPtr(15)},
		{"limit clamped", "/api/feed/ai-act?limit=500", feed.MaxLimit, intPtr(30)},
		{"end of feed", "/api/feed/ai-act?cursor=150&limit=30", 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, r, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}

			var page feed.Page
			if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
				t.Fatal(err)
			}
			if len(page.Items) != tt.expectedItems {
				t.Errorf("Expected %d items, got %d", tt.expectedItems, len(page.Items))
			}
			switch {
			case tt.expectedCursor == nil && page.NextCursor != nil:
				t.Errorf("Expected null next cursor, got %d", *page.NextCursor)
			case tt.expectedCursor != nil && (page.NextCursor == nil || *page.NextCursor != *tt.expectedCursor):
				t.Errorf("Expected next cursor %d, got %v", *tt.expectedCursor, page.NextCursor)
			}
		})
	}
}

func TestGetFeedNullCursorIsSerialized(t *testing.T) {
	r, _ := setupTestServer(t)

	rec := get(t, r, "/api/feed/ai-act?cursor=150&limit=30")
	if !strings.Contains(rec.Body.String(), `"nextCursor":null`) {
		t.Errorf("Expected explicit null next cursor, got %s", rec.Body.String())
	}
}

func TestSearchTopic(t *testing.T) {
	r, searcher := setupTestServer(t)

	rec := get(t, r, "/api/search/ai-act?offset=11")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if searcher.topic != "AI Act" {
		t.Errorf("Expected search by display name 'AI Act', got '%s'", searcher.topic)
	}
	if searcher.offset != 11 {
		t.Errorf("Expected offset 11, got %d", searcher.offset)
	}

	var page search.Page
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if !page.HasMore || len(page.Results) != 1 {
		t.Errorf("Unexpected page: %+v", page)
	}

	get(t, r, "/api/search/unknown-topic?offset=oops")
	if searcher.topic != "unknown-topic" {
		t.Errorf("Expected raw slug for unknown topic, got '%s'", searcher.topic)
	}
	if searcher.offset != 1 {
		t.Errorf("Expected default offset 1, got %d", searcher.offset)
	}
}

func TestGetRSS(t *testing.T) {
	r, _ := setupTestServer(t)

	rec := get(t, r, "/feeds/dma")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/xml") {
		t.Errorf("Expected XML content type, got '%s'", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("X-Feed-Items") != "30" {
		t.Errorf("Expected 30 feed items, got '%s'", rec.Header().Get("X-Feed-Items"))
	}
	if !strings.Contains(rec.Body.String(), "<title>DMA on LinkedIn</title>") {
		t.Error("Expected channel title for DMA")
	}
}

func TestHealthRootAndCORS(t *testing.T) {
	r, _ := setupTestServer(t)

	if rec := get(t, r, "/health"); rec.Code != http.StatusOK {
		t.Errorf("Expected health status 200, got %d", rec.Code)
	}
	if rec := get(t, r, "/"); !strings.Contains(rec.Body.String(), "/api/subjects") {
		t.Error("Expected root endpoint to list API routes")
	}
	if rec := get(t, r, "/metrics"); rec.Code != http.StatusOK {
		t.Errorf("Expected metrics status 200, got %d", rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/subjects", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected preflight status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func intPtr(v int) *int {
	return &v
}
