package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/titouancv/linkedin-scrapper/app/metrics"
	"github.com/titouancv/linkedin-scrapper/app/parser"
)

const (
	PageSize = 10
	// ResultCeiling is the deepest position the provider will serve.
	ResultCeiling = 100
	// MoreResultsBefore is the offset from which no further page is offered.
	MoreResultsBefore = ResultCeiling - PageSize
	ContentLength     = 500
)

type Provider interface {
	Query(ctx context.Context, query string, start int) ([]Hit, error)
}

type PageFetcher interface {
	Run(ctx context.Context, url string) (string, bool)
}

type PostParser interface {
	Run(html string) parser.Extraction
}

// Searcher turns a topic into a page of recent posts, fetching and parsing
// every hit concurrently.
type Searcher struct {
	provider Provider
	fetcher  PageFetcher
	parser   PostParser
}

func NewSearcher(provider Provider, fetcher PageFetcher, parser PostParser) *Searcher {
	return &Searcher{
		provider: provider,
		fetcher:  fetcher,
		parser:   parser,
	}
}

func BuildQuery(topic string) string {
	return fmt.Sprintf(`site:linkedin.com/posts "%s"`, topic)
}

// Run returns the page starting at the 1-based offset. Provider failures
// yield an empty failed page; page failures yield results built from defaults.
func (s *Searcher) Run(ctx context.Context, topic string, offset int) Page {
	if offset < 1 {
		offset = 1
	}
	if offset+PageSize-1 > ResultCeiling {
		slog.Debug("Search offset beyond provider ceiling", "topic", topic, "offset", offset)
		return emptyPage()
	}

	hits, err := s.provider.Query(ctx, BuildQuery(topic), offset)
	if err != nil {
		slog.Error("Search query failed", "topic", topic, "offset", offset, "error", err)
		metrics.SearchQueries.WithLabelValues("failed").Inc()
		return failedPage()
	}
	metrics.SearchQueries.WithLabelValues("ok").Inc()

	results := make([]Result, len(hits))
	var wg sync.WaitGroup
	for i, hit := range hits {
		wg.Add(1)
		go func(i int, hit Hit) {
			defer wg.Done()
			results[i] = s.enrich(ctx, hit)
		}(i, hit)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		slog.Debug("Search page cancelled during enrichment", "topic", topic, "offset", offset, "error", err)
		return Page{Results: results, Failed: true}
	}

	return Page{
		Results: results,
		HasMore: offset < MoreResultsBefore && len(hits) == PageSize,
	}
}

func (s *Searcher) enrich(ctx context.Context, hit Hit) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recovered from panic while enriching search hit", "link", hit.Link, "panic", r)
			result = assemble(hit, parser.Post{AuthorName: parser.UnknownAuthor})
		}
	}()

	html := ""
	if hit.Link != "" {
		html, _ = s.fetcher.Run(ctx, hit.Link)
	}

	return assemble(hit, s.parser.Run(html).Post)
}

func assemble(hit Hit, post parser.Post) Result {
	content := post.Content
	if content == "" {
		content = hit.Snippet
	}

	return Result{
		Title:            hit.Title,
		Link:             hit.Link,
		Snippet:          hit.Snippet,
		AuthorName:       post.AuthorName,
		AuthorAvatar:     post.AuthorAvatar,
		AuthorProfileURL: post.AuthorProfileURL,
		Content:          parser.TruncateText(content, ContentLength),
		RelativeDate:     post.RelativeDate,
		ImageURL:         post.ImageURL,
		Likes:            post.Likes,
		Comments:         post.Comments,
	}
}
