package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/search"
)

type Searcher interface {
	Run(ctx context.Context, topic string, offset int) search.Page
}

type searchEntry struct {
	posts      []Post
	seen       map[string]bool
	nextOffset int
	exhausted  bool
}

// SearchSource builds topic feeds from live search results, loading further
// result pages only as deep as requests reach.
type SearchSource struct {
	searcher Searcher
	filterer *Filterer
	cache    *postCache[*searchEntry]
}

func NewSearchSource(searcher Searcher, now func() time.Time, ttl time.Duration) *SearchSource {
	return &SearchSource{
		searcher: searcher,
		filterer: NewFilterer(),
		cache:    newPostCache[*searchEntry](now, ttl),
	}
}

// Posts returns at least need posts when the provider has them. A failed
// page stops the walk without advancing it, so the next request retries it.
// A cancelled ctx discards the page in flight and returns the ctx error.
func (s *SearchSource) Posts(ctx context.Context, topic catalog.Topic, need int) ([]Post, error) {
	unlock := s.cache.lock(topic.Slug)
	defer unlock()

	entry, ok := s.cache.get(topic.Slug)
	if !ok {
		entry = &searchEntry{seen: make(map[string]bool), nextOffset: 1}
	}

	var walkErr error
	for len(entry.posts) < need && !entry.exhausted {
		if walkErr = ctx.Err(); walkErr != nil {
			break
		}

		page := s.searcher.Run(ctx, topic.Name, entry.nextOffset)
		// Results enriched under a cancelled ctx carry defaults, not page data.
		if walkErr = ctx.Err(); walkErr != nil {
			break
		}
		if page.Failed {
			slog.Warn("Search page failed, will retry on next request", "topic", topic.Slug, "offset", entry.nextOffset)
			break
		}

		entry.nextOffset += search.PageSize
		entry.exhausted = !page.HasMore
		s.append(entry, topic, page.Results)
	}

	// An empty walk is usually an upstream failure; retry it on the next request.
	if len(entry.posts) > 0 {
		s.cache.set(topic.Slug, entry)
	} else {
		slog.Debug("No posts found for topic", "topic", topic.Slug)
	}

	if walkErr != nil {
		return nil, walkErr
	}

	posts := make([]Post, len(entry.posts))
	copy(posts, entry.posts)
	return posts, nil
}

func (s *SearchSource) append(entry *searchEntry, topic catalog.Topic, results []search.Result) {
	posts := make([]Post, 0, len(results))
	for _, result := range results {
		post := postFromResult(topic.Slug, result)
		if entry.seen[post.ID] {
			continue
		}
		entry.seen[post.ID] = true
		posts = append(posts, post)
	}
	entry.posts = append(entry.posts, s.filterer.Run(posts, topic.Filters)...)
}

func postFromResult(slug string, result search.Result) Post {
	return Post{
		ID:    generateID(result.Link),
		Topic: slug,
		URL:   result.Link,
		Author: Author{
			FullName:   result.AuthorName,
			AvatarURL:  result.AuthorAvatar,
			ProfileURL: result.AuthorProfileURL,
		},
		Text:         result.Content,
		RelativeDate: result.RelativeDate,
		ImageURL:     result.ImageURL,
		Metrics: Metrics{
			Likes:    result.Likes,
			Comments: result.Comments,
		},
	}
}

func generateID(link string) string {
	hash := sha256.Sum256([]byte(link))
	return hex.EncodeToString(hash[:])
}
