package feed

import (
	"context"
	"log/slog"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
)

const (
	DefaultLimit = 15
	MaxLimit     = 30
)

// Source supplies the ordered posts of a topic. It may return more than
// need posts, or fewer when it has no more.
type Source interface {
	Posts(ctx context.Context, topic catalog.Topic, need int) ([]Post, error)
}

// Assembler cuts topic feeds into cursor-paginated pages.
type Assembler struct {
	catalog *catalog.Catalog
	source  Source
}

func NewAssembler(catalog *catalog.Catalog, source Source) *Assembler {
	return &Assembler{
		catalog: catalog,
		source:  source,
	}
}

// ClampLimit brings limit into 1..MaxLimit.
func ClampLimit(limit int) int {
	return max(1, min(MaxLimit, limit))
}

// Run returns the posts at [cursor, cursor+limit) of the topic feed. Unknown
// topics are served under their raw slug; source failures yield an empty page.
func (a *Assembler) Run(ctx context.Context, slug string, cursor, limit int) Page {
	cursor = max(0, cursor)
	limit = ClampLimit(limit)

	if slug == "" {
		return Page{Items: []Post{}}
	}

	topic := a.catalog.Resolve(slug)

	// One extra post tells whether another page exists.
	all, err := a.source.Posts(ctx, topic, cursor+limit+1)
	if err != nil {
		slog.Error("Failed to load feed posts", "topic", slug, "error", err)
		return Page{Items: []Post{}}
	}

	start := min(cursor, len(all))
	end := min(cursor+limit, len(all))
	items := make([]Post, end-start)
	copy(items, all[start:end])

	page := Page{Items: items}
	if next := cursor + len(items); next < len(all) {
		page.NextCursor = &next
	}
	return page
}
