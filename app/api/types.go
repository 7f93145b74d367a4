package api

import (
	"context"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/feed"
	"github.com/titouancv/linkedin-scrapper/app/search"
)

type FeedAssembler interface {
	Run(ctx context.Context, slug string, cursor, limit int) feed.Page
}

type TopicSearcher interface {
	Run(ctx context.Context, topic string, offset int) search.Page
}

type GeneratorInterface interface {
	Run(topic catalog.Topic, posts []feed.Post) (string, error)
}

var (
	_ FeedAssembler      = (*feed.Assembler)(nil)
	_ TopicSearcher      = (*search.Searcher)(nil)
	_ GeneratorInterface = (*feed.Generator)(nil)
)

type Handler struct {
	catalog   *catalog.Catalog
	scorer    *catalog.Scorer
	assembler FeedAssembler
	searcher  TopicSearcher
	generator GeneratorInterface
}
