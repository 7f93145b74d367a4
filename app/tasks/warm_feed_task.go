package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/feed"
)

// WarmFeedTask loads the first page of a topic feed so the next reader is
// served from cache.
type WarmFeedTask struct {
	Task
	topic  catalog.Topic
	source feed.Source
}

func NewWarmFeedTask(topic catalog.Topic, source feed.Source) *WarmFeedTask {
	return &WarmFeedTask{
		Task:   NewTask(TaskTypeWarmFeed, topic.Slug),
		topic:  topic,
		source: source,
	}
}

func (t *WarmFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	posts, err := t.source.Posts(ctx, t.topic, feed.DefaultLimit+1)
	if err != nil {
		return fmt.Errorf("failed to warm feed: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"topic", t.Topic,
		"duration", t.GetDuration(),
		"posts", len(posts))

	return nil
}
