package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
)

type RefreshPopularityTask struct {
	Task
	catalog *catalog.Catalog
	scorer  *catalog.Scorer
}

func NewRefreshPopularityTask(topics *catalog.Catalog, scorer *catalog.Scorer) *RefreshPopularityTask {
	return &RefreshPopularityTask{
		Task:    NewTask(TaskTypeRefreshPopularity, ""),
		catalog: topics,
		scorer:  scorer,
	}
}

func (t *RefreshPopularityTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	scores, err := t.scorer.Refresh(ctx, t.catalog.Names())
	if err != nil {
		return fmt.Errorf("failed to refresh popularity: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"topics", len(scores))

	return nil
}
