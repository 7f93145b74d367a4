package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
	"github.com/titouancv/linkedin-scrapper/app/cfg"
	"github.com/titouancv/linkedin-scrapper/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	catalog            *catalog.Catalog
	scorer             *catalog.Scorer
	source             feed.Source
	popularitySchedule string
	warmSchedule       string
	workerCount        int
	cron               *cron.Cron
	ctx                context.Context
	cancel             context.CancelFunc
	wg                 sync.WaitGroup
	taskQueue          chan TaskInterface
}

// NewScheduler wires the background jobs. A nil scorer disables popularity
// refreshes; a nil source disables feed warming.
func NewScheduler(topics *catalog.Catalog, scorer *catalog.Scorer, source feed.Source) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		catalog:            topics,
		scorer:             scorer,
		source:             source,
		popularitySchedule: cfg.PopularitySchedule,
		warmSchedule:       cfg.WarmSchedule,
		workerCount:        cfg.WorkerCount,
		cron:               cron.New(cron.WithLocation(time.Local)),
		ctx:                ctx,
		cancel:             cancel,
		taskQueue:          make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() error {
	if s.scorer != nil && s.popularitySchedule != "" {
		if _, err := s.cron.AddFunc(s.popularitySchedule, s.enqueuePopularityRefresh); err != nil {
			return fmt.Errorf("invalid popularity schedule %q: %w", s.popularitySchedule, err)
		}
	}
	if s.source != nil && s.warmSchedule != "" {
		if _, err := s.cron.AddFunc(s.warmSchedule, s.enqueueFeedWarming); err != nil {
			return fmt.Errorf("invalid warm schedule %q: %w", s.warmSchedule, err)
		}
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.enqueueStartupTasks()
	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	if s.scorer == nil {
		slog.Debug("Popularity scoring disabled, skipping startup refresh")
		return
	}
	s.enqueuePopularityRefresh()
}

func (s *Scheduler) enqueuePopularityRefresh() {
	if err := s.EnqueueTask(NewRefreshPopularityTask(s.catalog, s.scorer)); err != nil {
		slog.Warn("Failed to enqueue RefreshPopularityTask", "error", err)
	}
}

func (s *Scheduler) enqueueFeedWarming() {
	topics := s.catalog.List()
	slog.Debug("Warming topic feeds", "count", len(topics))

	for _, topic := range topics {
		if err := s.EnqueueTask(NewWarmFeedTask(topic, s.source)); err != nil {
			slog.Warn("Failed to enqueue WarmFeedTask", "topic", topic.Slug, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "topic", task.GetTopic(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	go func() {
		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		}
		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
		}
	}()
}

// retryDelay doubles from one second per attempt, capped at 30 seconds.
func retryDelay(attempt int) time.Duration {
	delay := time.Duration(1<<uint(max(attempt-1, 0))) * time.Second
	return min(delay, 30*time.Second)
}
