package tasks

// TaskSchedulerInterface is what the application needs from the background
// scheduler: start the workers and cron jobs, stop them, and queue ad-hoc work.
//
//	scheduler := NewScheduler(topics, scorer, source)
//	if err := scheduler.Start(); err != nil { ... }
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start() error
	Stop()
	EnqueueTask(task TaskInterface) error
}
