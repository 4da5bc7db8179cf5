package jobqueue

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ScheduledJob is a named handler bound to a cron expression (with seconds
// field)
type ScheduledJob struct {
	Name     string
	Schedule string
	Handler  func(ctx context.Context) error
}

// JobScheduler runs registered jobs on their cron schedules. Each run gets
// its own bounded context; a failing run is logged and does not unschedule
// the job.
type JobScheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	jobs   map[string]cron.EntryID
}

// NewJobScheduler creates a new scheduler
func NewJobScheduler(logger *zap.Logger) *JobScheduler {
	return &JobScheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// AddJob registers a job; the schedule must be a six-field cron expression
func (js *JobScheduler) AddJob(job ScheduledJob) error {
	entryID, err := js.cron.AddFunc(job.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		js.logger.Info("Executing scheduled job", zap.String("job", job.Name))
		if err := job.Handler(ctx); err != nil {
			js.logger.Error("Scheduled job failed", zap.String("job", job.Name), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	js.jobs[job.Name] = entryID
	return nil
}

// RemoveJob unschedules a job by name
func (js *JobScheduler) RemoveJob(name string) {
	if entryID, exists := js.jobs[name]; exists {
		js.cron.Remove(entryID)
		delete(js.jobs, name)
	}
}

// Start begins running scheduled jobs
func (js *JobScheduler) Start() {
	js.cron.Start()
	js.logger.Info("Job scheduler started")
}

// Stop waits for any in-flight run to finish
func (js *JobScheduler) Stop() {
	ctx := js.cron.Stop()
	<-ctx.Done()
	js.logger.Info("Job scheduler stopped")
}
