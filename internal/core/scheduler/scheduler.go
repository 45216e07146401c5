package scheduler

import (
	"context"

	"dhl-express-manager/internal/core/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named unit of scheduled work.
type Job struct {
	// Name identifies the job in logs.
	Name string
	// Spec is the cron expression, e.g. "0 */2 * * *".
	Spec string
	// Run executes the job. Errors are logged, never fatal.
	Run func(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a Scheduler with the given jobs registered.
func New(jobs []Job) (*Scheduler, error) {
	c := cron.New()
	l := logger.Get()

	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.Spec, func() {
			l.Info("Scheduled job starting", zap.String("job", job.Name))
			if err := job.Run(context.Background()); err != nil {
				l.Warn("Scheduled job failed",
					zap.String("job", job.Name),
					zap.Error(err),
				)
				return
			}
			l.Info("Scheduled job finished", zap.String("job", job.Name))
		})
		if err != nil {
			return nil, err
		}
	}

	return &Scheduler{cron: c}, nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
