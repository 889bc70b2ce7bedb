package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"weather-gateway/internal/audit"
)

// Scheduler periodically logs a summary of audit-log outcomes, giving
// operators a running success/failure pulse without querying the database.
type Scheduler struct {
	scheduler *gocron.Scheduler
	audit     audit.Log
	interval  time.Duration
	log       *logrus.Logger
}

// New creates a new Scheduler.
func New(auditLog audit.Log, interval time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		audit:     auditLog,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the summary job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		summary, err := s.audit.Summarize(ctx)
		if err != nil {
			s.log.WithError(err).Warn("audit summary failed")
			return
		}

		s.log.WithFields(logrus.Fields{
			"total":   summary.Total,
			"success": summary.Success,
			"failure": summary.Failure,
		}).Info("audit summary")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
