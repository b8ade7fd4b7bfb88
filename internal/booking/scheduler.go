package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the rental lifecycle: confirmed bookings whose start date
// has arrived become active, and active bookings past their end date are
// completed. It runs once on start and then daily.
type Scheduler struct {
	cron    *cron.Cron
	service Service
	logger  *slog.Logger
}

func NewScheduler(service Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@daily", s.sweep); err != nil {
		return err
	}

	// Catch up immediately so a restart does not leave stale statuses until
	// the next midnight.
	go s.sweep()

	s.cron.Start()
	return nil
}

// Stop halts the schedule and returns a context that is done once any
// in-flight sweep has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	activated, err := s.service.ActivateDue(ctx)
	if err != nil {
		s.logger.Error("activating due bookings failed", "error", err)
	} else if activated > 0 {
		s.logger.Info("activated due bookings", "count", activated)
	}

	completed, err := s.service.CompleteOverdue(ctx)
	if err != nil {
		s.logger.Error("completing overdue bookings failed", "error", err)
	} else if completed > 0 {
		s.logger.Info("completed overdue bookings", "count", completed)
	}
}
