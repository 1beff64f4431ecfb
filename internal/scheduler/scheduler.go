// Package scheduler wires the pipeline's recurring jobs onto a UTC cron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-engine/internal/service"
)

const jobTimeout = 30 * time.Minute

// Scheduler manages the daily pipeline run, strength refresh and bet
// settlement jobs. All schedules are interpreted in UTC.
type Scheduler struct {
	cron       *cron.Cron
	pipeline   *service.Pipeline
	settlement *service.Settlement
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(pipeline *service.Pipeline, settlement *service.Settlement, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		pipeline:   pipeline,
		settlement: settlement,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
	}
}

// ScheduleDailyRun schedules the value bet pipeline at the given UTC hour.
func (s *Scheduler) ScheduleDailyRun(hour int) error {
	return s.addDailyJob("pipeline_run", hour, func(ctx context.Context) {
		report, err := s.pipeline.Run(ctx)
		if errors.Is(err, service.ErrRunInProgress) {
			s.logger.Warn("Skipping scheduled run, another run is in progress")
			return
		}
		if err != nil {
			s.logger.WithError(err).Error("Scheduled pipeline run failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"fixtures": report.FixturesSeen,
			"bets":     len(report.BetsFound),
			"errors":   len(report.Errors),
			"duration": report.Duration.String(),
		}).Info("Scheduled pipeline run completed")
	})
}

// ScheduleStrengthRefresh schedules the team strength refresh at the given
// UTC hour. Runs before the daily pipeline pass so predictions use fresh
// standings.
func (s *Scheduler) ScheduleStrengthRefresh(hour int) error {
	return s.addDailyJob("strength_refresh", hour, func(ctx context.Context) {
		if err := s.pipeline.RefreshStrengths(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled strength refresh failed")
			return
		}
		s.logger.Info("Scheduled strength refresh completed")
	})
}

// ScheduleSettlement schedules pending bet settlement at the given UTC hour.
func (s *Scheduler) ScheduleSettlement(hour int) error {
	return s.addDailyJob("settlement", hour, func(ctx context.Context) {
		settled, err := s.settlement.SettlePending(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled settlement failed")
			return
		}
		s.logger.WithField("settled", settled).Info("Scheduled settlement completed")
	})
}

func (s *Scheduler) addDailyJob(name string, hour int, job func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour %d for job %s", hour, name)
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.logger.WithField("job", name).Info("Starting scheduled job")
		job(ctx)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("0 %d * * *", hour), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"hour": hour,
	}).Info("Scheduled daily job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
