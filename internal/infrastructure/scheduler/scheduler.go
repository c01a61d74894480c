package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/config"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// Scheduler runs the automatic day-end job. At the configured cron time it
// finalizes the previous day for every profile so scores, penalties and
// streaks never depend on the user opening the app.
type Scheduler struct {
	cron        *cron.Cron
	dayService  *services.DayService
	profileRepo ports.ProfileRepository
	cfg         config.SchedulerConfig
	logger      *logger.Logger
}

// New creates a scheduler. The cron spec and timezone come from config.
func New(cfg config.SchedulerConfig, dayService *services.DayService, profileRepo ports.ProfileRepository, appLogger *logger.Logger) (*Scheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
		}
	}

	s := &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		dayService:  dayService,
		profileRepo: profileRepo,
		cfg:         cfg,
		logger:      appLogger,
	}

	if _, err := s.cron.AddFunc(cfg.DayEndCron, s.runDayEnd); err != nil {
		return nil, fmt.Errorf("invalid day-end cron spec %q: %w", cfg.DayEndCron, err)
	}

	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", "day_end_cron", s.cfg.DayEndCron)
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// runDayEnd finalizes yesterday for every profile. Already finalized days
// return their stored verdict, so re-runs are harmless.
func (s *Scheduler) runDayEnd() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	yesterday := entities.NewDate(now).AddDays(-1)

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		s.logger.Error("Day-end job failed to list profiles", "error", err)
		return
	}

	var finalized, failed int
	for _, p := range profiles {
		if _, err := s.dayService.FinalizeDay(ctx, p.ID, yesterday, now); err != nil {
			failed++
			s.logger.Warn("Day-end finalize failed", "user_id", p.ID, "date", yesterday, "error", err)
			continue
		}
		finalized++
	}

	s.logger.Info("Day-end job finished", "date", yesterday, "finalized", finalized, "failed", failed)
}
