package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/analytics"
	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// AnalyticsService reads finalized records through the repository and feeds
// them to the pure reducers. Pending days never enter a report.
type AnalyticsService struct {
	recordRepo  ports.DailyRecordRepository
	profileRepo ports.ProfileRepository
	circleRepo  ports.CircleRepository
	logger      *logger.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(recordRepo ports.DailyRecordRepository, profileRepo ports.ProfileRepository, circleRepo ports.CircleRepository, logger *logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		recordRepo:  recordRepo,
		profileRepo: profileRepo,
		circleRepo:  circleRepo,
		logger:      logger,
	}
}

// WeeklyReport builds the rollup for the week starting at weekStart.
func (s *AnalyticsService) WeeklyReport(ctx context.Context, userID uuid.UUID, weekStart entities.Date) (*analytics.WeeklyReport, error) {
	records, err := s.finalizedRange(ctx, userID, weekStart, weekStart.AddDays(6))
	if err != nil {
		return nil, err
	}
	report := analytics.BuildWeeklyReport(records, weekStart)
	return &report, nil
}

// MonthlyReport builds the rollup for a calendar month, comparing against
// the previous month when records exist for it.
func (s *AnalyticsService) MonthlyReport(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*analytics.MonthlyReport, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.AddDate(0, 0, -1)

	records, err := s.finalizedRange(ctx, userID, entities.NewDate(monthStart), entities.NewDate(monthEnd))
	if err != nil {
		return nil, err
	}
	previous, err := s.finalizedRange(ctx, userID, entities.NewDate(prevStart), entities.NewDate(prevEnd))
	if err != nil {
		return nil, err
	}

	report := analytics.BuildMonthlyReport(records, monthStart.Format("January 2006"), previous)
	return &report, nil
}

// Heatmap maps every date in the window to a score and status.
func (s *AnalyticsService) Heatmap(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]analytics.HeatmapPoint, error) {
	records, err := s.finalizedRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return analytics.Heatmap(records, start, end), nil
}

// CompareWithPartner builds the couples side-by-side stats over a window.
func (s *AnalyticsService) CompareWithPartner(ctx context.Context, userID uuid.UUID, start, end entities.Date) (*analytics.Comparison, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if profile.CircleID == nil {
		return nil, entities.ErrNotInCircle
	}
	circle, err := s.circleRepo.GetByID(ctx, *profile.CircleID)
	if err != nil {
		return nil, fmt.Errorf("circle not found: %w", err)
	}
	partnerID, ok := circle.PartnerOf(userID)
	if !ok {
		return nil, entities.ErrNotInCircle
	}

	userRecords, err := s.finalizedRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	partnerRecords, err := s.finalizedRange(ctx, partnerID, start, end)
	if err != nil {
		return nil, err
	}

	comparison := analytics.ComparePartners(userRecords, partnerRecords)
	return &comparison, nil
}

func (s *AnalyticsService) finalizedRange(ctx context.Context, userID uuid.UUID, start, end entities.Date) ([]entities.DailyRecord, error) {
	records, err := s.recordRepo.Range(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load record range: %w", err)
	}
	var finalized []entities.DailyRecord
	for _, r := range records {
		if r.IsFinalized() {
			finalized = append(finalized, r)
		}
	}
	return finalized, nil
}
