package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/disciplineos/core/internal/domain/entities"
	"github.com/disciplineos/core/internal/infrastructure/logger"
	"github.com/disciplineos/core/internal/ports"
)

// ProfileService manages the owning identity for records, penalties and
// rewards. Authentication happens upstream; this only keeps the profile row.
type ProfileService struct {
	profileRepo ports.ProfileRepository
	logger      *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo ports.ProfileRepository, logger *logger.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// DefaultSettings returns the targets a fresh profile starts with.
func DefaultSettings() entities.UserSettings {
	return entities.UserSettings{
		DayEndTime:         "23:59",
		SleepTarget:        "22:30",
		DailyCalorieTarget: 2000,
		DailyWaterTarget:   8,
		DailyStepsTarget:   10000,
		ScreenTimeLimit:    120,
	}
}

// Register creates the profile for a caller identity. Registering an
// existing ID returns the stored profile unchanged.
func (s *ProfileService) Register(ctx context.Context, userID uuid.UUID, email, displayName string, now time.Time) (*entities.UserProfile, error) {
	existing, err := s.profileRepo.GetByID(ctx, userID)
	if err == nil {
		return existing, nil
	}

	profile := &entities.UserProfile{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		Settings:    DefaultSettings(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Profile created", "user_id", userID, "email", email)
	return profile, nil
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	return profile, nil
}

// UpdateSettings replaces the profile targets.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID uuid.UUID, settings entities.UserSettings, now time.Time) (*entities.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}

	profile.Settings = settings
	profile.UpdatedAt = now
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
