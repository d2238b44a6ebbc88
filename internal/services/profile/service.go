package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/pelada/internal/dependencies/clock"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
	"github.com/mcoot/pelada/internal/validation"
)

// LinkedRoster is the part of the roster service that mirrors profile changes
type LinkedRoster interface {
	SyncProfile(ctx context.Context, profile *model.UserProfile) error
}

// Update holds the user-editable profile fields
type Update struct {
	Name     string         `json:"name" validate:"required,max=80"`
	Position model.Position `json:"position" validate:"required,position"`
	PhotoURL string         `json:"photo_url" validate:"omitempty,url,max=500"`
}

// Service manages user profiles
type Service struct {
	storage  storage.Storage
	roster   LinkedRoster
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a new profile Service. roster may be nil.
func New(storage storage.Storage, roster LinkedRoster, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		roster:   roster,
		clock:    clock,
		validate: validation.New(),
		logger:   logger,
	}
}

// GetProfile returns the profile for a user
func (s *Service) GetProfile(ctx context.Context, userID model.UserID) (*model.UserProfile, error) {
	return s.storage.GetProfile(ctx, userID)
}

// SaveProfile validates and stores the profile, then refreshes the linked roster entry
func (s *Service) SaveProfile(ctx context.Context, userID model.UserID, email string, upd Update) (*model.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", model.ErrInvalidProfile)
	}

	upd.Name = strings.TrimSpace(upd.Name)
	if err := s.validate.Struct(upd); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidProfile, validation.Describe(err))
	}
	position, err := model.ParsePosition(string(upd.Position))
	if err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		UserID:    userID,
		Name:      upd.Name,
		Position:  position,
		PhotoURL:  upd.PhotoURL,
		Email:     email,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile saved", slog.String("user_id", string(userID)))

	if s.roster != nil {
		if err := s.roster.SyncProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to sync roster entry: %w", err)
		}
	}
	return profile, nil
}
