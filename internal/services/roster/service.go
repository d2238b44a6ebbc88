package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mcoot/pelada/internal/dependencies/clock"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
	"github.com/mcoot/pelada/internal/validation"
)

// Publisher receives every roster change after it has been stored
type Publisher interface {
	Publish(event model.RosterEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.RosterEvent) {}

// NewAthlete holds the fields for creating a roster entry
type NewAthlete struct {
	Name        string              `json:"name" validate:"required,max=80"`
	Position    model.Position      `json:"position" validate:"required,position"`
	Status      model.AthleteStatus `json:"status" validate:"omitempty,status"`
	PhotoURL    string              `json:"photo_url" validate:"omitempty,url,max=500"`
	Goals       int                 `json:"goals" validate:"gte=0"`
	Assists     int                 `json:"assists" validate:"gte=0"`
	GamesPlayed int                 `json:"games_played" validate:"gte=0"`
}

// AthleteUpdate is a partial update; nil fields are left unchanged
type AthleteUpdate struct {
	Name        *string
	Position    *model.Position
	Status      *model.AthleteStatus
	PhotoURL    *string
	Goals       *int
	Assists     *int
	GamesPlayed *int
}

// Filter narrows ListAthletes
type Filter struct {
	// Status keeps only athletes with this status when set
	Status model.AthleteStatus
	// Search is a case-insensitive substring match on the name
	Search string
}

// Service manages the roster
type Service struct {
	storage   storage.Storage
	clock     clock.Clock
	publisher Publisher
	validate  *validator.Validate
	logger    *slog.Logger

	// Serialises read-modify-write sequences such as presence upserts
	mu sync.Mutex
}

// New creates a new roster Service. publisher may be nil.
func New(storage storage.Storage, clock clock.Clock, publisher Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Service{
		storage:   storage,
		clock:     clock,
		publisher: publisher,
		validate:  validation.New(),
		logger:    logger,
	}
}

// AddAthlete validates and stores a new roster entry
func (s *Service) AddAthlete(ctx context.Context, in NewAthlete) (*model.Athlete, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidAthlete, validation.Describe(err))
	}

	position, err := model.ParsePosition(string(in.Position))
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = model.StatusActive
	}

	now := s.clock.Now()
	athlete := &model.Athlete{
		ID:          model.AthleteID(uuid.NewString()),
		Name:        in.Name,
		Position:    position,
		Status:      status,
		PhotoURL:    in.PhotoURL,
		Goals:       in.Goals,
		Assists:     in.Assists,
		GamesPlayed: in.GamesPlayed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveAthlete(ctx, athlete); err != nil {
		s.logger.Error("failed to save athlete",
			slog.String("athlete_id", string(athlete.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("athlete added",
		slog.String("athlete_id", string(athlete.ID)),
		slog.String("position", string(athlete.Position)),
	)
	s.publish(model.EventAthleteAdded, athlete)
	return athlete, nil
}

// Join registers an athlete from the public sign-up form
func (s *Service) Join(ctx context.Context, name string, position model.Position) (*model.Athlete, error) {
	return s.AddAthlete(ctx, NewAthlete{
		Name:     name,
		Position: position,
		Status:   model.StatusActive,
	})
}

// UpdateAthlete applies a partial update to an existing entry
func (s *Service) UpdateAthlete(ctx context.Context, id model.AthleteID, upd AthleteUpdate) (*model.Athlete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	athlete, err := s.storage.GetAthlete(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(athlete, upd); err != nil {
		return nil, err
	}
	athlete.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveAthlete(ctx, athlete); err != nil {
		return nil, err
	}

	s.logger.Info("athlete updated", slog.String("athlete_id", string(athlete.ID)))
	s.publish(model.EventAthleteUpdated, athlete)
	return athlete, nil
}

func (s *Service) applyUpdate(athlete *model.Athlete, upd AthleteUpdate) error {
	invalid := func(msg string) error {
		return fmt.Errorf("%w: %s", model.ErrInvalidAthlete, msg)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return invalid("name is required")
		}
		if err := s.validate.Var(name, "max=80"); err != nil {
			return invalid("name must be at most 80 characters")
		}
		athlete.Name = name
	}
	if upd.Position != nil {
		position, err := model.ParsePosition(string(*upd.Position))
		if err != nil {
			return err
		}
		athlete.Position = position
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return invalid("status must be active or inactive")
		}
		athlete.Status = *upd.Status
	}
	if upd.PhotoURL != nil {
		if *upd.PhotoURL != "" {
			if err := s.validate.Var(*upd.PhotoURL, "url,max=500"); err != nil {
				return invalid("photo_url is not a valid url")
			}
		}
		athlete.PhotoURL = *upd.PhotoURL
	}
	for _, stat := range []struct {
		name  string
		value *int
		dest  *int
	}{
		{"goals", upd.Goals, &athlete.Goals},
		{"assists", upd.Assists, &athlete.Assists},
		{"games_played", upd.GamesPlayed, &athlete.GamesPlayed},
	} {
		if stat.value == nil {
			continue
		}
		if *stat.value < 0 {
			return invalid(stat.name + " must be at least 0")
		}
		*stat.dest = *stat.value
	}
	return nil
}

// DeleteAthlete removes a roster entry
func (s *Service) DeleteAthlete(ctx context.Context, id model.AthleteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	athlete, err := s.storage.GetAthlete(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteAthlete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("athlete removed", slog.String("athlete_id", string(id)))
	s.publish(model.EventAthleteRemoved, athlete)
	return nil
}

// GetAthlete returns a single roster entry
func (s *Service) GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error) {
	return s.storage.GetAthlete(ctx, id)
}

// ListAthletes returns the roster ordered by name
func (s *Service) ListAthletes(ctx context.Context, filter Filter) ([]*model.Athlete, error) {
	athletes, err := s.storage.ListAthletes(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	if filter.Status == "" && search == "" {
		return athletes, nil
	}

	filtered := make([]*model.Athlete, 0, len(athletes))
	for _, a := range athletes {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Name), search) {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered, nil
}

// ActiveAthletes returns every athlete eligible for team generation
func (s *Service) ActiveAthletes(ctx context.Context) ([]*model.Athlete, error) {
	return s.ListAthletes(ctx, Filter{Status: model.StatusActive})
}

// Stats summarises the whole roster
func (s *Service) Stats(ctx context.Context) (model.RosterStats, error) {
	athletes, err := s.storage.ListAthletes(ctx)
	if err != nil {
		return model.RosterStats{}, err
	}

	var stats model.RosterStats
	for _, a := range athletes {
		stats.Total++
		if a.IsActive() {
			stats.Active++
		}
		if a.Position == model.PositionGoalkeeper {
			stats.Goalkeepers++
		} else {
			stats.Others++
		}
	}
	return stats, nil
}

// ConfirmPresence puts the profile's owner on the roster as active.
// An existing linked entry is refreshed rather than duplicated.
func (s *Service) ConfirmPresence(ctx context.Context, profile *model.UserProfile) (*model.Athlete, error) {
	if profile == nil || profile.UserID == "" {
		return nil, fmt.Errorf("%w: profile is required", model.ErrInvalidProfile)
	}
	if strings.TrimSpace(profile.Name) == "" || !profile.Position.Valid() {
		return nil, fmt.Errorf("%w: name and position must be set before confirming", model.ErrInvalidProfile)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	eventType := model.EventAthleteUpdated

	athlete, err := s.storage.GetAthleteByUser(ctx, profile.UserID)
	if errors.Is(err, model.ErrAthleteNotFound) {
		eventType = model.EventAthleteAdded
		athlete = &model.Athlete{
			ID:        model.AthleteID(uuid.NewString()),
			UserID:    profile.UserID,
			CreatedAt: now,
		}
	} else if err != nil {
		return nil, err
	}

	athlete.Name = profile.Name
	athlete.Position = profile.Position
	athlete.PhotoURL = profile.PhotoURL
	athlete.Status = model.StatusActive
	athlete.ConfirmedAt = &now
	athlete.UpdatedAt = now

	if err := s.storage.SaveAthlete(ctx, athlete); err != nil {
		return nil, err
	}

	s.logger.Info("presence confirmed",
		slog.String("user_id", string(profile.UserID)),
		slog.String("athlete_id", string(athlete.ID)),
	)
	s.publish(eventType, athlete)
	return athlete, nil
}

// RemovePresence takes the user's linked entry off the roster.
// Returns nil if the user has no entry.
func (s *Service) RemovePresence(ctx context.Context, userID model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	athlete, err := s.storage.GetAthleteByUser(ctx, userID)
	if errors.Is(err, model.ErrAthleteNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.storage.DeleteAthlete(ctx, athlete.ID); err != nil {
		return err
	}

	s.logger.Info("presence removed",
		slog.String("user_id", string(userID)),
		slog.String("athlete_id", string(athlete.ID)),
	)
	s.publish(model.EventAthleteRemoved, athlete)
	return nil
}

// IsConfirmed reports whether the user has a linked roster entry
func (s *Service) IsConfirmed(ctx context.Context, userID model.UserID) (bool, error) {
	_, err := s.storage.GetAthleteByUser(ctx, userID)
	if errors.Is(err, model.ErrAthleteNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LinkedAthlete returns the entry linked to a user
func (s *Service) LinkedAthlete(ctx context.Context, userID model.UserID) (*model.Athlete, error) {
	return s.storage.GetAthleteByUser(ctx, userID)
}

// SyncProfile copies profile fields onto the linked entry, if there is one
func (s *Service) SyncProfile(ctx context.Context, profile *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	athlete, err := s.storage.GetAthleteByUser(ctx, profile.UserID)
	if errors.Is(err, model.ErrAthleteNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	athlete.Name = profile.Name
	athlete.Position = profile.Position
	athlete.PhotoURL = profile.PhotoURL
	athlete.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveAthlete(ctx, athlete); err != nil {
		return err
	}

	s.publish(model.EventAthleteUpdated, athlete)
	return nil
}

func (s *Service) publish(eventType model.RosterEventType, athlete *model.Athlete) {
	s.publisher.Publish(model.RosterEvent{
		Type:      eventType,
		Athlete:   *athlete,
		Timestamp: s.clock.Now(),
	})
}
