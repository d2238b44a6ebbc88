package storage

import (
	"context"

	"github.com/mcoot/pelada/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Athlete operations
	SaveAthlete(ctx context.Context, athlete *model.Athlete) error
	GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error)
	// GetAthleteByUser returns the roster entry linked to a user profile
	GetAthleteByUser(ctx context.Context, userID model.UserID) (*model.Athlete, error)
	DeleteAthlete(ctx context.Context, id model.AthleteID) error
	// ListAthletes returns all athletes ordered by name, then ID
	ListAthletes(ctx context.Context) ([]*model.Athlete, error)

	// Profile operations
	SaveProfile(ctx context.Context, profile *model.UserProfile) error
	GetProfile(ctx context.Context, userID model.UserID) (*model.UserProfile, error)

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
}
