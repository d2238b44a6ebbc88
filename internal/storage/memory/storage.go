package memory

import (
	"context"
	"sync"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	athletes   map[model.AthleteID]*model.Athlete
	userIndex  map[model.UserID]model.AthleteID
	profiles   map[model.UserID]*model.UserProfile
	accounts   map[model.UserID]*model.Account
	emailIndex map[string]model.UserID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		athletes:   make(map[model.AthleteID]*model.Athlete),
		userIndex:  make(map[model.UserID]model.AthleteID),
		profiles:   make(map[model.UserID]*model.UserProfile),
		accounts:   make(map[model.UserID]*model.Account),
		emailIndex: make(map[string]model.UserID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Athlete operations

func (s *Storage) SaveAthlete(ctx context.Context, athlete *model.Athlete) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop a stale user link if the entry was re-linked
	if prev, ok := s.athletes[athlete.ID]; ok && prev.UserID != "" && prev.UserID != athlete.UserID {
		delete(s.userIndex, prev.UserID)
	}

	a := *athlete
	s.athletes[athlete.ID] = &a
	if athlete.UserID != "" {
		s.userIndex[athlete.UserID] = athlete.ID
	}
	return nil
}

func (s *Storage) GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	athlete, ok := s.athletes[id]
	if !ok {
		return nil, model.ErrAthleteNotFound
	}
	a := *athlete
	return &a, nil
}

func (s *Storage) GetAthleteByUser(ctx context.Context, userID model.UserID) (*model.Athlete, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userIndex[userID]
	if !ok {
		return nil, model.ErrAthleteNotFound
	}
	athlete, ok := s.athletes[id]
	if !ok {
		return nil, model.ErrAthleteNotFound
	}
	a := *athlete
	return &a, nil
}

func (s *Storage) DeleteAthlete(ctx context.Context, id model.AthleteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if athlete, ok := s.athletes[id]; ok && athlete.UserID != "" {
		delete(s.userIndex, athlete.UserID)
	}
	delete(s.athletes, id)
	return nil
}

func (s *Storage) ListAthletes(ctx context.Context) ([]*model.Athlete, error) {
	s.mu.RLock()
	athletes := make([]*model.Athlete, 0, len(s.athletes))
	for _, athlete := range s.athletes {
		a := *athlete
		athletes = append(athletes, &a)
	}
	s.mu.RUnlock()

	storage.SortAthletes(athletes)
	return athletes, nil
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *profile
	s.profiles[profile.UserID] = &p
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	p := *profile
	return &p, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.emailIndex[account.Email]; ok && owner != account.UserID {
		return model.ErrEmailExists
	}
	if prev, ok := s.accounts[account.UserID]; ok && prev.Email != account.Email {
		delete(s.emailIndex, prev.Email)
	}
	a := *account
	s.accounts[account.UserID] = &a
	s.emailIndex[account.Email] = account.UserID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}
