// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

// Suite runs the shared storage contract against a backend.
// Backends embed it and set Storage in their SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) athlete(id, name string) *model.Athlete {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Athlete{
		ID:        model.AthleteID(id),
		Name:      name,
		Position:  model.PositionDefender,
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Suite) ctx() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

// Athlete tests

func (s *Suite) TestSaveAndGetAthlete() {
	a := s.athlete("a-1", "Alice")
	a.Goals = 3
	a.PhotoURL = "https://example.com/a.png"

	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), a))

	got, err := s.Storage.GetAthlete(s.ctx(), "a-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.Name)
	s.Equal(model.PositionDefender, got.Position)
	s.Equal(model.StatusActive, got.Status)
	s.Equal(3, got.Goals)
	s.Equal(a.PhotoURL, got.PhotoURL)
	s.True(a.CreatedAt.Equal(got.CreatedAt))
}

func (s *Suite) TestGetAthleteNotFound() {
	_, err := s.Storage.GetAthlete(s.ctx(), "missing")
	s.ErrorIs(err, model.ErrAthleteNotFound)
}

func (s *Suite) TestSaveAthleteOverwrites() {
	a := s.athlete("a-1", "Alice")
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), a))

	a.Status = model.StatusInactive
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), a))

	got, err := s.Storage.GetAthlete(s.ctx(), "a-1")
	s.Require().NoError(err)
	s.Equal(model.StatusInactive, got.Status)
}

func (s *Suite) TestReturnedAthleteIsACopy() {
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), s.athlete("a-1", "Alice")))

	got, err := s.Storage.GetAthlete(s.ctx(), "a-1")
	s.Require().NoError(err)
	got.Name = "Mallory"

	again, err := s.Storage.GetAthlete(s.ctx(), "a-1")
	s.Require().NoError(err)
	s.Equal("Alice", again.Name)
}

func (s *Suite) TestDeleteAthlete() {
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), s.athlete("a-1", "Alice")))

	s.Require().NoError(s.Storage.DeleteAthlete(s.ctx(), "a-1"))

	_, err := s.Storage.GetAthlete(s.ctx(), "a-1")
	s.ErrorIs(err, model.ErrAthleteNotFound)

	// Deleting again is not an error
	s.NoError(s.Storage.DeleteAthlete(s.ctx(), "a-1"))
}

func (s *Suite) TestGetAthleteByUser() {
	a := s.athlete("a-1", "Alice")
	a.UserID = "user-1"
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), a))

	got, err := s.Storage.GetAthleteByUser(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal(model.AthleteID("a-1"), got.ID)

	_, err = s.Storage.GetAthleteByUser(s.ctx(), "user-2")
	s.ErrorIs(err, model.ErrAthleteNotFound)
}

func (s *Suite) TestDeleteAthleteRemovesUserLink() {
	a := s.athlete("a-1", "Alice")
	a.UserID = "user-1"
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), a))
	s.Require().NoError(s.Storage.DeleteAthlete(s.ctx(), "a-1"))

	_, err := s.Storage.GetAthleteByUser(s.ctx(), "user-1")
	s.ErrorIs(err, model.ErrAthleteNotFound)
}

func (s *Suite) TestListAthletesOrderedByName() {
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), s.athlete("a-3", "carla")))
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), s.athlete("a-1", "Bruno")))
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), s.athlete("a-2", "Ana")))

	athletes, err := s.Storage.ListAthletes(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(athletes, 3)
	s.Equal("Ana", athletes[0].Name)
	s.Equal("Bruno", athletes[1].Name)
	s.Equal("carla", athletes[2].Name)
}

func (s *Suite) TestListAthletesEmpty() {
	athletes, err := s.Storage.ListAthletes(s.ctx())
	s.Require().NoError(err)
	s.Empty(athletes)
}

func (s *Suite) TestListAthletesAfterRename() {
	a := s.athlete("a-1", "Zeca")
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), a))
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), s.athlete("a-2", "Marcos")))

	a.Name = "Abel"
	s.Require().NoError(s.Storage.SaveAthlete(s.ctx(), a))

	athletes, err := s.Storage.ListAthletes(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(athletes, 2)
	s.Equal("Abel", athletes[0].Name)
}

// Profile tests

func (s *Suite) TestSaveAndGetProfile() {
	p := &model.UserProfile{
		UserID:   "user-1",
		Name:     "Alice",
		Position: model.PositionForward,
		Email:    "alice@example.com",
	}
	s.Require().NoError(s.Storage.SaveProfile(s.ctx(), p))

	got, err := s.Storage.GetProfile(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.Name)
	s.Equal(model.PositionForward, got.Position)
	s.Equal("alice@example.com", got.Email)
}

func (s *Suite) TestGetProfileNotFound() {
	_, err := s.Storage.GetProfile(s.ctx(), "missing")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

// Account tests

func (s *Suite) TestSaveAndGetAccount() {
	acc := &model.Account{
		UserID:       "user-1",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	s.Require().NoError(s.Storage.SaveAccount(s.ctx(), acc))

	got, err := s.Storage.GetAccount(s.ctx(), "user-1")
	s.Require().NoError(err)
	s.Equal("hash", got.PasswordHash)

	byEmail, err := s.Storage.GetAccountByEmail(s.ctx(), "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), byEmail.UserID)
}

func (s *Suite) TestGetAccountNotFound() {
	_, err := s.Storage.GetAccount(s.ctx(), "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.Storage.GetAccountByEmail(s.ctx(), "nobody@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestSaveAccountRejectsTakenEmail() {
	first := &model.Account{UserID: "user-1", Email: "alice@example.com", PasswordHash: "one", CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.Storage.SaveAccount(s.ctx(), first))

	second := &model.Account{UserID: "user-2", Email: "alice@example.com", PasswordHash: "two", CreatedAt: time.Now().UTC()}
	s.ErrorIs(s.Storage.SaveAccount(s.ctx(), second), model.ErrEmailExists)

	owner, err := s.Storage.GetAccountByEmail(s.ctx(), "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), owner.UserID)
	s.Equal("one", owner.PasswordHash)

	_, err = s.Storage.GetAccount(s.ctx(), "user-2")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestSaveAccountUpdatesOwnRecord() {
	acc := &model.Account{UserID: "user-1", Email: "alice@example.com", PasswordHash: "one", CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.Storage.SaveAccount(s.ctx(), acc))

	acc.PasswordHash = "two"
	s.Require().NoError(s.Storage.SaveAccount(s.ctx(), acc))

	got, err := s.Storage.GetAccountByEmail(s.ctx(), "alice@example.com")
	s.Require().NoError(err)
	s.Equal("two", got.PasswordHash)
}
