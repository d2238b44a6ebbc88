package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pelada/internal/dependencies/mocks"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/roster"
	"github.com/mcoot/pelada/internal/storage/memory"
	"github.com/mcoot/pelada/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	roster  *roster.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC))
	s.roster = roster.New(s.storage, s.clock, nil, testutil.NopLogger())
	s.service = New(s.storage, s.roster, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestGetProfileNotFound() {
	_, err := s.service.GetProfile(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestSaveProfileSucceeds() {
	profile, err := s.service.SaveProfile(s.ctx, "user-1", "kaka@example.com", Update{
		Name:     " Kaka ",
		Position: "Meio",
		PhotoURL: "https://example.com/kaka.png",
	})
	s.Require().NoError(err)

	s.Equal(model.UserID("user-1"), profile.UserID)
	s.Equal("Kaka", profile.Name)
	s.Equal(model.PositionMidfielder, profile.Position)
	s.Equal("kaka@example.com", profile.Email)
	s.Equal(s.clock.Now(), profile.UpdatedAt)

	stored, err := s.service.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(profile, stored)
}

func (s *ServiceSuite) TestSaveProfileValidation() {
	tests := []struct {
		name    string
		update  Update
		message string
	}{
		{"missing name", Update{Position: model.PositionDefender}, "name is required"},
		{"missing position", Update{Name: "Cafu"}, "position is required"},
		{"unknown position", Update{Name: "Cafu", Position: "wingback"}, "position must be one of"},
		{"bad photo", Update{Name: "Cafu", Position: model.PositionDefender, PhotoURL: "nope"}, "photo_url is not a valid url"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.SaveProfile(s.ctx, "user-1", "", tt.update)
			s.ErrorIs(err, model.ErrInvalidProfile)
			s.Contains(err.Error(), tt.message)
		})
	}
}

func (s *ServiceSuite) TestSaveProfileRequiresUser() {
	_, err := s.service.SaveProfile(s.ctx, "", "", Update{Name: "Cafu", Position: model.PositionDefender})
	s.ErrorIs(err, model.ErrInvalidProfile)
}

func (s *ServiceSuite) TestSaveProfileRefreshesLinkedAthlete() {
	profile, err := s.service.SaveProfile(s.ctx, "user-1", "", Update{Name: "Kaka", Position: model.PositionMidfielder})
	s.Require().NoError(err)
	athlete, err := s.roster.ConfirmPresence(s.ctx, profile)
	s.Require().NoError(err)

	_, err = s.service.SaveProfile(s.ctx, "user-1", "", Update{Name: "Ricardo Kaka", Position: model.PositionForward})
	s.Require().NoError(err)

	stored, err := s.storage.GetAthlete(s.ctx, athlete.ID)
	s.Require().NoError(err)
	s.Equal("Ricardo Kaka", stored.Name)
	s.Equal(model.PositionForward, stored.Position)
}

func (s *ServiceSuite) TestSaveProfileWithoutLinkedAthlete() {
	_, err := s.service.SaveProfile(s.ctx, "user-1", "", Update{Name: "Kaka", Position: model.PositionMidfielder})
	s.Require().NoError(err)

	athletes, err := s.storage.ListAthletes(s.ctx)
	s.Require().NoError(err)
	s.Empty(athletes)
}

type failingRoster struct{}

func (failingRoster) SyncProfile(context.Context, *model.UserProfile) error {
	return errors.New("boom")
}

func (s *ServiceSuite) TestSaveProfileSurfacesSyncFailure() {
	service := New(s.storage, failingRoster{}, s.clock, testutil.NopLogger())
	_, err := service.SaveProfile(s.ctx, "user-1", "", Update{Name: "Kaka", Position: model.PositionMidfielder})
	s.ErrorContains(err, "failed to sync roster entry")
}

func (s *ServiceSuite) TestNilRosterIsAllowed() {
	service := New(s.storage, nil, s.clock, testutil.NopLogger())
	_, err := service.SaveProfile(s.ctx, "user-1", "", Update{Name: "Kaka", Position: model.PositionMidfielder})
	s.NoError(err)
}
