package roster

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pelada/internal/dependencies/mocks"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage/memory"
	"github.com/mcoot/pelada/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	publisher *mocks.MockPublisher
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC))
	s.publisher = mocks.NewMockPublisher()
	s.service = New(s.storage, s.clock, s.publisher, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) add(name string, position model.Position) *model.Athlete {
	athlete, err := s.service.AddAthlete(s.ctx, NewAthlete{Name: name, Position: position})
	s.Require().NoError(err)
	return athlete
}

func (s *ServiceSuite) profile(userID, name string, position model.Position) *model.UserProfile {
	return &model.UserProfile{
		UserID:   model.UserID(userID),
		Name:     name,
		Position: position,
	}
}

func ptr[T any](v T) *T {
	return &v
}

// AddAthlete tests

func (s *ServiceSuite) TestAddAthleteSucceeds() {
	athlete, err := s.service.AddAthlete(s.ctx, NewAthlete{
		Name:     "  Ronaldo ",
		Position: model.PositionForward,
		Goals:    3,
	})
	s.Require().NoError(err)

	s.NotEmpty(athlete.ID)
	s.Equal("Ronaldo", athlete.Name)
	s.Equal(model.PositionForward, athlete.Position)
	s.Equal(model.StatusActive, athlete.Status)
	s.Equal(3, athlete.Goals)
	s.Equal(s.clock.Now(), athlete.CreatedAt)
	s.Empty(athlete.UserID)
}

func (s *ServiceSuite) TestAddAthleteIsPersisted() {
	athlete := s.add("Ronaldo", model.PositionForward)

	stored, err := s.storage.GetAthlete(s.ctx, athlete.ID)
	s.Require().NoError(err)
	s.Equal(athlete.Name, stored.Name)
}

func (s *ServiceSuite) TestAddAthleteAcceptsLegacyPosition() {
	athlete := s.add("Taffarel", "Goleiro")
	s.Equal(model.PositionGoalkeeper, athlete.Position)
}

func (s *ServiceSuite) TestAddAthleteKeepsExplicitStatus() {
	athlete, err := s.service.AddAthlete(s.ctx, NewAthlete{
		Name:     "Romario",
		Position: model.PositionForward,
		Status:   model.StatusInactive,
	})
	s.Require().NoError(err)
	s.Equal(model.StatusInactive, athlete.Status)
}

func (s *ServiceSuite) TestAddAthleteValidation() {
	tests := []struct {
		name    string
		input   NewAthlete
		message string
	}{
		{"missing name", NewAthlete{Name: "   ", Position: model.PositionForward}, "name is required"},
		{"missing position", NewAthlete{Name: "Ana"}, "position is required"},
		{"unknown position", NewAthlete{Name: "Ana", Position: "libero"}, "position must be one of"},
		{"unknown status", NewAthlete{Name: "Ana", Position: model.PositionDefender, Status: "injured"}, "status must be active or inactive"},
		{"negative goals", NewAthlete{Name: "Ana", Position: model.PositionDefender, Goals: -1}, "goals must be at least 0"},
		{"bad photo url", NewAthlete{Name: "Ana", Position: model.PositionDefender, PhotoURL: "not a url"}, "photo_url is not a valid url"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.AddAthlete(s.ctx, tt.input)
			s.ErrorIs(err, model.ErrInvalidAthlete)
			s.Contains(err.Error(), tt.message)
		})
	}
	s.Empty(s.publisher.Events())
}

func (s *ServiceSuite) TestAddAthletePublishesEvent() {
	athlete := s.add("Ronaldo", model.PositionForward)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(model.EventAthleteAdded, events[0].Type)
	s.Equal(athlete.ID, events[0].Athlete.ID)
	s.Equal(s.clock.Now(), events[0].Timestamp)
}

// Join tests

func (s *ServiceSuite) TestJoinCreatesActiveAthlete() {
	athlete, err := s.service.Join(s.ctx, "Cafu", "Zagueiro")
	s.Require().NoError(err)

	s.Equal("Cafu", athlete.Name)
	s.Equal(model.PositionDefender, athlete.Position)
	s.True(athlete.IsActive())
}

func (s *ServiceSuite) TestJoinRejectsEmptyName() {
	_, err := s.service.Join(s.ctx, "", model.PositionDefender)
	s.ErrorIs(err, model.ErrInvalidAthlete)
}

// UpdateAthlete tests

func (s *ServiceSuite) TestUpdateAthletePartial() {
	athlete := s.add("Ronaldo", model.PositionForward)
	s.clock.Advance(time.Hour)

	updated, err := s.service.UpdateAthlete(s.ctx, athlete.ID, AthleteUpdate{
		Status: ptr(model.StatusInactive),
		Goals:  ptr(10),
	})
	s.Require().NoError(err)

	s.Equal("Ronaldo", updated.Name)
	s.Equal(model.PositionForward, updated.Position)
	s.Equal(model.StatusInactive, updated.Status)
	s.Equal(10, updated.Goals)
	s.Equal(athlete.CreatedAt, updated.CreatedAt)
	s.Equal(s.clock.Now(), updated.UpdatedAt)

	stored, _ := s.storage.GetAthlete(s.ctx, athlete.ID)
	s.Equal(model.StatusInactive, stored.Status)
}

func (s *ServiceSuite) TestUpdateAthleteNormalisesPosition() {
	athlete := s.add("Ronaldo", model.PositionForward)

	updated, err := s.service.UpdateAthlete(s.ctx, athlete.ID, AthleteUpdate{
		Position: ptr(model.Position("meio")),
	})
	s.Require().NoError(err)
	s.Equal(model.PositionMidfielder, updated.Position)
}

func (s *ServiceSuite) TestUpdateAthleteClearsPhoto() {
	athlete, err := s.service.AddAthlete(s.ctx, NewAthlete{
		Name:     "Ronaldo",
		Position: model.PositionForward,
		PhotoURL: "https://example.com/r9.png",
	})
	s.Require().NoError(err)

	updated, err := s.service.UpdateAthlete(s.ctx, athlete.ID, AthleteUpdate{PhotoURL: ptr("")})
	s.Require().NoError(err)
	s.Empty(updated.PhotoURL)
}

func (s *ServiceSuite) TestUpdateAthleteCountsNameInCharacters() {
	name := strings.Repeat("ã", 80)
	athlete, err := s.service.AddAthlete(s.ctx, NewAthlete{Name: name, Position: model.PositionDefender})
	s.Require().NoError(err)

	updated, err := s.service.UpdateAthlete(s.ctx, athlete.ID, AthleteUpdate{Name: ptr(strings.Repeat("é", 80))})
	s.Require().NoError(err)
	s.Equal(strings.Repeat("é", 80), updated.Name)
}

func (s *ServiceSuite) TestUpdateAthleteValidation() {
	athlete := s.add("Ronaldo", model.PositionForward)

	tests := []struct {
		name   string
		update AthleteUpdate
		target error
	}{
		{"blank name", AthleteUpdate{Name: ptr(" ")}, model.ErrInvalidAthlete},
		{"long name", AthleteUpdate{Name: ptr(strings.Repeat("a", 81))}, model.ErrInvalidAthlete},
		{"bad status", AthleteUpdate{Status: ptr(model.AthleteStatus("benched"))}, model.ErrInvalidAthlete},
		{"bad position", AthleteUpdate{Position: ptr(model.Position("sweeper"))}, model.ErrUnknownPosition},
		{"negative assists", AthleteUpdate{Assists: ptr(-2)}, model.ErrInvalidAthlete},
		{"bad photo", AthleteUpdate{PhotoURL: ptr("nope")}, model.ErrInvalidAthlete},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.UpdateAthlete(s.ctx, athlete.ID, tt.update)
			s.ErrorIs(err, tt.target)
		})
	}

	stored, _ := s.storage.GetAthlete(s.ctx, athlete.ID)
	s.Equal("Ronaldo", stored.Name)
	s.Equal(0, stored.Assists)
}

func (s *ServiceSuite) TestUpdateAthleteNotFound() {
	_, err := s.service.UpdateAthlete(s.ctx, "missing", AthleteUpdate{Name: ptr("X")})
	s.ErrorIs(err, model.ErrAthleteNotFound)
}

func (s *ServiceSuite) TestUpdateAthletePublishesEvent() {
	athlete := s.add("Ronaldo", model.PositionForward)
	s.publisher.Reset()

	_, err := s.service.UpdateAthlete(s.ctx, athlete.ID, AthleteUpdate{Name: ptr("R9")})
	s.Require().NoError(err)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(model.EventAthleteUpdated, events[0].Type)
	s.Equal("R9", events[0].Athlete.Name)
}

// DeleteAthlete tests

func (s *ServiceSuite) TestDeleteAthlete() {
	athlete := s.add("Ronaldo", model.PositionForward)

	s.Require().NoError(s.service.DeleteAthlete(s.ctx, athlete.ID))

	_, err := s.storage.GetAthlete(s.ctx, athlete.ID)
	s.ErrorIs(err, model.ErrAthleteNotFound)
	s.Equal([]model.RosterEventType{model.EventAthleteAdded, model.EventAthleteRemoved}, s.publisher.Types())
}

func (s *ServiceSuite) TestDeleteAthleteNotFound() {
	err := s.service.DeleteAthlete(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAthleteNotFound)
	s.Empty(s.publisher.Events())
}

// ListAthletes tests

func (s *ServiceSuite) TestListAthletesOrderedByName() {
	s.add("Zico", model.PositionMidfielder)
	s.add("adriano", model.PositionForward)
	s.add("Bebeto", model.PositionForward)

	athletes, err := s.service.ListAthletes(s.ctx, Filter{})
	s.Require().NoError(err)

	names := make([]string, len(athletes))
	for i, a := range athletes {
		names[i] = a.Name
	}
	s.Equal([]string{"adriano", "Bebeto", "Zico"}, names)
}

func (s *ServiceSuite) TestListAthletesFilters() {
	s.add("Ronaldo", model.PositionForward)
	s.add("Ronaldinho", model.PositionMidfielder)
	inactive := s.add("Rivaldo", model.PositionMidfielder)
	_, err := s.service.UpdateAthlete(s.ctx, inactive.ID, AthleteUpdate{Status: ptr(model.StatusInactive)})
	s.Require().NoError(err)

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{"no filter", Filter{}, []string{"Rivaldo", "Ronaldinho", "Ronaldo"}},
		{"search is case insensitive", Filter{Search: "RONALD"}, []string{"Ronaldinho", "Ronaldo"}},
		{"status only", Filter{Status: model.StatusInactive}, []string{"Rivaldo"}},
		{"status and search", Filter{Status: model.StatusActive, Search: "aldo"}, []string{"Ronaldo"}},
		{"no match", Filter{Search: "pele"}, []string{}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			athletes, err := s.service.ListAthletes(s.ctx, tt.filter)
			s.Require().NoError(err)

			names := make([]string, 0, len(athletes))
			for _, a := range athletes {
				names = append(names, a.Name)
			}
			s.Equal(tt.expected, names)
		})
	}
}

func (s *ServiceSuite) TestActiveAthletes() {
	s.add("Ronaldo", model.PositionForward)
	inactive := s.add("Rivaldo", model.PositionMidfielder)
	_, _ = s.service.UpdateAthlete(s.ctx, inactive.ID, AthleteUpdate{Status: ptr(model.StatusInactive)})

	active, err := s.service.ActiveAthletes(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("Ronaldo", active[0].Name)
}

// Stats tests

func (s *ServiceSuite) TestStats() {
	s.add("Taffarel", model.PositionGoalkeeper)
	s.add("Dida", model.PositionGoalkeeper)
	s.add("Cafu", model.PositionDefender)
	inactive := s.add("Ronaldo", model.PositionForward)
	_, _ = s.service.UpdateAthlete(s.ctx, inactive.ID, AthleteUpdate{Status: ptr(model.StatusInactive)})

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RosterStats{Total: 4, Active: 3, Goalkeepers: 2, Others: 2}, stats)
}

func (s *ServiceSuite) TestStatsEmptyRoster() {
	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RosterStats{}, stats)
}

// Presence tests

func (s *ServiceSuite) TestConfirmPresenceCreatesLinkedAthlete() {
	athlete, err := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))
	s.Require().NoError(err)

	s.Equal(model.UserID("user-1"), athlete.UserID)
	s.Equal("Kaka", athlete.Name)
	s.Equal(model.PositionMidfielder, athlete.Position)
	s.True(athlete.IsActive())
	s.Require().NotNil(athlete.ConfirmedAt)
	s.Equal(s.clock.Now(), *athlete.ConfirmedAt)
	s.Equal([]model.RosterEventType{model.EventAthleteAdded}, s.publisher.Types())
}

func (s *ServiceSuite) TestConfirmPresenceTwiceKeepsOneEntry() {
	first, err := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	second, err := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaká", model.PositionForward))
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal("Kaká", second.Name)
	s.Equal(model.PositionForward, second.Position)
	s.Equal(first.CreatedAt, second.CreatedAt)

	athletes, _ := s.service.ListAthletes(s.ctx, Filter{})
	s.Len(athletes, 1)
	s.Equal([]model.RosterEventType{model.EventAthleteAdded, model.EventAthleteUpdated}, s.publisher.Types())
}

func (s *ServiceSuite) TestConfirmPresenceReactivates() {
	athlete, _ := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))
	_, err := s.service.UpdateAthlete(s.ctx, athlete.ID, AthleteUpdate{Status: ptr(model.StatusInactive)})
	s.Require().NoError(err)

	again, err := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))
	s.Require().NoError(err)
	s.True(again.IsActive())
}

func (s *ServiceSuite) TestConfirmPresenceRequiresCompleteProfile() {
	_, err := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "", model.PositionMidfielder))
	s.ErrorIs(err, model.ErrInvalidProfile)

	_, err = s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", ""))
	s.ErrorIs(err, model.ErrInvalidProfile)

	_, err = s.service.ConfirmPresence(s.ctx, nil)
	s.ErrorIs(err, model.ErrInvalidProfile)
}

func (s *ServiceSuite) TestConcurrentConfirmPresenceCreatesOneEntry() {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))
			s.NoError(err)
		}()
	}
	wg.Wait()

	athletes, err := s.service.ListAthletes(s.ctx, Filter{})
	s.Require().NoError(err)
	s.Len(athletes, 1)
}

func (s *ServiceSuite) TestRemovePresence() {
	_, _ = s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))

	s.Require().NoError(s.service.RemovePresence(s.ctx, "user-1"))

	confirmed, err := s.service.IsConfirmed(s.ctx, "user-1")
	s.Require().NoError(err)
	s.False(confirmed)
	s.Equal([]model.RosterEventType{model.EventAthleteAdded, model.EventAthleteRemoved}, s.publisher.Types())
}

func (s *ServiceSuite) TestRemovePresenceWithoutEntryIsNoop() {
	s.NoError(s.service.RemovePresence(s.ctx, "user-1"))
	s.Empty(s.publisher.Events())
}

func (s *ServiceSuite) TestIsConfirmed() {
	confirmed, err := s.service.IsConfirmed(s.ctx, "user-1")
	s.Require().NoError(err)
	s.False(confirmed)

	_, _ = s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))

	confirmed, err = s.service.IsConfirmed(s.ctx, "user-1")
	s.Require().NoError(err)
	s.True(confirmed)
}

// SyncProfile tests

func (s *ServiceSuite) TestSyncProfileUpdatesLinkedEntry() {
	athlete, _ := s.service.ConfirmPresence(s.ctx, s.profile("user-1", "Kaka", model.PositionMidfielder))

	err := s.service.SyncProfile(s.ctx, s.profile("user-1", "Ricardo", model.PositionForward))
	s.Require().NoError(err)

	stored, _ := s.storage.GetAthlete(s.ctx, athlete.ID)
	s.Equal("Ricardo", stored.Name)
	s.Equal(model.PositionForward, stored.Position)
}

func (s *ServiceSuite) TestSyncProfileWithoutEntryIsNoop() {
	s.NoError(s.service.SyncProfile(s.ctx, s.profile("user-1", "Ricardo", model.PositionForward)))
	s.Empty(s.publisher.Events())
}

func (s *ServiceSuite) TestNilPublisherIsAllowed() {
	service := New(s.storage, s.clock, nil, testutil.NopLogger())
	_, err := service.AddAthlete(s.ctx, NewAthlete{Name: "Ana", Position: model.PositionDefender})
	s.NoError(err)
}
