package response

import (
	"time"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/auth"
)

// Athlete represents a roster entry in API responses
type Athlete struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id,omitempty"`
	Name        string     `json:"name"`
	Position    string     `json:"position"`
	Status      string     `json:"status"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Goals       int        `json:"goals"`
	Assists     int        `json:"assists"`
	GamesPlayed int        `json:"games_played"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AthleteFromModel converts a model.Athlete to a response Athlete
func AthleteFromModel(a *model.Athlete) Athlete {
	return Athlete{
		ID:          string(a.ID),
		UserID:      string(a.UserID),
		Name:        a.Name,
		Position:    string(a.Position),
		Status:      string(a.Status),
		PhotoURL:    a.PhotoURL,
		Goals:       a.Goals,
		Assists:     a.Assists,
		GamesPlayed: a.GamesPlayed,
		ConfirmedAt: a.ConfirmedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AthleteList wraps a list of athletes
type AthleteList struct {
	Athletes []Athlete `json:"athletes"`
	Count    int       `json:"count"`
}

// AthleteListFromModel converts a slice of roster entries
func AthleteListFromModel(athletes []*model.Athlete) AthleteList {
	out := make([]Athlete, len(athletes))
	for i, a := range athletes {
		out[i] = AthleteFromModel(a)
	}
	return AthleteList{Athletes: out, Count: len(out)}
}

// Stats represents the roster dashboard counters
type Stats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Goalkeepers int `json:"goalkeepers"`
	Others      int `json:"others"`
}

// StatsFromModel converts model.RosterStats
func StatsFromModel(s model.RosterStats) Stats {
	return Stats{
		Total:       s.Total,
		Active:      s.Active,
		Goalkeepers: s.Goalkeepers,
		Others:      s.Others,
	}
}

// Team represents one generated team
type Team struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Players []Athlete `json:"players"`
}

// TeamFromModel converts model.Team
func TeamFromModel(t *model.Team) Team {
	players := make([]Athlete, len(t.Players))
	for i := range t.Players {
		players[i] = AthleteFromModel(&t.Players[i])
	}
	return Team{
		ID:      t.ID,
		Name:    t.Name,
		Players: players,
	}
}

// Draw is the response for team generation endpoints
type Draw struct {
	Teams       []Team    `json:"teams"`
	PlayerCount int       `json:"player_count"`
	DrawnAt     time.Time `json:"drawn_at"`
}

// DrawFromModel converts model.Draw
func DrawFromModel(d *model.Draw) Draw {
	teams := make([]Team, len(d.Teams))
	for i := range d.Teams {
		teams[i] = TeamFromModel(&d.Teams[i])
	}
	return Draw{
		Teams:       teams,
		PlayerCount: d.PlayerCount,
		DrawnAt:     d.DrawnAt,
	}
}

// Profile represents a user profile
type Profile struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Email     string    `json:"email,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileFromModel converts model.UserProfile
func ProfileFromModel(p *model.UserProfile) Profile {
	return Profile{
		UserID:    string(p.UserID),
		Name:      p.Name,
		Position:  string(p.Position),
		PhotoURL:  p.PhotoURL,
		Email:     p.Email,
		UpdatedAt: p.UpdatedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		UserID:       string(s.UserID),
		Email:        s.Email,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Me describes the authenticated caller
type Me struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   *Profile  `json:"profile,omitempty"`
}

// Presence reports whether the caller is on the roster
type Presence struct {
	Confirmed bool     `json:"confirmed"`
	Athlete   *Athlete `json:"athlete,omitempty"`
}

// RosterEvent is the payload of roster feed messages
type RosterEvent struct {
	Type      string    `json:"type"`
	Athlete   Athlete   `json:"athlete"`
	Timestamp time.Time `json:"timestamp"`
}

// RosterEventFromModel converts model.RosterEvent
func RosterEventFromModel(e model.RosterEvent) RosterEvent {
	return RosterEvent{
		Type:      string(e.Type),
		Athlete:   AthleteFromModel(&e.Athlete),
		Timestamp: e.Timestamp,
	}
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
