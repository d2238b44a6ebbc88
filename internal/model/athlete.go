package model

import (
	"fmt"
	"strings"
	"time"
)

// AthleteID uniquely identifies a roster entry
type AthleteID string

// Position is the field role a player is registered for
type Position string

const (
	PositionGoalkeeper Position = "goalkeeper"
	PositionDefender   Position = "defender"
	PositionMidfielder Position = "midfielder"
	PositionForward    Position = "forward"
)

// positionOrder is the order position groups are processed in when balancing
var positionOrder = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

// legacyPositions maps the labels used by older roster exports
var legacyPositions = map[string]Position{
	"goleiro":  PositionGoalkeeper,
	"zagueiro": PositionDefender,
	"meio":     PositionMidfielder,
	"atacante": PositionForward,
}

// Positions returns every known position in balancing order
func Positions() []Position {
	out := make([]Position, len(positionOrder))
	copy(out, positionOrder)
	return out
}

// Valid reports whether p is one of the known positions
func (p Position) Valid() bool {
	for _, known := range positionOrder {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePosition converts user input into a Position.
// Matching is case-insensitive and accepts the legacy labels.
func ParsePosition(s string) (Position, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if p := Position(key); p.Valid() {
		return p, nil
	}
	if p, ok := legacyPositions[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// AthleteStatus marks whether an athlete takes part in the next match
type AthleteStatus string

const (
	StatusActive   AthleteStatus = "active"
	StatusInactive AthleteStatus = "inactive"
)

// Valid reports whether s is a known status
func (s AthleteStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Athlete is a roster entry.
// UserID links the entry to a UserProfile when it was created by confirming presence.
type Athlete struct {
	ID          AthleteID
	UserID      UserID // empty for athletes added by an organiser
	Name        string
	Position    Position
	Status      AthleteStatus
	PhotoURL    string
	Goals       int
	Assists     int
	GamesPlayed int
	ConfirmedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the athlete is eligible for team generation
func (a *Athlete) IsActive() bool {
	return a.Status == StatusActive
}

// RosterStats summarises the roster for the dashboard
type RosterStats struct {
	Total       int
	Active      int
	Goalkeepers int
	Others      int
}
