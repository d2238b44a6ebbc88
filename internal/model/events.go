package model

import "time"

// RosterEventType identifies a change to the roster
type RosterEventType string

const (
	EventAthleteAdded   RosterEventType = "athlete-added"
	EventAthleteUpdated RosterEventType = "athlete-updated"
	EventAthleteRemoved RosterEventType = "athlete-removed"
)

// RosterEvent describes a single roster change.
// For removals Athlete holds the last known state of the entry.
type RosterEvent struct {
	Type      RosterEventType
	Athlete   Athlete
	Timestamp time.Time
}
