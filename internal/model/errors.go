package model

import "errors"

// Common errors used across the application
var (
	// Roster errors
	ErrAthleteNotFound = errors.New("athlete not found")
	ErrAthleteInactive = errors.New("athlete is not active")
	ErrInvalidAthlete  = errors.New("invalid athlete")

	// Profile and account errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already registered")

	// Balancing errors
	ErrInvalidTeamCount    = errors.New("invalid team count")
	ErrInsufficientPlayers = errors.New("cannot balance: insufficient players for requested team count")
	ErrUnknownPosition     = errors.New("unknown position")
	ErrDuplicatePlayer     = errors.New("player listed more than once")
)
