package model

import (
	"fmt"
	"time"
)

// Team is one side produced by a balancing call
type Team struct {
	ID      string
	Name    string
	Players []Athlete
}

// TeamID returns the identifier of the team at zero-based index i
func TeamID(i int) string {
	return fmt.Sprintf("team-%d", i+1)
}

// TeamName returns the display name of the team at zero-based index i
func TeamName(i int) string {
	return fmt.Sprintf("Team %d", i+1)
}

// CountByPosition returns how many of the team's players hold each position
func (t *Team) CountByPosition() map[Position]int {
	counts := make(map[Position]int, len(positionOrder))
	for _, p := range t.Players {
		counts[p.Position]++
	}
	return counts
}

// Draw is the result of generating teams from the stored roster
type Draw struct {
	Teams       []Team
	PlayerCount int
	DrawnAt     time.Time
}
