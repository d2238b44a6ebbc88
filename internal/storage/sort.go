package storage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mcoot/pelada/internal/model"
)

// SortAthletes orders athletes by case-insensitive name, then ID
func SortAthletes(athletes []*model.Athlete) {
	slices.SortFunc(athletes, func(a, b *model.Athlete) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
