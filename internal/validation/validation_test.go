package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Name", "name"},
		{"PhotoURL", "photo_url"},
		{"GamesPlayed", "games_played"},
		{"TeamCount", "team_count"},
		{"URLPath", "url_path"},
		{"ID", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, snakeCase(tt.input))
		})
	}
}

func TestDescribe(t *testing.T) {
	type sample struct {
		Name        string `validate:"required,max=10"`
		Position    string `json:"pos" validate:"required,position"`
		Status      string `validate:"omitempty,status"`
		GamesPlayed int    `validate:"gte=0"`
		Email       string `json:"email" validate:"omitempty,email"`
	}

	v := New()
	tests := []struct {
		name     string
		input    sample
		expected string
	}{
		{
			name:     "missing required field",
			input:    sample{Position: "forward"},
			expected: "name is required",
		},
		{
			name:     "string too long",
			input:    sample{Name: "Bartholomew Jr", Position: "forward"},
			expected: "name must be at most 10 characters",
		},
		{
			name:     "unknown position uses json name",
			input:    sample{Name: "Ana", Position: "libero"},
			expected: "pos must be one of goalkeeper, defender, midfielder, forward",
		},
		{
			name:     "legacy position accepted",
			input:    sample{Name: "Ana", Position: "Goleiro", Status: "retired"},
			expected: "status must be active or inactive",
		},
		{
			name:     "negative number",
			input:    sample{Name: "Ana", Position: "defender", GamesPlayed: -1},
			expected: "games_played must be at least 0",
		},
		{
			name:     "bad email",
			input:    sample{Name: "Ana", Position: "defender", Email: "nope"},
			expected: "email is not a valid email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.expected, Describe(err))
		})
	}
}

func TestValidStructPasses(t *testing.T) {
	type sample struct {
		Position string `validate:"required,position"`
		Status   string `validate:"required,status"`
	}
	assert.NoError(t, New().Struct(sample{Position: "Meio", Status: "inactive"}))
}
