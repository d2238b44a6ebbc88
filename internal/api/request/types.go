package request

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest is the request body for saving the caller's profile
type ProfileRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Position string `json:"position" validate:"required,position"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

// CreateAthleteRequest is the request body for adding a roster entry
type CreateAthleteRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Position    string `json:"position" validate:"required,position"`
	Status      string `json:"status" validate:"omitempty,status"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
	Goals       int    `json:"goals" validate:"gte=0"`
	Assists     int    `json:"assists" validate:"gte=0"`
	GamesPlayed int    `json:"games_played" validate:"gte=0"`
}

// UpdateAthleteRequest is a partial update; absent fields are unchanged
type UpdateAthleteRequest struct {
	Name        *string `json:"name"`
	Position    *string `json:"position"`
	Status      *string `json:"status"`
	PhotoURL    *string `json:"photo_url"`
	Goals       *int    `json:"goals"`
	Assists     *int    `json:"assists"`
	GamesPlayed *int    `json:"games_played"`
}

// JoinRequest is the request body for public self-registration
type JoinRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Position string `json:"position" validate:"required,position"`
}

// DrawRequest is the request body for drawing teams from the roster.
// Team count limits are enforced by the balancer, not here.
type DrawRequest struct {
	TeamCount  int      `json:"team_count"`
	AthleteIDs []string `json:"athlete_ids" validate:"omitempty,dive,required"`
}

// SnapshotPlayer is one player in a stateless balance request
type SnapshotPlayer struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Position string `json:"position"`
}

// BalanceRequest is the request body for balancing a supplied roster
type BalanceRequest struct {
	TeamCount int              `json:"team_count"`
	Players   []SnapshotPlayer `json:"players" validate:"dive"`
}
