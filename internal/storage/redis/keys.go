package redis

import (
	"fmt"

	"github.com/mcoot/pelada/internal/model"
)

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

// athlete returns the Redis key for an Athlete
func (k keys) athlete(id model.AthleteID) string {
	return fmt.Sprintf("%s:athlete:%s", k.prefix, id)
}

// athleteIndex returns the Redis key for the SET of all athlete keys
func (k keys) athleteIndex() string {
	return fmt.Sprintf("%s:idx:athletes", k.prefix)
}

// athleteByUser returns the Redis key for the user_id -> athlete_id index
func (k keys) athleteByUser(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:athlete_by_user:%s", k.prefix, userID)
}

// profile returns the Redis key for a UserProfile
func (k keys) profile(userID model.UserID) string {
	return fmt.Sprintf("%s:profile:%s", k.prefix, userID)
}

// account returns the Redis key for an Account
func (k keys) account(userID model.UserID) string {
	return fmt.Sprintf("%s:account:%s", k.prefix, userID)
}

// accountByEmail returns the Redis key for the email -> user_id index
func (k keys) accountByEmail(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", k.prefix, email)
}
