package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Athlete operations

func (s *Storage) SaveAthlete(ctx context.Context, athlete *model.Athlete) error {
	data, err := json.Marshal(athlete)
	if err != nil {
		return err
	}

	// Look up the previous version so a changed user link can be cleaned up
	prev, err := s.GetAthlete(ctx, athlete.ID)
	if err != nil && !errors.Is(err, model.ErrAthleteNotFound) {
		return err
	}

	key := s.keys.athlete(athlete.ID)

	// Use a transaction for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, s.keys.athleteIndex(), key)
	if prev != nil && prev.UserID != "" && prev.UserID != athlete.UserID {
		pipe.Del(ctx, s.keys.athleteByUser(prev.UserID))
	}
	if athlete.UserID != "" {
		pipe.Set(ctx, s.keys.athleteByUser(athlete.UserID), string(athlete.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error) {
	data, err := s.client.Get(ctx, s.keys.athlete(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAthleteNotFound
		}
		return nil, err
	}

	var athlete model.Athlete
	if err := json.Unmarshal(data, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}

func (s *Storage) GetAthleteByUser(ctx context.Context, userID model.UserID) (*model.Athlete, error) {
	id, err := s.client.Get(ctx, s.keys.athleteByUser(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAthleteNotFound
		}
		return nil, err
	}

	return s.GetAthlete(ctx, model.AthleteID(id))
}

func (s *Storage) DeleteAthlete(ctx context.Context, id model.AthleteID) error {
	prev, err := s.GetAthlete(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAthleteNotFound) {
			return nil
		}
		return err
	}

	key := s.keys.athlete(id)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, s.keys.athleteIndex(), key)
	if prev.UserID != "" {
		pipe.Del(ctx, s.keys.athleteByUser(prev.UserID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListAthletes(ctx context.Context) ([]*model.Athlete, error) {
	athleteKeys, err := s.client.SMembers(ctx, s.keys.athleteIndex()).Result()
	if err != nil {
		return nil, err
	}

	if len(athleteKeys) == 0 {
		return []*model.Athlete{}, nil
	}

	// Fetch all athletes in one round trip using MGET
	values, err := s.client.MGet(ctx, athleteKeys...).Result()
	if err != nil {
		return nil, err
	}

	athletes := make([]*model.Athlete, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Key removed between SMEMBERS and MGET
		}
		var athlete model.Athlete
		if err := json.Unmarshal([]byte(str), &athlete); err != nil {
			return nil, fmt.Errorf("decode athlete: %w", err)
		}
		athletes = append(athletes, &athlete)
	}

	storage.SortAthletes(athletes)
	return athletes, nil
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keys.profile(profile.UserID), data, 0).Err()
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.UserProfile, error) {
	data, err := s.client.Get(ctx, s.keys.profile(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Claim the email first; the first writer owns it
	emailKey := s.keys.accountByEmail(account.Email)
	claimed, err := s.client.SetNX(ctx, emailKey, string(account.UserID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		owner, err := s.client.Get(ctx, emailKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if owner != string(account.UserID) {
			return model.ErrEmailExists
		}
	}

	return s.client.Set(ctx, s.keys.account(account.UserID), data, 0).Err()
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	data, err := s.client.Get(ctx, s.keys.account(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	userID, err := s.client.Get(ctx, s.keys.accountByEmail(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.UserID(userID))
}
