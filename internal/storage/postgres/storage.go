package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New opens a pool, waits for the database to answer and applies the schema
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	attempts := max(cfg.PingAttempts, 1)
	var pingErr error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr = pool.Ping(pingCtx)
		cancel()
		if pingErr == nil {
			break
		}

		logger.Warn("failed to ping database",
			slog.Int("attempt", i+1),
			slog.String("error", pingErr.Error()),
		)
		if i < attempts-1 {
			time.Sleep(500 * time.Millisecond)
		}
	}
	if pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping pool: %w", pingErr)
	}

	s := NewWithPool(pool, logger)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool without touching the schema
func NewWithPool(pool *pgxpool.Pool, logger *slog.Logger) *Storage {
	return &Storage{pool: pool, logger: logger}
}

// Migrate creates the tables if they do not exist
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close releases the pool
func (s *Storage) Close() {
	s.pool.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// uniqueViolation is the SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

const athleteColumns = `id, COALESCE(user_id, ''), name, position, status, photo_url,
        goals, assists, games_played, confirmed_at, created_at, updated_at`

// Athlete operations

func (s *Storage) SaveAthlete(ctx context.Context, athlete *model.Athlete) error {
	query := `
        INSERT INTO athletes (id, user_id, name, position, status, photo_url,
                              goals, assists, games_played, confirmed_at, created_at, updated_at)
        VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (id)
        DO UPDATE SET
            user_id = EXCLUDED.user_id,
            name = EXCLUDED.name,
            position = EXCLUDED.position,
            status = EXCLUDED.status,
            photo_url = EXCLUDED.photo_url,
            goals = EXCLUDED.goals,
            assists = EXCLUDED.assists,
            games_played = EXCLUDED.games_played,
            confirmed_at = EXCLUDED.confirmed_at,
            updated_at = EXCLUDED.updated_at
    `
	_, err := s.pool.Exec(ctx, query,
		string(athlete.ID), string(athlete.UserID), athlete.Name, string(athlete.Position),
		string(athlete.Status), athlete.PhotoURL, athlete.Goals, athlete.Assists,
		athlete.GamesPlayed, athlete.ConfirmedAt, athlete.CreatedAt, athlete.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save athlete: %w", err)
	}
	return nil
}

func (s *Storage) GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+athleteColumns+` FROM athletes WHERE id = $1`, string(id))
	return scanAthlete(row)
}

func (s *Storage) GetAthleteByUser(ctx context.Context, userID model.UserID) (*model.Athlete, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+athleteColumns+` FROM athletes WHERE user_id = $1`, string(userID))
	return scanAthlete(row)
}

func (s *Storage) DeleteAthlete(ctx context.Context, id model.AthleteID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM athletes WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("failed to delete athlete: %w", err)
	}
	return nil
}

func (s *Storage) ListAthletes(ctx context.Context) ([]*model.Athlete, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+athleteColumns+` FROM athletes`)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	defer rows.Close()

	athletes := []*model.Athlete{}
	for rows.Next() {
		athlete, err := scanAthlete(rows)
		if err != nil {
			return nil, err
		}
		athletes = append(athletes, athlete)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}

	// Sorted in Go so every backend agrees on collation
	storage.SortAthletes(athletes)
	return athletes, nil
}

func scanAthlete(row pgx.Row) (*model.Athlete, error) {
	var (
		a                            model.Athlete
		id, userID, position, status string
	)
	err := row.Scan(&id, &userID, &a.Name, &position, &status, &a.PhotoURL,
		&a.Goals, &a.Assists, &a.GamesPlayed, &a.ConfirmedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAthleteNotFound
		}
		return nil, fmt.Errorf("failed to scan athlete: %w", err)
	}
	a.ID = model.AthleteID(id)
	a.UserID = model.UserID(userID)
	a.Position = model.Position(position)
	a.Status = model.AthleteStatus(status)
	return &a, nil
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	query := `
        INSERT INTO profiles (user_id, name, position, photo_url, email, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id)
        DO UPDATE SET
            name = EXCLUDED.name,
            position = EXCLUDED.position,
            photo_url = EXCLUDED.photo_url,
            email = EXCLUDED.email,
            updated_at = EXCLUDED.updated_at
    `
	_, err := s.pool.Exec(ctx, query,
		string(profile.UserID), profile.Name, string(profile.Position),
		profile.PhotoURL, profile.Email, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.UserProfile, error) {
	query := `
        SELECT user_id, name, position, photo_url, email, updated_at
        FROM profiles
        WHERE user_id = $1
    `
	var (
		p            model.UserProfile
		id, position string
	)
	err := s.pool.QueryRow(ctx, query, string(userID)).Scan(&id, &p.Name, &position, &p.PhotoURL, &p.Email, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.UserID = model.UserID(id)
	p.Position = model.Position(position)
	return &p, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	query := `
        INSERT INTO accounts (user_id, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id)
        DO UPDATE SET
            email = EXCLUDED.email,
            password_hash = EXCLUDED.password_hash
    `
	_, err := s.pool.Exec(ctx, query, string(account.UserID), account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrEmailExists
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	return s.getAccount(ctx, `WHERE user_id = $1`, string(userID))
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.getAccount(ctx, `WHERE email = $1`, email)
}

func (s *Storage) getAccount(ctx context.Context, where string, arg string) (*model.Account, error) {
	var (
		a  model.Account
		id string
	)
	err := s.pool.QueryRow(ctx, `SELECT user_id, email, password_hash, created_at FROM accounts `+where, arg).
		Scan(&id, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	a.UserID = model.UserID(id)
	return &a, nil
}
