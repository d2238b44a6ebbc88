package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pelada/internal/dependencies/clock"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/storage"
	"github.com/mcoot/pelada/internal/validation"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrEmailExists        = model.ErrEmailExists
	ErrInvalidSignup      = errors.New("invalid registration")
	ErrMissingSecret      = errors.New("jwt secret is required")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims is the JWT payload issued to clients
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	JWTSecret       string
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Service handles registration, login and session tokens
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger

	// registerMu serialises the email check and the account write
	registerMu sync.Mutex

	secret          []byte
	sessionDuration time.Duration
	bcryptCost      int
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		validate:        validation.New(),
		logger:          logger,
		secret:          []byte(cfg.JWTSecret),
		sessionDuration: cfg.SessionDuration,
		bcryptCost:      cfg.BcryptCost,
	}, nil
}

// Register creates an account and returns a session for it
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	email = normaliseEmail(email)
	if err := s.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSignup, validation.Describe(err))
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	_, err := s.storage.GetAccountByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		UserID:       model.UserID(uuid.NewString()),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", slog.String("user_id", string(account.UserID)))
	return s.createSession(account)
}

// Login checks the password for an email and issues a session
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.storage.GetAccountByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(account)
}

// ValidateSession checks a token's signature and expiry and returns its session
func (s *Service) ValidateSession(token string) (*Session, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	// Expiry is checked against the injected clock rather than jwt.TimeFunc
	now := s.clock.Now()
	if !claims.VerifyExpiresAt(now, true) || claims.UserID == "" {
		return nil, ErrInvalidSession
	}

	session := &Session{
		Token:     token,
		UserID:    model.UserID(claims.UserID),
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	return session, nil
}

// createSession signs a token for the account
func (s *Service) createSession(account *model.Account) (*Session, error) {
	now := s.clock.Now()
	expires := now.Add(s.sessionDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(account.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: string(account.UserID),
		Email:  account.Email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{
		Token:     signed,
		UserID:    account.UserID,
		Email:     account.Email,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
