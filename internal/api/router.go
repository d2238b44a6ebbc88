package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pelada/internal/api/apierr"
	"github.com/mcoot/pelada/internal/api/handler"
	"github.com/mcoot/pelada/internal/api/middleware"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/metrics"
	"github.com/mcoot/pelada/internal/services/auth"
	"github.com/mcoot/pelada/internal/services/match"
	"github.com/mcoot/pelada/internal/services/profile"
	"github.com/mcoot/pelada/internal/services/roster"
	"github.com/mcoot/pelada/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Recorder // optional; /metrics is not mounted when nil
	AuthService    *auth.Service
	RosterService  *roster.Service
	ProfileService *profile.Service
	MatchService   *match.Service
	Feed           *sse.Feed // optional; enables /athletes/stream
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.ProfileService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	athleteHandler := handler.NewAthleteHandler(cfg.RosterService, cfg.Feed, cfg.Logger)
	presenceHandler := handler.NewPresenceHandler(cfg.RosterService, cfg.ProfileService)
	teamHandler := handler.NewTeamHandler(cfg.MatchService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger, cfg.Metrics)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/join", athleteHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/teams/balance", teamHandler.Balance).Methods(http.MethodPost)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	protected.HandleFunc("/profile", profileHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/profile", profileHandler.Save).Methods(http.MethodPut)

	// Fixed paths go before /athletes/{id} so they are not captured as IDs
	protected.HandleFunc("/athletes/stats", athleteHandler.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/athletes/stream", athleteHandler.Stream).Methods(http.MethodGet)
	protected.HandleFunc("/athletes", athleteHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/athletes", athleteHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/athletes/{id}", athleteHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/athletes/{id}", athleteHandler.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/athletes/{id}", athleteHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/presence", presenceHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/presence", presenceHandler.Confirm).Methods(http.MethodPost)
	protected.HandleFunc("/presence", presenceHandler.Remove).Methods(http.MethodDelete)

	protected.HandleFunc("/teams", teamHandler.Draw).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

func methodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusMethodNotAllowed, apierr.ErrorResponse{
		Error: apierr.APIError{Code: apierr.CodeInvalidRequest, Message: "method not allowed"},
	})
}
