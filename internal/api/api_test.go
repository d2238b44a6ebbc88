package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pelada/internal/api"
	"github.com/mcoot/pelada/internal/api/apierr"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/factory"
	"github.com/mcoot/pelada/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	// The test app shuffles with the identity permutation, so draws are deterministic
	app := factory.NewTestApp()
	t.Cleanup(app.Close)

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		Metrics:        app.Metrics,
		AuthService:    app.AuthService,
		RosterService:  app.RosterService,
		ProfileService: app.ProfileService,
		MatchService:   app.MatchService,
		Feed:           app.Feed,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, rr.Body.String())
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Error.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"email":    "ana@example.com",
		"password": "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	registerResp := decode[response.AuthResponse](t, rr)
	assert.NotEmpty(t, registerResp.SessionToken)
	assert.Equal(t, "ana@example.com", registerResp.Email)

	// Login
	rr = ts.request(http.MethodPost, "/api/v1/auth/login", registerBody, "")
	require.Equal(t, http.StatusOK, rr.Code)
	loginResp := decode[response.AuthResponse](t, rr)
	assert.Equal(t, registerResp.UserID, loginResp.UserID)

	// Duplicate registration
	rr = ts.request(http.MethodPost, "/api/v1/auth/register", registerBody, "")
	assertError(t, rr, http.StatusConflict, apierr.CodeEmailExists)

	// Wrong password
	rr = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	}, "")
	assertError(t, rr, http.StatusUnauthorized, apierr.CodeInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing email", map[string]string{"password": "secret123"}},
		{"bad email", map[string]string{"email": "nope", "password": "secret123"}},
		{"short password", map[string]string{"email": "a@example.com", "password": "short"}},
		{"malformed body", "not an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/auth/register", tt.body, "")
			assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
		})
	}
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "bia@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[response.Me](t, rr)
	assert.Equal(t, "bia@example.com", me.Email)
	assert.Nil(t, me.Profile)

	saveProfile(t, ts, token, "Bia", "forward")

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	me = decode[response.Me](t, rr)
	require.NotNil(t, me.Profile)
	assert.Equal(t, "Bia", me.Profile.Name)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/athletes"},
		{http.MethodPost, "/api/v1/athletes"},
		{http.MethodGet, "/api/v1/athletes/stats"},
		{http.MethodPost, "/api/v1/presence"},
		{http.MethodPost, "/api/v1/teams"},
	}
	for _, p := range paths {
		rr := ts.request(p.method, p.path, nil, "")
		assertError(t, rr, http.StatusUnauthorized, apierr.CodeUnauthorized)
	}

	rr := ts.request(http.MethodGet, "/api/v1/athletes", nil, "not-a-token")
	assertError(t, rr, http.StatusUnauthorized, apierr.CodeUnauthorized)
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "caio@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/profile", nil, token)
	assertError(t, rr, http.StatusNotFound, apierr.CodeProfileNotFound)

	// Legacy labels are normalised
	p := saveProfile(t, ts, token, "Caio", "Zagueiro")
	assert.Equal(t, "defender", p.Position)
	assert.Equal(t, "caio@example.com", p.Email)

	rr = ts.request(http.MethodGet, "/api/v1/profile", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Caio", decode[response.Profile](t, rr).Name)

	rr = ts.request(http.MethodPut, "/api/v1/profile", map[string]string{
		"name":     "Caio",
		"position": "libero",
	}, token)
	assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestAthleteCRUD(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "org@example.com")

	// Create
	created := addAthlete(t, ts, token, "Ana", "goalkeeper")
	assert.Equal(t, "active", created.Status)

	// Get
	rr := ts.request(http.MethodGet, "/api/v1/athletes/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Ana", decode[response.Athlete](t, rr).Name)

	// Update
	rr = ts.request(http.MethodPatch, "/api/v1/athletes/"+created.ID, map[string]any{
		"status": "inactive",
		"goals":  3,
	}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[response.Athlete](t, rr)
	assert.Equal(t, "inactive", updated.Status)
	assert.Equal(t, 3, updated.Goals)
	assert.Equal(t, "goalkeeper", updated.Position)

	// Delete
	rr = ts.request(http.MethodDelete, "/api/v1/athletes/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/athletes/"+created.ID, nil, token)
	assertError(t, rr, http.StatusNotFound, apierr.CodeAthleteNotFound)

	rr = ts.request(http.MethodDelete, "/api/v1/athletes/"+created.ID, nil, token)
	assertError(t, rr, http.StatusNotFound, apierr.CodeAthleteNotFound)
}

func TestCreateAthleteValidation(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "org@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"position": "forward"}},
		{"unknown position", map[string]any{"name": "X", "position": "libero"}},
		{"bad status", map[string]any{"name": "X", "position": "forward", "status": "injured"}},
		{"negative goals", map[string]any{"name": "X", "position": "forward", "goals": -1}},
		{"bad photo", map[string]any{"name": "X", "position": "forward", "photo_url": "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/athletes", tt.body, token)
			assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
		})
	}

	rr := ts.request(http.MethodPatch, "/api/v1/athletes/missing", map[string]any{"goals": 1}, token)
	assertError(t, rr, http.StatusNotFound, apierr.CodeAthleteNotFound)
}

func TestListAthletesFilters(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "org@example.com")

	addAthlete(t, ts, token, "Carla", "forward")
	addAthlete(t, ts, token, "ana", "goalkeeper")
	bruno := addAthlete(t, ts, token, "Bruno", "defender")
	rr := ts.request(http.MethodPatch, "/api/v1/athletes/"+bruno.ID, map[string]string{"status": "inactive"}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/athletes", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.AthleteList](t, rr)
	require.Equal(t, 3, list.Count)
	assert.Equal(t, []string{"ana", "Bruno", "Carla"}, names(list.Athletes))

	rr = ts.request(http.MethodGet, "/api/v1/athletes?status=active", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"ana", "Carla"}, names(decode[response.AthleteList](t, rr).Athletes))

	rr = ts.request(http.MethodGet, "/api/v1/athletes?search=AR", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"Carla"}, names(decode[response.AthleteList](t, rr).Athletes))

	rr = ts.request(http.MethodGet, "/api/v1/athletes?status=injured", nil, token)
	assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestAthleteStats(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "org@example.com")

	addAthlete(t, ts, token, "Ana", "goalkeeper")
	addAthlete(t, ts, token, "Bruno", "defender")
	carla := addAthlete(t, ts, token, "Carla", "forward")
	rr := ts.request(http.MethodPatch, "/api/v1/athletes/"+carla.ID, map[string]string{"status": "inactive"}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/athletes/stats", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, response.Stats{Total: 3, Active: 2, Goalkeepers: 1, Others: 2}, decode[response.Stats](t, rr))
}

func TestPublicJoin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/join", map[string]string{
		"name":     "Davi",
		"position": "Atacante",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	joined := decode[response.Athlete](t, rr)
	assert.Equal(t, "forward", joined.Position)
	assert.Equal(t, "active", joined.Status)

	rr = ts.request(http.MethodPost, "/api/v1/join", map[string]string{"name": "Davi"}, "")
	assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestPresenceFlow(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "eva@example.com")

	// Confirming needs a profile
	rr := ts.request(http.MethodPost, "/api/v1/presence", nil, token)
	assertError(t, rr, http.StatusNotFound, apierr.CodeProfileNotFound)

	rr = ts.request(http.MethodGet, "/api/v1/presence", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[response.Presence](t, rr).Confirmed)

	saveProfile(t, ts, token, "Eva", "midfielder")

	rr = ts.request(http.MethodPost, "/api/v1/presence", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	confirmed := decode[response.Presence](t, rr)
	assert.True(t, confirmed.Confirmed)
	require.NotNil(t, confirmed.Athlete)
	assert.Equal(t, "Eva", confirmed.Athlete.Name)
	assert.NotNil(t, confirmed.Athlete.ConfirmedAt)

	// Confirming twice keeps a single entry
	rr = ts.request(http.MethodPost, "/api/v1/presence", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/athletes", nil, token)
	assert.Equal(t, 1, decode[response.AthleteList](t, rr).Count)

	rr = ts.request(http.MethodGet, "/api/v1/presence", nil, token)
	assert.True(t, decode[response.Presence](t, rr).Confirmed)

	rr = ts.request(http.MethodDelete, "/api/v1/presence", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/presence", nil, token)
	assert.False(t, decode[response.Presence](t, rr).Confirmed)

	// Removing again is a no-op
	rr = ts.request(http.MethodDelete, "/api/v1/presence", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDrawTeams(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "org@example.com")

	a := addAthlete(t, ts, token, "A", "forward")
	b := addAthlete(t, ts, token, "B", "midfielder")
	c := addAthlete(t, ts, token, "C", "midfielder")
	d := addAthlete(t, ts, token, "D", "forward")

	rr := ts.request(http.MethodPost, "/api/v1/teams", map[string]int{"team_count": 2}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	draw := decode[response.Draw](t, rr)

	assert.Equal(t, 4, draw.PlayerCount)
	require.Len(t, draw.Teams, 2)
	assert.Equal(t, "team-1", draw.Teams[0].ID)
	assert.Equal(t, "Team 2", draw.Teams[1].Name)
	// Midfielders are dealt before forwards, each group in roster order
	assert.Equal(t, []string{b.ID, a.ID}, ids(draw.Teams[0].Players))
	assert.Equal(t, []string{c.ID, d.ID}, ids(draw.Teams[1].Players))
}

func TestDrawTeamsErrors(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "org@example.com")

	a := addAthlete(t, ts, token, "A", "forward")
	b := addAthlete(t, ts, token, "B", "forward")
	c := addAthlete(t, ts, token, "C", "forward")

	rr := ts.request(http.MethodPost, "/api/v1/teams", map[string]int{"team_count": 2}, token)
	assertError(t, rr, http.StatusUnprocessableEntity, apierr.CodeInsufficientPlayers)

	rr = ts.request(http.MethodPost, "/api/v1/teams", map[string]int{"team_count": 1}, token)
	assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidTeamCount)

	rr = ts.request(http.MethodPost, "/api/v1/teams", map[string]any{
		"team_count":  2,
		"athlete_ids": []string{a.ID, "missing"},
	}, token)
	assertError(t, rr, http.StatusNotFound, apierr.CodeAthleteNotFound)

	rr = ts.request(http.MethodPatch, "/api/v1/athletes/"+c.ID, map[string]string{"status": "inactive"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/teams", map[string]any{
		"team_count":  2,
		"athlete_ids": []string{a.ID, b.ID, c.ID},
	}, token)
	assertError(t, rr, http.StatusConflict, apierr.CodeAthleteInactive)
}

func TestBalanceSnapshot(t *testing.T) {
	ts := newTestServer(t)

	players := []map[string]string{
		{"id": "1", "name": "One", "position": "Goleiro"},
		{"id": "2", "name": "Two", "position": "goalkeeper"},
		{"id": "3", "name": "Three", "position": "defender"},
		{"id": "4", "name": "Four", "position": "defender"},
	}
	rr := ts.request(http.MethodPost, "/api/v1/teams/balance", map[string]any{
		"team_count": 2,
		"players":    players,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	draw := decode[response.Draw](t, rr)
	require.Len(t, draw.Teams, 2)
	assert.Equal(t, []string{"1", "3"}, ids(draw.Teams[0].Players))
	assert.Equal(t, []string{"2", "4"}, ids(draw.Teams[1].Players))
}

func TestBalanceSnapshotErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		players []map[string]string
		status  int
		code    string
	}{
		{
			name: "unknown position",
			players: []map[string]string{
				{"id": "1", "name": "One", "position": "libero"},
				{"id": "2", "name": "Two", "position": "forward"},
				{"id": "3", "name": "Three", "position": "forward"},
				{"id": "4", "name": "Four", "position": "forward"},
			},
			status: http.StatusBadRequest,
			code:   apierr.CodeUnknownPosition,
		},
		{
			name: "duplicate player",
			players: []map[string]string{
				{"id": "1", "name": "One", "position": "forward"},
				{"id": "1", "name": "One", "position": "forward"},
				{"id": "3", "name": "Three", "position": "forward"},
				{"id": "4", "name": "Four", "position": "forward"},
			},
			status: http.StatusBadRequest,
			code:   apierr.CodeDuplicatePlayer,
		},
		{
			name: "too few players",
			players: []map[string]string{
				{"id": "1", "name": "One", "position": "forward"},
				{"id": "2", "name": "Two", "position": "forward"},
				{"id": "3", "name": "Three", "position": "forward"},
			},
			status: http.StatusUnprocessableEntity,
			code:   apierr.CodeInsufficientPlayers,
		},
		{
			name: "missing id",
			players: []map[string]string{
				{"name": "One", "position": "forward"},
			},
			status: http.StatusBadRequest,
			code:   apierr.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/teams/balance", map[string]any{
				"team_count": 2,
				"players":    tt.players,
			}, "")
			assertError(t, rr, tt.status, tt.code)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/nothing-here", nil, "")
	assertError(t, rr, http.StatusNotFound, apierr.CodeNotFound)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.request(http.MethodGet, "/api/v1/health", nil, "")

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `pelada_http_requests_total{method="GET",status="200"} 1`)
}

func TestRosterStream(t *testing.T) {
	ts := newTestServer(t)
	token := register(t, ts, "org@example.com")

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()
	// Closing the feed ends open streams so the server can shut down
	defer ts.app.Feed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/athletes/stream?access_token="+token, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent(t, reader, "connected")

	joinResp, err := http.Post(srv.URL+"/api/v1/join", "application/json",
		strings.NewReader(`{"name":"Fábio","position":"defender"}`))
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, joinResp.Body)
	_ = joinResp.Body.Close()
	require.Equal(t, http.StatusCreated, joinResp.StatusCode)

	data := readEvent(t, reader, "athlete-added")
	var event response.RosterEvent
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, "athlete-added", event.Type)
	assert.Equal(t, "Fábio", event.Athlete.Name)
}

// Helper functions

// readEvent reads SSE lines until the named event and returns its data
func readEvent(t *testing.T, reader *bufio.Reader, name string) string {
	t.Helper()

	current := ""
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			current = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && current == name:
			return strings.TrimPrefix(line, "data: ")
		}
	}
}

func register(t *testing.T, ts *testServer, email string) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.AuthResponse](t, rr).SessionToken
}

func saveProfile(t *testing.T, ts *testServer, token, name, position string) response.Profile {
	t.Helper()

	rr := ts.request(http.MethodPut, "/api/v1/profile", map[string]string{
		"name":     name,
		"position": position,
	}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.Profile](t, rr)
}

func addAthlete(t *testing.T, ts *testServer, token, name, position string) response.Athlete {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/athletes", map[string]string{
		"name":     name,
		"position": position,
	}, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Athlete](t, rr)
}

func names(athletes []response.Athlete) []string {
	out := make([]string, len(athletes))
	for i, a := range athletes {
		out[i] = a.Name
	}
	return out
}

func ids(athletes []response.Athlete) []string {
	out := make([]string, len(athletes))
	for i, a := range athletes {
		out[i] = a.ID
	}
	return out
}
