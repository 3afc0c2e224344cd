package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/roster-service/internal/api/http/handlers"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/config"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/observability"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/internal/service"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	app   *fiber.App
	token string
}

func newTestServer(t *testing.T, deps map[string]handlers.Pinger) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics(nil)

	repo := repository.NewMemoryCollaboratorRepository([]domain.Collaborator{
		{ID: "1", Name: "Ana Silva", Role: "Analyst", Status: "Trabalhando", Unit: "Unidade A"},
		{ID: "2", Name: "Carlos Santos", Role: "Manager", Status: "Demitido", Unit: "Unidade B"},
		{ID: "3", Name: "Beatriz Lima", Role: "Developer", Status: "Auxílio Doença", Unit: "Unidade A"},
	})
	rosterService := service.NewRosterService(service.RosterDependencies{
		Repo:         repo,
		Dispatcher:   events.NewInMemoryDispatcher(),
		Metrics:      metrics,
		Logger:       logger,
		DefaultPhoto: config.DefaultPhotoURL,
	})
	authService, err := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
		AdminUsername:         "admin",
		AdminPassword:         "pw",
	})
	require.NoError(t, err)

	if deps == nil {
		deps = map[string]handlers.Pinger{"store": repo}
	}

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("roster-service", "test", deps),
		Roster:         handlers.NewRosterHandler(rosterService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	token, _, err := authService.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)
	return &testServer{app: app, token: token}
}

func (s *testServer) do(t *testing.T, method, target string, body any, authed bool) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

type listData struct {
	Count int `json:"count"`
	Items []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		PhotoURL string `json:"photo_url"`
	} `json:"items"`
	Filter struct {
		Category string `json:"category"`
		Unit     string `json:"unit"`
	} `json:"filter"`
	Statistics struct {
		Total      int            `json:"total"`
		ByCategory map[string]int `json:"by_category"`
	} `json:"statistics"`
}

func TestListCollaborators(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, nethttp.MethodGet, "/api/v1/collaborators", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var all listData
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Equal(t, 3, all.Count)
	assert.Equal(t, "ALL", all.Filter.Category)
	assert.Equal(t, "All units", all.Filter.Unit)
	assert.Equal(t, config.DefaultPhotoURL, all.Items[0].PhotoURL)

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/collaborators?category=Trabalhando&unit=Unidade%20A", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var active listData
	require.NoError(t, json.Unmarshal(env.Data, &active))
	require.Equal(t, 1, active.Count)
	assert.Equal(t, "Ana Silva", active.Items[0].Name)
	assert.Equal(t, "ACTIVE", active.Items[0].Category)
	assert.Equal(t, 3, active.Statistics.Total, "statistics ignore the filter")
	assert.Equal(t, 1, active.Statistics.ByCategory["TERMINATED"])

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/collaborators?q=lima", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var byQuery listData
	require.NoError(t, json.Unmarshal(env.Data, &byQuery))
	assert.Equal(t, 1, byQuery.Count)
}

func TestListCollaborators_UnknownCategory(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, nethttp.MethodGet, "/api/v1/collaborators?category=bogus", nil, false)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "bogus", env.Error.Details["category"])
}

func TestCollaboratorLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	payload := map[string]string{"name": "Fabio Nunes", "email": "fabio@example.com", "role": "Analyst", "status": "Working"}

	status, _ := s.do(t, nethttp.MethodPost, "/api/v1/collaborators", payload, false)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, env := s.do(t, nethttp.MethodPost, "/api/v1/collaborators", payload, true)
	require.Equal(t, nethttp.StatusCreated, status)
	var created struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "ACTIVE", created.Category)

	status, _ = s.do(t, nethttp.MethodGet, "/api/v1/collaborators/"+created.ID, nil, false)
	assert.Equal(t, nethttp.StatusOK, status)

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/statistics", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var stats struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 4, stats.Total)

	status, _ = s.do(t, nethttp.MethodDelete, "/api/v1/collaborators/"+created.ID, nil, true)
	assert.Equal(t, nethttp.StatusNoContent, status)

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/collaborators/"+created.ID, nil, false)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestCreateCollaborator_Invalid(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, nethttp.MethodPost, "/api/v1/collaborators", map[string]string{"name": "x"}, true)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "required", env.Error.Details["email"])
	assert.Equal(t, "required", env.Error.Details["role"])
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, nethttp.MethodGet, "/api/v1/units", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var units []string
	require.NoError(t, json.Unmarshal(env.Data, &units))
	assert.Equal(t, []string{"All units", "Unidade A", "Unidade B"}, units)

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/categories", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var categories []struct {
		Code  string `json:"code"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	require.Len(t, categories, 6)
	assert.Equal(t, "ALL", categories[0].Code)
	assert.Equal(t, 3, categories[0].Count)

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/statuses?limit=2", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var groups []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	assert.Len(t, groups, 2)

	status, _ = s.do(t, nethttp.MethodGet, "/api/v1/statuses?limit=abc", nil, false)
	assert.Equal(t, nethttp.StatusBadRequest, status)

	status, _ = s.do(t, nethttp.MethodGet, "/api/v1/roles", nil, false)
	assert.Equal(t, nethttp.StatusOK, status)

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/diagnostics", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	var diag struct {
		StoreReachable bool              `json:"store_reachable"`
		Sample         []json.RawMessage `json:"sample"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &diag))
	assert.True(t, diag.StoreReachable)
	assert.Len(t, diag.Sample, 3)

	status, _ = s.do(t, nethttp.MethodPost, "/api/v1/roster/reload", nil, false)
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, nil)

	status, _ := s.do(t, nethttp.MethodPut, "/api/v1/dashboard/filter", map[string]string{"unit": "Unidade B"}, false)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, env := s.do(t, nethttp.MethodPut, "/api/v1/dashboard/filter", map[string]string{"category": "Demitidos", "unit": "Unidade B"}, true)
	require.Equal(t, nethttp.StatusOK, status)
	var dash listData
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 1, dash.Count)
	assert.Equal(t, "TERMINATED", dash.Filter.Category)

	status, env = s.do(t, nethttp.MethodGet, "/api/v1/dashboard", nil, false)
	require.Equal(t, nethttp.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, "Unidade B", dash.Filter.Unit)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, nethttp.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "pw"}, false)
	require.Equal(t, nethttp.StatusOK, status)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.NotEmpty(t, tok.Token)

	status, env = s.do(t, nethttp.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "nope"}, false)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, _ = s.do(t, nethttp.MethodPost, "/auth/login", map[string]string{}, false)
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, map[string]handlers.Pinger{
		"store": pingerFunc(func(context.Context) error { return nil }),
	})

	status, _ := s.do(t, nethttp.MethodGet, "/health/live", nil, false)
	assert.Equal(t, nethttp.StatusOK, status)
	status, _ = s.do(t, nethttp.MethodGet, "/health/ready", nil, false)
	assert.Equal(t, nethttp.StatusOK, status)

	resp, err := s.app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "roster_http_requests_total")
}

func TestReadiness_FailingDependency(t *testing.T) {
	s := newTestServer(t, map[string]handlers.Pinger{
		"store": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
		"redis": pingerFunc(func(context.Context) error { return nil }),
	})

	status, env := s.do(t, nethttp.MethodGet, "/health/ready", nil, false)
	assert.Equal(t, nethttp.StatusServiceUnavailable, status)
	assert.Equal(t, "connection refused", env.Error.Details["store"])
	assert.Equal(t, "ok", env.Error.Details["redis"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, nethttp.MethodGet, "/nope", nil, false)
	assert.Equal(t, nethttp.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestPanicRecovery(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(observability.RequestIDHeader))
}
