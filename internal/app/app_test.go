package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/taskboard-backend/internal/auth"
	"github.com/heartmarshall/taskboard-backend/internal/config"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
	"github.com/heartmarshall/taskboard-backend/internal/transport/middleware"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
		Auth: config.AuthConfig{
			JWTSecret:      testSecret,
			JWTIssuer:      "taskboard",
			AccessTokenTTL: time.Hour,
		},
		Quota: config.QuotaConfig{MaxFreeBoards: 2},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
		},
		RateLimit: config.RateLimitConfig{ActionsPerMinute: 600, CleanupInterval: time.Minute},
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return newTestHandlerWith(t, testConfig())
}

func newTestHandlerWith(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	be, err := newBackend(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(be.close)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	return newHandler(cfg, slog.Default(), be, limiter)
}

func bearer(t *testing.T, orgID string) string {
	t.Helper()
	token, err := auth.NewJWTManager(testSecret, "taskboard", time.Hour).GenerateToken(domain.Identity{
		UserID: "user_1", OrgID: orgID, FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHandler_Health(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, rec.Body.String(), `"memory"`)
}

func TestHandler_ActionRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	body := `{"title":"Roadmap","image":"id|https://t.example.com|https://f.example.com|<a>x</a>|Jane"}`

	req := httptest.NewRequest(http.MethodPost, "/api/actions/create-board", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, "org_1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "Roadmap", out.Data.Title)

	req = httptest.NewRequest(http.MethodGet, "/api/boards/"+out.Data.ID, nil)
	req.Header.Set("Authorization", bearer(t, "org_1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/quota", nil)
	req.Header.Set("Authorization", bearer(t, "org_1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"count":1,"max":2,"remaining":1}`, rec.Body.String())
}

func TestHandler_AnonymousAction(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/actions/delete-board", strings.NewReader(`{"id":"x"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"fieldErrors":{"id":["Invalid uuid"]}}`, rec.Body.String())
}

func TestHandler_InvalidToken(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second, slog.Default()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestHandler_CORSFollowsConfig(t *testing.T) {
	tests := []struct {
		name       string
		origins    string
		wantOrigin string
		wantStatus int
	}{
		{name: "configured origins", origins: "https://boards.example.com", wantOrigin: "https://boards.example.com", wantStatus: http.StatusNoContent},
		{name: "same origin only", origins: "", wantOrigin: "", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.CORS.AllowedOrigins = tt.origins
			h := newTestHandlerWith(t, cfg)

			req := httptest.NewRequest(http.MethodOptions, "/api/actions/create-board", nil)
			req.Header.Set("Origin", "https://boards.example.com")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
