package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/config"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/observability"
	"loan-broker/internal/models"
	notifydecision "loan-broker/internal/operations/application/notify-decision"
	"loan-broker/internal/search"
	"loan-broker/internal/store/storetest"
)

// ==========================
// Test Helper Functions
// ==========================

type testEnv struct {
	server   *Server
	db       sqlmock.Sqlmock
	redis    *miniredis.Miniredis
	sessions *auth.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	db, sqlMock := storetest.NewMock(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)
	cfg := &config.Config{
		App:       config.AppConfig{Name: "loan-broker", Environment: config.EnvTest},
		Session:   config.SessionConfig{Secret: "test-secret", CookieName: "__session", TTL: 3600, RememberTTL: 7200},
		RateLimit: config.RateLimitConfig{LoginAttempts: 5, LoginWindow: 900},
	}
	sessions := auth.NewSessionManager(client, cfg.Session)

	server := NewServer(Deps{
		Config:        cfg,
		DB:            db,
		Redis:         client,
		Sessions:      sessions,
		LoginLimiter:  auth.NewLoginLimiter(client, 5, 15*time.Minute, log),
		Hasher:        auth.BcryptHasher{Cost: 4},
		Index:         search.NewIndex(nil, "", log),
		Notifier:      notifydecision.NewHandler(notifydecision.LoadConfig(config.NotificationConfig{}), nil, nil, log),
		Observability: observability.NewNoop(),
		Logger:        log,
	})
	return &testEnv{server: server, db: sqlMock, redis: mr, sessions: sessions}
}

// signIn creates a session for u and queues the lookup the session middleware runs.
func (e *testEnv) signIn(t *testing.T, req *http.Request, u models.CurrentUser) {
	session, err := e.sessions.Create(context.Background(), u.ID, false)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "__session", Value: session.Token})
	e.db.ExpectQuery(`FROM users u LEFT JOIN lenders l`).
		WithArgs(u.ID).
		WillReturnRows(storetest.CurrentUserRows(u))
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeActionData(t *testing.T, rec *httptest.ResponseRecorder) ActionData {
	var body ActionData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ==========================
// Infrastructure Routes
// ==========================

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestServer_Ready(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	env.redis.Close()
	rec = env.serve(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"not ready"`)
}

func TestServer_Metrics(t *testing.T) {
	env := newTestEnv(t)

	env.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	rec := env.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

// ==========================
// Routing Errors
// ==========================

func TestServer_InvalidID(t *testing.T) {
	tests := []string{"/applications/abc", "/lenders/0", "/applications/-3"}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.serve(httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, apperrors.MsgInvalidID, decodeActionData(t, rec).FormError)
		})
	}
}

func TestServer_InvalidMethod(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodPut, "/lenders", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, apperrors.MsgInvalidMethod, decodeActionData(t, rec).FormError)
}

func TestServer_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// Sessions
// ==========================

func TestServer_MyAccountRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/my-account", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperrors.MsgUnauthorised, decodeActionData(t, rec).FormError)
}

func TestServer_MyAccountWithSession(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/my-account", nil)
	env.signIn(t, req, models.CurrentUser{ID: 7, FullName: "You Applicant", EmailAddress: "you@example.com", Kind: models.KindApplicant})

	rec := env.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"emailAddress":"you@example.com"`)
}

func TestServer_StaleCookieIsCleared(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/my-account", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: "not-a-token"})

	rec := env.serve(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "__session", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestServer_LoginSetsCookie(t *testing.T) {
	env := newTestEnv(t)
	hash, err := auth.BcryptHasher{Cost: 4}.Hash("jarnbjorn@8901")
	require.NoError(t, err)

	env.db.ExpectQuery(`FROM users WHERE email_address = \$1`).
		WithArgs("you@example.com").
		WillReturnRows(storetest.UserRows(models.User{
			ID: 7, EmailAddress: "you@example.com", FullName: "You Applicant", HashedPassword: hash, Kind: models.KindApplicant,
		}))

	rec := env.serve(postForm("/login", url.Values{
		"emailAddress": {"You@Example.com"},
		"password":     {"jarnbjorn@8901"},
		"redirectTo":   {"/applications"},
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"redirectTo":"/applications"`)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "__session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	userID, err := env.sessions.Resolve(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestServer_LoginFailureEchoesFieldsWithoutPassword(t *testing.T) {
	env := newTestEnv(t)
	env.db.ExpectQuery(`FROM users WHERE email_address = \$1`).
		WillReturnRows(sqlmock.NewRows(storetest.UserColumns))

	rec := env.serve(postForm("/login", url.Values{
		"emailAddress": {"nobody@example.com"},
		"password":     {"secret"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeActionData(t, rec)
	assert.Equal(t, "Incorrect credentials", body.FormError)
	assert.Equal(t, "nobody@example.com", body.Fields["emailAddress"])
	assert.NotContains(t, body.Fields, "password")
}

func TestServer_Logout(t *testing.T) {
	env := newTestEnv(t)
	req := postForm("/logout", url.Values{})
	env.signIn(t, req, models.CurrentUser{ID: 7, Kind: models.KindApplicant})

	rec := env.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.redis.Keys())
}

// ==========================
// Authorisation
// ==========================

func TestServer_AdminRoutesRejectApplicants(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/lenders", nil)
	env.signIn(t, req, models.CurrentUser{ID: 7, Kind: models.KindApplicant})

	rec := env.serve(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_SearchUnavailableWithoutIndex(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/applications/search?q=teacher", nil)
	env.signIn(t, req, models.CurrentUser{ID: 1, Kind: models.KindAdmin})

	rec := env.serve(req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Search is not available", decodeActionData(t, rec).FormError)
}

func TestServer_ApplicationActionValidatesActionID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(postForm("/applications/42", url.Values{"actionId": {"Escalate"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid option", decodeActionData(t, rec).FieldErrors["actionId"])
}

func TestServer_ApplicationActionDeleteByLender(t *testing.T) {
	env := newTestEnv(t)
	req := postForm("/applications/42", url.Values{"actionId": {ActionDelete}})
	env.signIn(t, req, models.CurrentUser{ID: 101, Kind: models.KindLender, LenderID: 1})
	env.db.ExpectQuery(`FROM applications WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(storetest.ApplicationRows(storetest.Application(42, 7)))

	rec := env.serve(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
