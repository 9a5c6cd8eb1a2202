package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"profilehub/internal/authz"
	"profilehub/internal/dto"
	"profilehub/internal/entity"
	"profilehub/internal/metrics"
	"profilehub/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var testTokens = utils.TokenManager{Secret: []byte("middleware-secret")}

func newTestEcho(logger logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logger)
	return e
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorEnvelope {
	t.Helper()
	var body dto.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthAndRole(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e := newTestEcho(logger)
	auth := AuthMiddleware{Tokens: testTokens}

	e.GET("/me", func(c echo.Context) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return errors.New("identity missing")
		}
		return c.String(http.StatusOK, identity.Email)
	}, auth.RequireAuth)
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, auth.RequireAuth, RequireRole(entity.UserRoleAdmin))
	e.GET("/open-admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireRole(entity.UserRoleAdmin))

	userID := uuid.NewString()
	userToken, _, err := testTokens.IssueSessionToken(userID, "u@x.com", "User", "user")
	require.NoError(t, err)
	adminToken, _, err := testTokens.IssueSessionToken(uuid.NewString(), "root@x.com", "Root", "admin")
	require.NoError(t, err)
	verifyToken, _, err := testTokens.IssueEmailVerifyToken(userID, "u@x.com")
	require.NoError(t, err)
	foreign, _, err := utils.TokenManager{Secret: []byte("other")}.IssueSessionToken(userID, "u@x.com", "User", "admin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"session token", "/me", userToken, http.StatusOK},
		{"verify token is not a session", "/me", verifyToken, http.StatusUnauthorized},
		{"foreign signature", "/me", foreign, http.StatusUnauthorized},
		{"garbage", "/me", "abc.def.ghi", http.StatusUnauthorized},
		{"user on admin route", "/admin", userToken, http.StatusForbidden},
		{"admin on admin route", "/admin", adminToken, http.StatusNoContent},
		{"no identity on role gate", "/open-admin", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, http.MethodGet, tt.path, tt.token)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status >= 400 {
				body := decodeFailure(t, rec)
				assert.False(t, body.Success)
				assert.NotEmpty(t, body.Message)
			}
		})
	}

	rec := serve(e, http.MethodGet, "/me", userToken)
	assert.Equal(t, "u@x.com", rec.Body.String())
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"Bearer":          "",
		"Basic abc":       "",
		"bearer  tok ":    "tok",
		"Bearer tok.en.x": "tok.en.x",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		assert.Equal(t, want, extractBearerToken(req), header)
	}
}

func TestUserIDFromContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := UserIDFromContext(c)
	assert.False(t, ok)

	id := uuid.New()
	SetIdentity(c, &authz.Identity{UserID: id, Role: entity.UserRoleUser})
	got, ok := UserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestRateLimiter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e := newTestEcho(logger)
	limiter := NewRateLimiter(rate.Limit(1), 2, time.Minute)
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	e.POST("/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, limiter.Middleware())

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))

	now = now.Add(2 * time.Minute)
	hit("10.0.0.3")
	assert.Equal(t, 1, limiter.size())
}

func TestMetricsMiddleware(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e := newTestEcho(logger)
	m := metrics.New()
	e.Use(Metrics(m))
	e.GET("/users/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusForbidden, "no") })

	serve(e, http.MethodGet, "/users/42", "")
	serve(e, http.MethodGet, "/users/43", "")
	serve(e, http.MethodGet, "/fail", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/users/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/fail", "GET", "403")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestErrorHandler(t *testing.T) {
	logger, hook := test.NewNullLogger()
	e := newTestEcho(logger)
	e.GET("/boom", func(c echo.Context) error {
		return oops.In("user_repository").With("user_id", "42").Wrapf(errors.New("db down"), "find user")
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := serve(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeFailure(t, rec)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "db down")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "user_repository", entry.Data["domain"])

	rec = serve(e, http.MethodGet, "/teapot", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", decodeFailure(t, rec).Message)

	rec = serve(e, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route GET /nowhere not found", decodeFailure(t, rec).Message)
}
