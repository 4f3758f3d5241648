package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/cache"
	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/storage/kv"
	"github.com/yeisme/hydrogen/pkg/internal/types"
	"github.com/yeisme/hydrogen/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	prodApp = configs.AppSection{Name: "hydrogen", Env: configs.EnvProduction}
	devApp  = configs.AppSection{Name: "hydrogen", Env: configs.EnvDevelopment}
)

type fakeUsers map[string]*model.User

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}

	return nil, repository.ErrNotFound
}

type fakePerms struct {
	perms map[string][]string
	err   error
}

func (f fakePerms) Resolve(_ context.Context, email string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	p, ok := f.perms[email]
	if !ok {
		return nil, service.ErrUserLookup
	}

	return p, nil
}

func newSigner() *auth.Signer {
	return auth.NewSigner(configs.AuthConfig{JWTSecret: "test-secret", TokenExpiry: 60}, "hydrogen")
}

func token(t *testing.T, s *auth.Signer, email string) string {
	t.Helper()

	tok, err := s.Generate(auth.ClaimsData{Email: email, UserID: 1})
	require.NoError(t, err)

	return tok
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()

	var body types.ErrorResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)

	return body
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func authEngine(app configs.AppSection, signer *auth.Signer, users fakeUsers) *gin.Engine {
	r := gin.New()
	r.GET("/private", middleware.Authenticate(app, signer, users), func(c *gin.Context) {
		claims, _ := middleware.ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})

	return r
}

func TestAuthenticate(t *testing.T) {
	signer := newSigner()
	users := fakeUsers{"ann@example.com": {Email: "ann@example.com"}}
	r := authEngine(prodApp, signer, users)

	expired := newSigner()
	expired.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	foreign := auth.NewSigner(configs.AuthConfig{JWTSecret: "other", TokenExpiry: 60}, "hydrogen")

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, middleware.MsgTokenMissing},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, middleware.MsgInvalidFormat},
		{"too many parts", "Bearer a b", http.StatusUnauthorized, middleware.MsgInvalidFormat},
		{"expired", "Bearer " + token(t, expired, "ann@example.com"), http.StatusForbidden, middleware.MsgTokenExpired},
		{"foreign", "Bearer " + token(t, foreign, "ann@example.com"), http.StatusForbidden, middleware.MsgTokenForeign},
		{"unknown user", "Bearer " + token(t, signer, "bob@example.com"), http.StatusForbidden, middleware.MsgTokenMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := serve(r, req)
			require.Equal(t, tt.status, w.Code)

			body := decodeErrors(t, w)
			assert.Equal(t, http.StatusText(tt.status), body.Errors[0].Value)
			assert.Equal(t, tt.msg, body.Errors[0].Msg)
		})
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, signer, "ann@example.com"))

		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"email":"ann@example.com"}`, w.Body.String())
	})
}

func TestAuthenticateDevelopmentBypass(t *testing.T) {
	r := authEngine(devApp, newSigner(), fakeUsers{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissions(t *testing.T) {
	signer := newSigner()
	users := fakeUsers{
		"admin@example.com":  {Email: "admin@example.com"},
		"viewer@example.com": {Email: "viewer@example.com"},
		"ghost@example.com":  {Email: "ghost@example.com"},
	}
	perms := fakePerms{perms: map[string][]string{
		"admin@example.com":  {"SYSTEM_ADMIN", "TAG_VIEW", "TAG_CREATE"},
		"viewer@example.com": {"TAG_VIEW"},
	}}

	r := gin.New()
	r.POST("/createTag",
		middleware.Authenticate(prodApp, signer, users),
		middleware.RequirePermissions(prodApp, perms, "SYSTEM_ADMIN", "TAG_CREATE"),
		func(c *gin.Context) { c.Status(http.StatusCreated) })

	call := func(email string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/createTag", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, signer, email))

		return serve(r, req)
	}

	assert.Equal(t, http.StatusCreated, call("admin@example.com").Code)

	w := call("viewer@example.com")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgNotAuthorized, decodeErrors(t, w).Errors[0].Msg)

	w = call("ghost@example.com")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, service.ErrUserLookup.Message, decodeErrors(t, w).Errors[0].Msg)
}

func TestRequirePermissionsResolverFailure(t *testing.T) {
	signer := newSigner()
	users := fakeUsers{"ann@example.com": {Email: "ann@example.com"}}

	r := gin.New()
	r.GET("/getRoles",
		middleware.Authenticate(prodApp, signer, users),
		middleware.RequirePermissions(prodApp, fakePerms{err: errors.New("db down")}, "SYSTEM_ADMIN"),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/getRoles", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, signer, "ann@example.com"))

	w := serve(r, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgNotAuthorized, decodeErrors(t, w).Errors[0].Msg)
}

func TestRequirePermissionsDevelopmentBypass(t *testing.T) {
	r := gin.New()
	r.GET("/getRoles",
		middleware.RequirePermissions(devApp, fakePerms{}, "SYSTEM_ADMIN"),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/getRoles", nil)).Code)
}

func TestRateLimitFixedWindow(t *testing.T) {
	store := kv.NewMemory()
	now := time.Date(2026, 1, 1, 10, 0, 10, 0, time.UTC)
	cfg := configs.RateLimitConfig{Enabled: true, Window: time.Minute, Max: 2}

	r := gin.New()
	r.Use(middleware.RateLimit(cfg, store, middleware.WithRateLimitClock(func() time.Time { return now })))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"

		return serve(r, req)
	}

	w := call("10.0.0.1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("RateLimit-Remaining"))
	assert.Equal(t, "50", w.Header().Get("RateLimit-Reset"))

	require.Equal(t, http.StatusOK, call("10.0.0.1").Code)

	w = call("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))
	assert.Equal(t, middleware.MsgTooManyRequests, decodeErrors(t, w).Errors[0].Msg)

	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code, "other clients keep their own counter")

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code, "a new window resets the counter")

	keys, err := store.Keys(context.Background(), "ratelimit:10.0.0.1:*")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimit(configs.RateLimitConfig{Enabled: false, Window: time.Minute, Max: 1}, kv.NewMemory()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 3 {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("RateLimit-Limit"))
	}
}

func TestLoginGuard(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.LoginGuard(configs.RateLimitConfig{Enabled: true, LoginRPS: 0.001, LoginBurst: 2}),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestErrorHandler(t *testing.T) {
	boom := errors.New("select failed: connection refused")

	tests := []struct {
		name       string
		production bool
		want       string
	}{
		{"production hides details", true, "Internal Server Error"},
		{"development shows details", false, boom.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.ErrorHandler(tt.production))
			r.GET("/", func(c *gin.Context) { _ = c.Error(boom) })

			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusInternalServerError, w.Code)

			var body types.InternalErrorResponse
			require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Error)
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(true))
	r.GET("/", func(*gin.Context) { panic("nil map") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{true, false} {
		r := gin.New()
		r.Use(middleware.SecurityHeaders(production))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
		assert.Equal(t, "off", w.Header().Get("X-DNS-Prefetch-Control"))
		assert.Equal(t, production, w.Header().Get("Strict-Transport-Security") != "")
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(middleware.HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-1")
	assert.Equal(t, "req-1", serve(r, req).Header().Get(middleware.HeaderRequestID))
}

func TestCORSAllowsFrontendOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware(configs.AppSection{FrontendOrigin: "https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	assert.Equal(t, "https://app.example.com", serve(r, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestCircuitBreakerOpensOnServerErrors(t *testing.T) {
	cfg := configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       2,
		IntervalSeconds:   60,
		TimeoutSeconds:    60,
		MaxRequestsInHalf: 1,
	}

	calls := 0
	r := gin.New()
	r.GET("/", middleware.CircuitBreakerMiddleware("content", cfg), func(c *gin.Context) {
		calls++
		c.Status(http.StatusInternalServerError)
	})

	for range 2 {
		assert.Equal(t, http.StatusInternalServerError, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, middleware.MsgServiceUnavailable, decodeErrors(t, w).Errors[0].Msg)
	assert.Equal(t, 2, calls)
}

func TestResponseCache(t *testing.T) {
	store := cache.NewCache(kv.NewMemory(), cache.WithPrefix("rc:"))

	calls := 0
	r := gin.New()
	r.GET("/health/db", middleware.ResponseCache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"component": "db", "status": "ok"})
	})

	first := serve(r, httptest.NewRequest(http.MethodGet, "/health/db", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := serve(r, httptest.NewRequest(http.MethodGet, "/health/db", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
	req.Header.Set("If-None-Match", second.Header().Get("ETag"))
	assert.Equal(t, http.StatusNotModified, serve(r, req).Code)
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	store := cache.NewCache(kv.NewMemory())

	calls := 0
	r := gin.New()
	r.GET("/health/s3", middleware.ResponseCache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/health/s3", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/health/s3", nil))

	assert.Equal(t, 2, calls)
}
