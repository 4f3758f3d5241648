package router_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/handle"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/router"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/storage/db"
	"github.com/yeisme/hydrogen/pkg/internal/storage/kv"
	"github.com/yeisme/hydrogen/pkg/internal/storage/s3"
	"github.com/yeisme/hydrogen/pkg/internal/types"
	"github.com/yeisme/hydrogen/pkg/middleware"
	"github.com/yeisme/hydrogen/pkg/rule"
)

const base = "/hydrogen-service"

type server struct {
	cfg    configs.AppConfig
	svc    *service.Services
	signer *auth.Signer
	engine *gin.Engine
}

func newServer(t *testing.T, mutate ...func(*configs.AppConfig)) *server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	rule.Init()

	cfg := configs.Defaults()
	cfg.App.Env = configs.EnvTest
	cfg.Auth.JWTSecret = "router-secret"
	cfg.Auth.HashCost = bcrypt.MinCost
	cfg.Metrics.Enabled = false
	cfg.Tracing.Enabled = false
	cfg.RateLimit.Enabled = false
	cfg.Server.Debug = false

	for _, m := range mutate {
		m(&cfg)
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	client, err := db.OpenMemory(context.Background(), name, model.All()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	repos := repository.New(client.GetDB())
	store := kv.NewMemory()

	s := &server{cfg: cfg, signer: auth.NewSigner(cfg.Auth, cfg.App.Name)}
	s.svc = service.New(service.Deps{
		Config: &s.cfg,
		Repos:  repos,
		Media:  s3.NewMedia(s3.NewMemoryStore(), cfg.S3),
		KV:     store,
		Signer: s.signer,
	})

	s.engine = gin.New()
	router.Setup(s.engine, router.Deps{
		Config:      &s.cfg,
		Handler:     handle.New(s.svc, handle.WithConfigSource(func() *configs.AppConfig { return &s.cfg })),
		Tokens:      s.signer,
		Users:       repos.Users,
		Permissions: s.svc.Resolver,
		KV:          store,
	})

	return s
}

// user 创建拥有指定权限的用户并返回其令牌.
func (s *server) user(t *testing.T, email string, perms ...string) string {
	t.Helper()

	ctx := context.Background()
	role := ""

	if len(perms) > 0 {
		for _, p := range perms {
			if _, err := s.svc.Permissions.Create(ctx, &types.CreatePermissionRequest{Name: p, Value: p}); err != nil {
				if e, ok := service.AsError(err); !ok || e.Status != http.StatusBadRequest {
					require.NoError(t, err)
				}
			}
		}

		role = "role-" + strings.Split(email, "@")[0]
		_, err := s.svc.Roles.Create(ctx, &types.CreateRoleRequest{Name: role, Value: role, Permissions: perms})
		require.NoError(t, err)
	}

	u, err := s.svc.Users.Create(ctx, &types.CreateUserRequest{
		Email: email, Password: "Str0ng!Pass", FullName: "Router Test", Role: role,
	})
	require.NoError(t, err)

	token, err := s.signer.Generate(auth.ClaimsData{Email: u.Email, UserID: u.ID})
	require.NoError(t, err)

	return token
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		b, _ := sonic.Marshal(body)
		buf.Write(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4000"

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w
}

func firstMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp types.ErrorResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotEmpty(t, resp.Errors)

	return resp.Errors[0].Msg
}

func TestPublicRoutes(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, base+"/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = s.do(http.MethodGet, base+"/probeCheck", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/probeCheck", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not Found"}`, w.Body.String())
}

func TestSwaggerOnlyInDebug(t *testing.T) {
	s := newServer(t)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/swagger/index.html", "", nil).Code)

	s = newServer(t, func(c *configs.AppConfig) { c.Server.Debug = true })
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/swagger/index.html", "", nil).Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, base+"/getUsers", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgTokenMissing, firstMsg(t, w))
}

func TestProtectedRouteRejectsMissingPermission(t *testing.T) {
	s := newServer(t)
	token := s.user(t, "viewer@example.com", model.PermTagView)

	w := s.do(http.MethodGet, base+"/getUsers", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MsgNotAuthorized, firstMsg(t, w))
}

func TestGateRequiresEveryPermission(t *testing.T) {
	s := newServer(t)

	partial := s.user(t, "partial@example.com", model.PermTagView)
	w := s.do(http.MethodGet, base+"/getTags", partial, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	full := s.user(t, "full@example.com", model.PermSystemAdmin, model.PermTagView)
	w = s.do(http.MethodGet, base+"/getTags", full, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminCanManageRBAC(t *testing.T) {
	s := newServer(t)
	token := s.user(t, "admin@example.com", model.PermSystemAdmin)

	w := s.do(http.MethodPost, base+"/createPermission", token, map[string]any{"name": "Tag view", "value": "TAG_VIEW"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, base+"/createRole", token, map[string]any{
		"name": "Curator", "value": "curator", "permissions": []string{"TAG_VIEW"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, base+"/getRoles", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "curator")

	w = s.do(http.MethodDelete, base+"/deleteRole/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgRoleNoDelete, firstMsg(t, w))
}

func TestSystemAdminRoutes(t *testing.T) {
	s := newServer(t)
	token := s.user(t, "ops@example.com", model.PermSystemAdmin)

	w := s.do(http.MethodGet, base+"/getIp", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	w = s.do(http.MethodGet, base+"/getConfiguration", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "router-secret")

	w = s.do(http.MethodGet, base+"/getJobs", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDevelopmentBypassesAuth(t *testing.T) {
	s := newServer(t, func(c *configs.AppConfig) { c.App.Env = configs.EnvDevelopment })

	w := s.do(http.MethodGet, base+"/getUsers", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAuthRoutesArePublic(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, base+"/signUp", "", map[string]any{
		"email": "new@example.com", "password": "Str0ng!Pass", "fullName": "New User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, base+"/login", "", map[string]any{"email": "new@example.com", "password": "Str0ng!Pass"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRateLimitApplies(t *testing.T) {
	s := newServer(t, func(c *configs.AppConfig) {
		c.RateLimit.Enabled = true
		c.RateLimit.Max = 2
		c.RateLimit.LoginRPS = 0
	})

	for range 2 {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, base+"/probeCheck", "", nil).Code)
	}

	w := s.do(http.MethodGet, base+"/probeCheck", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, middleware.MsgTooManyRequests, firstMsg(t, w))
}

func TestHealthRoutes(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, base+"/health/db", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
