package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/internal/auth"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret: "middleware-test-secret-key-2026-dayflow",
		TokenTTL:  time.Hour,
		ClockSkew: time.Minute,
	})
}

// newAuthRouter 挂载 Authenticate 与给定守卫，/probe 返回当前主体角色
func newAuthRouter(mgr *jwt.Manager, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(mgr, "accessToken", zap.NewNop()))
	handlers := append(guards, func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		ctxP, _ := auth.FromContext(c.Request.Context())
		c.String(http.StatusOK, p.Role.String()+"|"+ctxP.UserID)
	})
	r.GET("/probe", handlers...)
	return r
}

func issue(t *testing.T, mgr *jwt.Manager, role string) string {
	t.Helper()
	token, _, err := mgr.Issue("user@acme.io", "user-1", role)
	if err != nil {
		t.Fatalf("签发 Token 失败: %v", err)
	}
	return token
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	mgr := newTestJWTManager()
	r := newAuthRouter(mgr)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, mgr, "HR"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "HR|user-1" {
		t.Errorf("期望 HR|user-1，实际 %s", w.Body.String())
	}
}

func TestAuthenticate_CookieFallback(t *testing.T) {
	mgr := newTestJWTManager()
	r := newAuthRouter(mgr)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: issue(t, mgr, "EMPLOYEE")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "EMPLOYEE|user-1" {
		t.Errorf("期望 EMPLOYEE|user-1，实际 %s", w.Body.String())
	}
}

func TestAuthenticate_InvalidTokenIsAnonymous(t *testing.T) {
	r := newAuthRouter(newTestJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Errorf("期望匿名放行，实际 %d %s", w.Code, w.Body.String())
	}
}

func TestAuthenticate_Idempotent(t *testing.T) {
	mgr := newTestJWTManager()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(PrincipalKey, auth.Principal{UserID: "pre-bound", Role: auth.RoleHR})
		c.Next()
	})
	r.Use(Authenticate(mgr, "accessToken", zap.NewNop()))
	r.GET("/probe", func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.String(http.StatusOK, p.UserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, mgr, "EMPLOYEE"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "pre-bound" {
		t.Errorf("期望保留已绑定主体，实际 %s", w.Body.String())
	}
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	r := newAuthRouter(newTestJWTManager(), RequireAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	mgr := newTestJWTManager()
	r := newAuthRouter(mgr, RequireRole(auth.RoleHR))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"匿名", "", http.StatusUnauthorized},
		{"员工访问 HR 接口", issue(t, mgr, "EMPLOYEE"), http.StatusForbidden},
		{"HR", issue(t, mgr, "HR"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("期望 %d，实际 %d", tt.status, w.Code)
			}
		})
	}
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("第 %d 次请求期望 204，实际 %d", i+1, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/probe", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("期望沿用外部 Request-ID，实际 %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if len(w.Body.String()) != 36 {
		t.Errorf("期望生成 UUID，实际 %q", w.Body.String())
	}
}

func TestGetPrincipal_FromRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		p := auth.Principal{UserID: "ctx-bound", Role: auth.RoleEmployee}
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	})
	r.GET("/probe", RequireRole(auth.RoleEmployee), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.String(http.StatusOK, p.UserID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ctx-bound" {
		t.Errorf("期望读取 request context 中的主体，实际 %d %s", w.Code, w.Body.String())
	}
}
