package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/internal/auth"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
	"github.com/KunjGarala/Dayflow/pkg/response"
)

// PrincipalKey gin.Context 中保存 auth.Principal 的键
const PrincipalKey = "principal"

// Authenticate 解析请求主体
//
// 依次读取 Authorization: Bearer <token> 与名为 cookieName 的 Cookie。
// 无凭证或凭证无效时以匿名身份继续，由 RequireAuth / RequireRole 决定是否拒绝。
// 已绑定主体时直接放行。
func Authenticate(jwtMgr *jwt.Manager, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); ok {
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cookieName != "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtMgr.Verify(token)
		if err != nil {
			logger.Debug("Token 校验失败，按匿名处理", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.Next()
			return
		}
		role, err := auth.ParseRole(claims.Role)
		if err != nil {
			logger.Debug("Token 角色无效，按匿名处理", zap.String("role", claims.Role))
			c.Next()
			return
		}

		p := auth.Principal{UserID: claims.UserID, Subject: claims.Subject, Role: role}
		c.Set(PrincipalKey, p)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))

		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetPrincipal 读取当前请求主体；gin.Context 中没有时再查 request context
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p, true
		}
	}
	return auth.FromContext(c.Request.Context())
}

// RequireAuth 拒绝匿名请求
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); !ok {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole 仅允许指定角色访问；匿名 401，角色不符 403
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	var allowHR, allowEmployee bool
	for _, r := range roles {
		switch r {
		case auth.RoleHR:
			allowHR = true
		case auth.RoleEmployee:
			allowEmployee = true
		case auth.RoleUnknown:
		}
	}

	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		var allowed bool
		switch p.Role {
		case auth.RoleHR:
			allowed = allowHR
		case auth.RoleEmployee:
			allowed = allowEmployee
		case auth.RoleUnknown:
			allowed = false
		}
		if !allowed {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}
