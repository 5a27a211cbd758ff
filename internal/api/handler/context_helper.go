package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KunjGarala/Dayflow/internal/api/middleware"
	"github.com/KunjGarala/Dayflow/internal/auth"
	"github.com/KunjGarala/Dayflow/pkg/response"
)

// MustGetPrincipal 从 Gin 上下文中安全提取请求主体。
// 如果认证中间件未注入主体，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetPrincipal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok || p.UserID == "" {
		response.Unauthorized(c, 10002, "未认证")
		return auth.Principal{}, false
	}
	return p, true
}

// parseYearMonth 解析路径参数 :year / :month；非法时写入 400
func parseYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.BadRequest(c, 10001, "年份格式无效")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		response.BadRequest(c, 10001, "月份格式无效")
		return 0, 0, false
	}
	return year, month, true
}
