package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/service"
	"github.com/KunjGarala/Dayflow/pkg/response"
)

// HrHandler HR 账号 HTTP 处理器
type HrHandler struct {
	hrSvc service.HrService
}

// NewHrHandler 创建 HrHandler
func NewHrHandler(hrSvc service.HrService) *HrHandler {
	return &HrHandler{hrSvc: hrSvc}
}

// Signup HR 注册
// POST /api/v1/hr/signup
func (h *HrHandler) Signup(c *gin.Context) {
	var req dto.HrSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.hrSvc.Signup(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// Profile 当前 HR 资料
// GET /api/v1/hr/profile
func (h *HrHandler) Profile(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.hrSvc.Profile(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, profile)
}
