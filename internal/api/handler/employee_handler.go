package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/service"
	"github.com/KunjGarala/Dayflow/pkg/response"
)

// EmployeeHandler 员工管理 HTTP 处理器（HR 侧）
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// Create 创建员工；响应中包含一次性临时密码
// POST /api/v1/hr/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.employeeSvc.Create(c.Request.Context(), p.UserID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// List 当前 HR 名下员工
// GET /api/v1/hr/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.employeeSvc.List(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

// Get 员工详情
// GET /api/v1/hr/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	emp, err := h.employeeSvc.Get(c.Request.Context(), p.UserID, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, emp)
}
