package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/service"
	"github.com/KunjGarala/Dayflow/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// ──────────────────────────── 员工侧 ────────────────────────────

// Create 提交请假申请
// POST /api/v1/leave-requests
func (h *LeaveHandler) Create(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.Create(c.Request.Context(), p.UserID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// ListMine 我的请假（分页，新到旧）
// GET /api/v1/leave-requests/my-leaves
func (h *LeaveHandler) ListMine(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.leaveSvc.ListMine(c.Request.Context(), p.UserID, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// GetMine 我的请假详情
// GET /api/v1/leave-requests/my-leaves/:id
func (h *LeaveHandler) GetMine(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.GetMine(c.Request.Context(), p.UserID, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, leave)
}

// Cancel 撤销待审批的请假
// PUT /api/v1/leave-requests/:id/cancel
func (h *LeaveHandler) Cancel(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Cancel(c.Request.Context(), p.UserID, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, leave)
}

// Stats 某类假期当年已批准的工作日数
// GET /api/v1/leave-requests/stats?leave_type=&year=
func (h *LeaveHandler) Stats(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var q dto.LeaveStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	stats, err := h.leaveSvc.UsedLeaveCount(c.Request.Context(), p.UserID, &q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, stats)
}

// Calendar 已批准请假的 iCalendar 订阅
// GET /api/v1/leave-requests/calendar.ics
func (h *LeaveHandler) Calendar(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	data, err := h.leaveSvc.Calendar(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="leaves.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// ──────────────────────────── HR 侧 ────────────────────────────

// ListAll 名下全部请假（分页，新到旧）
// GET /api/v1/leave-requests
func (h *LeaveHandler) ListAll(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.leaveSvc.ListAll(c.Request.Context(), p.UserID, &page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// ListPending 待审批（旧到新）
// GET /api/v1/leave-requests/pending
func (h *LeaveHandler) ListPending(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.leaveSvc.ListPending(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

// Filter 按日期区间与状态筛选
// GET /api/v1/leave-requests/filter?start_date=&end_date=&status=
func (h *LeaveHandler) Filter(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var f dto.LeaveRangeFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.leaveSvc.Filter(c.Request.Context(), p.UserID, &f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

// Get 请假详情
// GET /api/v1/leave-requests/:id
func (h *LeaveHandler) Get(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.GetForHr(c.Request.Context(), p.UserID, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, leave)
}

// Decide 审批
// PUT /api/v1/leave-requests/:id/status
func (h *LeaveHandler) Decide(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	leave, err := h.leaveSvc.Decide(c.Request.Context(), p.UserID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, leave)
}
