package controllers

import (
	"tableorder/pkg/resp"
	"tableorder/services"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Dashboard *services.DashboardService
	Staff     *services.StaffService
}

func NewAdminController(dash *services.DashboardService, staff *services.StaffService) *AdminController {
	return &AdminController{Dashboard: dash, Staff: staff}
}

// GET /api/admin/dashboard
func (a *AdminController) Overview(c *gin.Context) {
	d, err := a.Dashboard.Dashboard(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, d)
}

// GET /api/admin/analytics?period=7d|30d|90d
func (a *AdminController) Analytics(c *gin.Context) {
	out, err := a.Dashboard.Analytics(c.Request.Context(), c.DefaultQuery("period", "7d"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/admin/service-calls
func (a *AdminController) ServiceCalls(c *gin.Context) {
	calls, err := a.Dashboard.PendingServiceCalls(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, calls)
}

// GET /api/admin/staff
func (a *AdminController) ListStaff(c *gin.Context) {
	staff, err := a.Staff.List(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, staff)
}

// POST /api/admin/staff
func (a *AdminController) CreateStaff(c *gin.Context) {
	var req services.CreateStaffReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	s, err := a.Staff.Create(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, s)
}

// PUT /api/admin/staff/:id
func (a *AdminController) UpdateStaff(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateStaffReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	s, err := a.Staff.Update(c.Request.Context(), utils.CurrentStaffID(c), id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, s)
}

// DELETE /api/admin/staff/:id
func (a *AdminController) DeleteStaff(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := a.Staff.Delete(c.Request.Context(), utils.CurrentStaffID(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Staff member deleted successfully"})
}
