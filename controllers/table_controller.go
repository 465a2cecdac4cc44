package controllers

import (
	"tableorder/entity"
	"tableorder/pkg/resp"
	"tableorder/services"

	"github.com/gin-gonic/gin"
)

type TableController struct{ Svc *services.TableService }

func NewTableController(svc *services.TableService) *TableController {
	return &TableController{Svc: svc}
}

// GET /api/tables/:tableNumber
func (tc *TableController) Get(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	view, err := tc.Svc.View(c.Request.Context(), n)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, view)
}

// GET /api/tables
func (tc *TableController) List(c *gin.Context) {
	tables, err := tc.Svc.List(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, tables)
}

// POST /api/tables
func (tc *TableController) Create(c *gin.Context) {
	var req services.CreateTableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := tc.Svc.Create(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, t)
}

// PUT /api/tables/:id
func (tc *TableController) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := tc.Svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, t)
}

// DELETE /api/tables/:id
func (tc *TableController) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := tc.Svc.Delete(c.Request.Context(), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Table deleted successfully"})
}

// GET /api/tables/:tableNumber/qr
func (tc *TableController) QR(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	qr, err := tc.Svc.QR(c.Request.Context(), n)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, qr)
}

type tableStatusReq struct {
	Status entity.TableStatus `json:"status" binding:"required"`
}

// PATCH /api/tables/:tableNumber/status
func (tc *TableController) SetStatus(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	var req tableStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := tc.Svc.SetStatus(c.Request.Context(), n, req.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, t)
}

type serviceCallReq struct {
	Message string `json:"message"`
}

// POST /api/tables/:tableNumber/service
func (tc *TableController) CallService(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	var req serviceCallReq
	// body is optional
	_ = c.ShouldBindJSON(&req)

	call, err := tc.Svc.CallService(c.Request.Context(), n, req.Message)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Service request sent successfully", "serviceCall": call})
}

// PATCH /api/tables/:tableNumber/service/:id/resolve
func (tc *TableController) ResolveServiceCall(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	t, err := tc.Svc.ResolveServiceCall(c.Request.Context(), n, id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, t)
}
