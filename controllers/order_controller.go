package controllers

import (
	"strconv"
	"time"

	"tableorder/entity"
	"tableorder/pkg/resp"
	"tableorder/repository"
	"tableorder/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Svc: svc}
}

// POST /api/orders
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Svc.Create(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"message": "Order placed successfully", "order": order})
}

// POST /api/orders/quote
func (oc *OrderController) Quote(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	q, err := oc.Svc.Quote(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, q)
}

// GET /api/orders/table/:tableNumber
func (oc *OrderController) ByTable(c *gin.Context) {
	n, ok := tableNumberParam(c)
	if !ok {
		return
	}
	orders, err := oc.Svc.ListByTable(c.Request.Context(), n)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /api/orders/:id
func (oc *OrderController) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// GET /api/orders?status=&date=YYYY-MM-DD&tableNumber=&page=&limit=
func (oc *OrderController) List(c *gin.Context) {
	f := repository.OrderFilter{Status: entity.OrderStatus(c.Query("status"))}
	if v := c.Query("date"); v != "" {
		day, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			resp.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
		f.Day = day
	}
	f.TableNumber, _ = strconv.Atoi(c.Query("tableNumber"))
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	page, err := oc.Svc.List(c.Request.Context(), f)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, page)
}

type updateStatusReq struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

// PATCH /api/orders/:id/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

// DELETE /api/orders/:id cancels the order; orders are never removed.
func (oc *OrderController) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.Svc.Cancel(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Order cancelled successfully", "order": order})
}
