package controllers

import (
	"tableorder/pkg/resp"
	"tableorder/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct{ Svc *services.MenuService }

func NewMenuController(svc *services.MenuService) *MenuController {
	return &MenuController{Svc: svc}
}

// GET /api/menu?category=
func (m *MenuController) List(c *gin.Context) {
	items, err := m.Svc.List(c.Request.Context(), c.Query("category"), false)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /api/menu/all
func (m *MenuController) All(c *gin.Context) {
	items, err := m.Svc.List(c.Request.Context(), c.Query("category"), true)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /api/menu/categories/list
func (m *MenuController) Categories(c *gin.Context) {
	cats, err := m.Svc.Categories(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cats)
}

// GET /api/menu/:id
func (m *MenuController) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	item, err := m.Svc.Get(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}

// POST /api/menu
func (m *MenuController) Create(c *gin.Context) {
	var req services.MenuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := m.Svc.Create(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, item)
}

// PUT /api/menu/:id
func (m *MenuController) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req services.MenuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := m.Svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}

// DELETE /api/menu/:id
func (m *MenuController) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := m.Svc.Delete(c.Request.Context(), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "Menu item deleted successfully"})
}

// PATCH /api/menu/:id/toggle
func (m *MenuController) Toggle(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	item, err := m.Svc.Toggle(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, item)
}
