package controllers

import (
	"tableorder/pkg/resp"
	"tableorder/services"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ Auth *services.AuthService }

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req services.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	sess, err := a.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, sess)
}

// GET /api/auth/me
func (a *AuthController) Me(c *gin.Context) {
	resp.OK(c, gin.H{"admin": utils.CurrentStaff(c)})
}

// POST /api/auth/setup
func (a *AuthController) Setup(c *gin.Context) {
	var req services.SetupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	staff, err := a.Auth.Setup(c.Request.Context(), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"message": "Admin created successfully", "admin": staff})
}
