package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/services"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) StudentSignup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, "AuthHandler.StudentSignup", &req) {
		return
	}

	tok, err := h.svc.StudentSignup(c.Request.Context(), services.SignupInput{
		RollNumber: req.RollNumber,
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tok)
}

func (h *AuthHandler) StudentSignin(c *gin.Context) {
	var req SigninRequest
	if !bindJSON(c, "AuthHandler.StudentSignin", &req) {
		return
	}

	tok, err := h.svc.StudentSignin(c.Request.Context(), req.Identifier(), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if !bindJSON(c, "AuthHandler.AdminLogin", &req) {
		return
	}

	tok, err := h.svc.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}
