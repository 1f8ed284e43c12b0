package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/petrel-io/petrel/internal/apiserver/biz"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/errors"
	"github.com/petrel-io/petrel/pkg/middleware"
	"github.com/petrel-io/petrel/pkg/response"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	svc *biz.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *biz.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req, biz.LoginContext{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		logger.Warnw("login failed", "username", req.Username, "ip", c.ClientIP(), "error", err)
		response.FailWithError(c, err)
		return
	}

	response.OK(c, resp)
}

// Logout handles POST /auth/logout. It deletes the caller's session, which
// revokes the token backing it.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetSessionToken(c)
	if token == "" {
		response.Fail(c, errors.ErrAuthenticationRequired)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "logged out"})
}

// LogoutOthers handles POST /auth/logout-others, the recovery path when the
// session ceiling blocks a login elsewhere.
func (h *AuthHandler) LogoutOthers(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	token := middleware.GetSessionToken(c)
	if token == "" {
		response.Fail(c, errors.ErrAuthenticationRequired)
		return
	}

	n, err := h.svc.LogoutOthers(c.Request.Context(), principal.ID, token)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, gin.H{"revoked": n})
}

// Sessions handles GET /auth/sessions, listing the caller's active
// sessions.
func (h *AuthHandler) Sessions(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	token := middleware.GetSessionToken(c)

	sessions, err := h.svc.Sessions(c.Request.Context(), principal.ID, token)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, sessions)
}
