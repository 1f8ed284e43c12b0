package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/internal/apiserver/biz"
	"github.com/petrel-io/petrel/pkg/response"
)

// UserHandler handles account management requests.
type UserHandler struct {
	svc *biz.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *biz.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req biz.CreateUserRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, user)
}

// Get handles GET /v1/users/:username.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, user)
}

// List handles GET /v1/users.
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize, offset := pagination(c)

	list, err := h.svc.List(c.Request.Context(), offset, pageSize)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.PageOK(c, list.Items, list.TotalCount, page, pageSize)
}

// updatePasswordRequest is the body for password changes.
type updatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=64"`
}

// UpdatePassword handles POST /v1/users/:username/password.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.svc.UpdatePassword(c.Request.Context(), c.Param("username"), req.Password); err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, nil)
}

// setStatusRequest is the body for enabling or disabling an account.
type setStatusRequest struct {
	Status *int `json:"status" validate:"required,min=0,max=1"`
}

// SetStatus handles POST /v1/users/:username/status.
func (h *UserHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if !bind(c, &req) {
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), c.Param("username"), *req.Status); err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, nil)
}

// Delete handles DELETE /v1/users/:username.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("username")); err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, nil)
}
