package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/internal/apiserver/biz"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/response"
)

// RoleHandler handles role management requests.
type RoleHandler struct {
	svc *biz.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(svc *biz.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// Create handles POST /v1/roles.
func (h *RoleHandler) Create(c *gin.Context) {
	var req model.CreateRoleRequest
	if !bind(c, &req) {
		return
	}

	role, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, role)
}

// Update handles PUT /v1/roles/:code.
func (h *RoleHandler) Update(c *gin.Context) {
	var req model.UpdateRoleRequest
	if !bind(c, &req) {
		return
	}

	role, err := h.svc.Update(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, role)
}

// Delete handles DELETE /v1/roles/:code.
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, nil)
}

// Get handles GET /v1/roles/:code.
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, role)
}

// List handles GET /v1/roles.
func (h *RoleHandler) List(c *gin.Context) {
	page, pageSize, offset := pagination(c)

	list, err := h.svc.List(c.Request.Context(), offset, pageSize)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.PageOK(c, list.Items, list.TotalCount, page, pageSize)
}
