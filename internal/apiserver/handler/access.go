package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/internal/apiserver/biz"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/middleware"
	"github.com/petrel-io/petrel/pkg/response"
)

// AccessHandler answers capability queries.
type AccessHandler struct {
	svc *biz.AccessService
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(svc *biz.AccessService) *AccessHandler {
	return &AccessHandler{svc: svc}
}

// Check handles POST /v1/access/check. It reports whether the caller would
// pass the given requirement, without serving anything.
func (h *AccessHandler) Check(c *gin.Context) {
	var req model.CheckAccessRequest
	if !bind(c, &req) {
		return
	}

	resp, err := h.svc.Check(c.Request.Context(), middleware.GetPrincipal(c), &req, c.ClientIP())
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, resp)
}

// Permissions handles GET /v1/access/permissions, the full permission
// catalog with descriptions.
func (h *AccessHandler) Permissions(c *gin.Context) {
	response.OK(c, h.svc.Permissions())
}

// MyPermissions handles GET /v1/access/permissions/mine, the subset the
// caller's role grants.
func (h *AccessHandler) MyPermissions(c *gin.Context) {
	granted, err := h.svc.GrantedPermissions(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, gin.H{"permissions": granted})
}
