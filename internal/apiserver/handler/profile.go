package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/internal/apiserver/biz"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/response"
)

// ProfileHandler handles access profile management requests. Profiles are
// addressed by the owning username.
type ProfileHandler struct {
	svc   *biz.ProfileService
	users *biz.UserService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *biz.ProfileService, users *biz.UserService) *ProfileHandler {
	return &ProfileHandler{svc: svc, users: users}
}

func (h *ProfileHandler) resolveUser(c *gin.Context) (uint64, bool) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.FailWithError(c, err)
		return 0, false
	}
	return user.ID, true
}

// Upsert handles PUT /v1/users/:username/profile.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := h.resolveUser(c)
	if !ok {
		return
	}

	var req model.UpsertProfileRequest
	if !bind(c, &req) {
		return
	}

	profile, err := h.svc.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, profile)
}

// Get handles GET /v1/users/:username/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := h.resolveUser(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, profile)
}

// Delete handles DELETE /v1/users/:username/profile.
func (h *ProfileHandler) Delete(c *gin.Context) {
	userID, ok := h.resolveUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID); err != nil {
		response.FailWithError(c, err)
		return
	}

	response.OK(c, nil)
}
