package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/internal/apiserver/biz"
	"github.com/petrel-io/petrel/pkg/response"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	svc *biz.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(svc *biz.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// Decisions handles GET /v1/audit/decisions.
func (h *AuditHandler) Decisions(c *gin.Context) {
	page, pageSize, offset := pagination(c)

	count, items, err := h.svc.Decisions(c.Request.Context(), offset, pageSize)
	if err != nil {
		response.FailWithError(c, err)
		return
	}

	response.PageOK(c, items, count, page, pageSize)
}
