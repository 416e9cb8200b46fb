package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/edvance/edvance-backend/internal/http/response"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/services"
)

type AuditHandler struct {
	log   *logger.Logger
	audit services.AuditService
}

func NewAuditHandler(log *logger.Logger, audit services.AuditService) *AuditHandler {
	return &AuditHandler{
		log:   log.With("handler", "AuditHandler"),
		audit: audit,
	}
}

func (h *AuditHandler) RunAudit(c *gin.Context) {
	report, err := h.audit.Run(c.Request.Context())
	if err != nil {
		h.log.Error("Consistency audit failed", "error", err)
		response.RespondMappedError(c, "audit_failed", err)
		return
	}
	response.RespondOK(c, report)
}
