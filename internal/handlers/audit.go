package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	service *services.AuditService
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(db *gorm.DB) (*AuditHandler, error) {
	svc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	return &AuditHandler{service: svc}, nil
}

// GET /api/audit
func (h *AuditHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	per := parseIntQuery(c, "per_page", 50)

	entries, total, err := h.service.List(requestContext(c), services.AuditListOptions{
		Page:     page,
		PageSize: per,
		Filters: services.AuditFilters{
			UserID:   c.Query("user_id"),
			Action:   c.Query("action"),
			Resource: c.Query("resource"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, entries, response.PageMeta(page, per, total))
}
