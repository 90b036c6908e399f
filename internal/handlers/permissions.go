package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// PermissionHandler serves the permission catalog and the global kill switch.
type PermissionHandler struct {
	service *services.RoleService
}

type setPermissionActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler(db *gorm.DB) (*PermissionHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewRoleService(db, audit)
	if err != nil {
		return nil, err
	}
	return &PermissionHandler{service: svc}, nil
}

// GET /api/permissions
func (h *PermissionHandler) List(c *gin.Context) {
	grouped, err := h.service.ListPermissionsByGroup(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, grouped)
}

// PUT /api/permissions/:id/active
func (h *PermissionHandler) SetActive(c *gin.Context) {
	var body setPermissionActiveRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.service.SetPermissionActive(requestContext(c), c.Param("id"), *body.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
