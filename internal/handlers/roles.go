package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// RoleHandler serves role administration and the permission catalog.
type RoleHandler struct {
	service *services.RoleService
}

type roleRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=64"`
	DisplayName   string   `json:"display_name" validate:"max=128"`
	Description   string   `json:"description" validate:"max=512"`
	Level         int      `json:"level" validate:"gte=0,lte=100"`
	IsActive      *bool    `json:"is_active"`
	PermissionIDs []string `json:"permission_ids"`
}

type duplicateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=64"`
	DisplayName string `json:"display_name" validate:"max=128"`
}

type assignRoleRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(db *gorm.DB) (*RoleHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewRoleService(db, audit)
	if err != nil {
		return nil, err
	}
	return &RoleHandler{service: svc}, nil
}

// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	per := parseIntQuery(c, "per_page", 20)

	roles, total, err := h.service.ListRoles(requestContext(c), services.ListRolesOptions{
		Page:     page,
		PageSize: per,
		Filters: services.RoleFilters{
			Query:    c.Query("q"),
			IsActive: parseBoolQuery(c, "is_active"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, roles, response.PageMeta(page, per, total))
}

// GET /api/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.service.GetRole(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var body roleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	role, err := h.service.CreateRole(requestContext(c), services.RoleInput{
		Name:        body.Name,
		DisplayName: body.DisplayName,
		Description: body.Description,
		Level:       body.Level,
		IsActive:    body.IsActive,
	}, body.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	var body roleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	role, err := h.service.UpdateRole(requestContext(c), c.Param("id"), services.RoleInput{
		Name:        body.Name,
		DisplayName: body.DisplayName,
		Description: body.Description,
		Level:       body.Level,
		IsActive:    body.IsActive,
	}, body.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteRole(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/roles/:id/duplicate
func (h *RoleHandler) Duplicate(c *gin.Context) {
	var body duplicateRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	role, err := h.service.DuplicateRole(requestContext(c), c.Param("id"), body.Name, body.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// POST /api/roles/:id/assign
func (h *RoleHandler) Assign(c *gin.Context) {
	var body assignRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.AssignRoleToUser(requestContext(c), body.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// POST /api/roles/unassign
func (h *RoleHandler) Unassign(c *gin.Context) {
	var body assignRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.RemoveRoleFromUser(requestContext(c), body.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// GET /api/roles/statistics
func (h *RoleHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
