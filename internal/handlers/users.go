package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// UserHandler serves user administration, including per-user permission
// overrides.
type UserHandler struct {
	service *services.UserService
	checker *access.Checker
}

type createUserRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=128"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	RoleID   *string `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

type updateUserRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=128"`
	Email     *string `json:"email" validate:"omitempty,email"`
	RoleID    *string `json:"role_id"`
	ClearRole bool    `json:"clear_role"`
	IsActive  *bool   `json:"is_active"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type overrideRequest struct {
	Permission string `json:"permission" validate:"required"`
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewUserService(db, audit)
	if err != nil {
		return nil, err
	}
	checker, err := access.NewChecker(db)
	if err != nil {
		return nil, err
	}
	return &UserHandler{service: svc, checker: checker}, nil
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	per := parseIntQuery(c, "per_page", 20)

	users, total, err := h.service.List(requestContext(c), services.ListUsersOptions{
		Page:     page,
		PageSize: per,
		Filters: services.UserFilters{
			IsActive: parseBoolQuery(c, "is_active"),
			RoleID:   c.Query("role_id"),
			Query:    c.Query("q"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, response.PageMeta(page, per, total))
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.Create(requestContext(c), services.CreateUserInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		RoleID:   body.RoleID,
		IsActive: body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var body updateUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.Update(requestContext(c), c.Param("id"), services.UpdateUserInput{
		Name:      body.Name,
		Email:     body.Email,
		RoleID:    body.RoleID,
		ClearRole: body.ClearRole,
		IsActive:  body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// PUT /api/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var body changePasswordRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.service.ChangePassword(requestContext(c), c.Param("id"), body.Password); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// GET /api/users/:id/permissions
func (h *UserHandler) EffectivePermissions(c *gin.Context) {
	perms, err := h.checker.GetUserPermissions(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, perms)
}

// POST /api/users/:id/permissions/grant
func (h *UserHandler) GrantPermission(c *gin.Context) {
	var body overrideRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.checker.Grant(requestContext(c), c.Param("id"), body.Permission, currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"granted": true})
}

// POST /api/users/:id/permissions/revoke
func (h *UserHandler) RevokePermission(c *gin.Context) {
	var body overrideRequest
	if !bindAndValidate(c, &body) {
		return
	}

	if err := h.checker.Revoke(requestContext(c), c.Param("id"), body.Permission, currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}
