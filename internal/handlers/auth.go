package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	iauth "github.com/ardiansyah/workforce/internal/auth"
	"github.com/ardiansyah/workforce/internal/services"
	"github.com/ardiansyah/workforce/pkg/response"
)

// AuthHandler serves login and the authenticated user's profile.
type AuthHandler struct {
	auth    *iauth.AuthService
	users   *services.UserService
	checker *access.Checker
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, authService *iauth.AuthService) (*AuthHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db, audit)
	if err != nil {
		return nil, err
	}
	checker, err := access.NewChecker(db)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{auth: authService, users: users, checker: checker}, nil
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.auth.Login(requestContext(c), body.Email, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := currentUserID(c)

	user, err := h.users.GetByID(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	perms, err := h.checker.GetUserPermissions(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":        user,
		"permissions": perms,
	})
}
