package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/models"
	"github.com/ardiansyah/workforce/pkg/crypto"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
	"github.com/ardiansyah/workforce/pkg/metrics"
)

// AuthService authenticates credentials and issues access tokens.
type AuthService struct {
	db  *gorm.DB
	jwt *JWTService
}

// LoginResult carries the issued token alongside the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, jwtService *JWTService) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	return &AuthService{db: db, jwt: jwtService}, nil
}

// Login verifies the email/password pair and returns a signed access token.
// Deactivated accounts are rejected even with valid credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Preload("Role").First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.AuthAttempts.WithLabelValues("deactivated").Inc()
		return nil, apperrors.ErrAccountDeactivated
	}

	token, err := s.jwt.GenerateAccessToken(AccessTokenInput{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("auth service: record login: %w", err)
	}
	user.LastLoginAt = &now

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, User: &user}, nil
}
