package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	iauth "github.com/ardiansyah/workforce/internal/auth"
	"github.com/ardiansyah/workforce/internal/handlers"
	"github.com/ardiansyah/workforce/internal/middleware"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.GET("/health", handlers.Health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(middleware.NotFoundHandler)

	authService, err := iauth.NewAuthService(db, jwt)
	if err != nil {
		return nil, err
	}
	authHandler, err := handlers.NewAuthHandler(db, authService)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	r.POST("/api/auth/login", authHandler.Login)

	checker, err := access.NewChecker(db)
	if err != nil {
		return nil, err
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)

	if err := registerUserRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerRoleRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerRosterRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerScheduleRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerAuditRoutes(api, db, checker); err != nil {
		return nil, err
	}

	return r, nil
}
