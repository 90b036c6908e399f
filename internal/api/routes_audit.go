package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/internal/handlers"
	"github.com/ardiansyah/workforce/internal/middleware"
)

func registerAuditRoutes(api *gin.RouterGroup, db *gorm.DB, checker *access.Checker) error {
	auditHandler, err := handlers.NewAuditHandler(db)
	if err != nil {
		return err
	}

	api.GET("/audit", middleware.RequirePermission(checker, "audit_logs"), auditHandler.List)
	return nil
}
