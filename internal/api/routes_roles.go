package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/internal/handlers"
	"github.com/ardiansyah/workforce/internal/middleware"
)

func registerRoleRoutes(api *gin.RouterGroup, db *gorm.DB, checker *access.Checker) error {
	roleHandler, err := handlers.NewRoleHandler(db)
	if err != nil {
		return err
	}
	permHandler, err := handlers.NewPermissionHandler(db)
	if err != nil {
		return err
	}

	roles := api.Group("/roles")
	{
		roles.GET("", middleware.RequirePermission(checker, "view_users"), roleHandler.List)
		roles.GET("/statistics", middleware.RequirePermission(checker, "view_users"), roleHandler.Statistics)
		roles.GET("/:id", middleware.RequirePermission(checker, "view_users"), roleHandler.Get)
		roles.POST("", middleware.RequirePermission(checker, "system_settings"), roleHandler.Create)
		roles.PUT("/:id", middleware.RequirePermission(checker, "system_settings"), roleHandler.Update)
		roles.DELETE("/:id", middleware.RequirePermission(checker, "system_settings"), roleHandler.Delete)
		roles.POST("/:id/duplicate", middleware.RequirePermission(checker, "system_settings"), roleHandler.Duplicate)
		roles.POST("/:id/assign", middleware.RequirePermission(checker, "manage_user_permissions"), roleHandler.Assign)
		roles.POST("/unassign", middleware.RequirePermission(checker, "manage_user_permissions"), roleHandler.Unassign)
	}

	perms := api.Group("/permissions")
	{
		perms.GET("", middleware.RequirePermission(checker, "view_users"), permHandler.List)
		perms.PUT("/:id/active", middleware.RequirePermission(checker, "system_settings"), permHandler.SetActive)
	}
	return nil
}
