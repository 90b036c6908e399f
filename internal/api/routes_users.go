package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/internal/handlers"
	"github.com/ardiansyah/workforce/internal/middleware"
)

func registerUserRoutes(api *gin.RouterGroup, db *gorm.DB, checker *access.Checker) error {
	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return err
	}

	users := api.Group("/users")
	{
		users.GET("", middleware.RequirePermission(checker, "view_users"), userHandler.List)
		users.GET("/:id", middleware.RequirePermission(checker, "view_users"), userHandler.Get)
		users.POST("", middleware.RequirePermission(checker, "create_users"), userHandler.Create)
		users.PUT("/:id", middleware.RequirePermission(checker, "edit_users"), userHandler.Update)
		users.PUT("/:id/password", middleware.RequirePermission(checker, "edit_users"), userHandler.ChangePassword)
		users.DELETE("/:id", middleware.RequirePermission(checker, "delete_users"), userHandler.Delete)

		// Per-user permission overrides
		users.GET("/:id/permissions", middleware.RequirePermission(checker, "view_users"), userHandler.EffectivePermissions)
		users.POST("/:id/permissions/grant", middleware.RequirePermission(checker, "manage_user_permissions"), userHandler.GrantPermission)
		users.POST("/:id/permissions/revoke", middleware.RequirePermission(checker, "manage_user_permissions"), userHandler.RevokePermission)
	}
	return nil
}
