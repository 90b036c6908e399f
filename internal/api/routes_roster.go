package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/internal/handlers"
	"github.com/ardiansyah/workforce/internal/middleware"
)

func registerRosterRoutes(api *gin.RouterGroup, db *gorm.DB, checker *access.Checker) error {
	employeeHandler, err := handlers.NewEmployeeHandler(db)
	if err != nil {
		return err
	}
	locationHandler, err := handlers.NewLocationHandler(db)
	if err != nil {
		return err
	}
	brandHandler, err := handlers.NewBrandHandler(db)
	if err != nil {
		return err
	}
	contractHandler, err := handlers.NewContractHandler(db)
	if err != nil {
		return err
	}

	employees := api.Group("/employees")
	{
		employees.GET("", middleware.RequirePermission(checker, "view_employees"), employeeHandler.List)
		employees.GET("/:id", middleware.RequirePermission(checker, "view_employees"), employeeHandler.Get)
		employees.POST("", middleware.RequirePermission(checker, "create_employees"), employeeHandler.Create)
		employees.PUT("/:id", middleware.RequirePermission(checker, "edit_employees"), employeeHandler.Update)
		employees.PUT("/:id/status", middleware.RequirePermission(checker, "edit_employees"), employeeHandler.SetStatus)
		employees.DELETE("/:id", middleware.RequirePermission(checker, "delete_employees"), employeeHandler.Delete)
	}

	locations := api.Group("/locations")
	{
		locations.GET("", middleware.RequirePermission(checker, "view_locations"), locationHandler.List)
		locations.GET("/:id", middleware.RequirePermission(checker, "view_locations"), locationHandler.Get)
		locations.POST("", middleware.RequirePermission(checker, "create_locations"), locationHandler.Create)
		locations.PUT("/:id", middleware.RequirePermission(checker, "edit_locations"), locationHandler.Update)
		locations.DELETE("/:id", middleware.RequirePermission(checker, "delete_locations"), locationHandler.Delete)
	}

	brands := api.Group("/brands")
	{
		brands.GET("", middleware.RequirePermission(checker, "view_brands"), brandHandler.List)
		brands.GET("/:id", middleware.RequirePermission(checker, "view_brands"), brandHandler.Get)
		brands.POST("", middleware.RequirePermission(checker, "create_brands"), brandHandler.Create)
		brands.PUT("/:id", middleware.RequirePermission(checker, "edit_brands"), brandHandler.Update)
		brands.DELETE("/:id", middleware.RequirePermission(checker, "delete_brands"), brandHandler.Delete)
	}

	contracts := api.Group("/contracts")
	{
		contracts.GET("", middleware.RequirePermission(checker, "view_contracts"), contractHandler.List)
		contracts.GET("/:id", middleware.RequirePermission(checker, "view_contracts"), contractHandler.Get)
		contracts.POST("", middleware.RequirePermission(checker, "create_contracts"), contractHandler.Create)
		contracts.PUT("/:id", middleware.RequirePermission(checker, "edit_contracts"), contractHandler.Update)
		contracts.DELETE("/:id", middleware.RequirePermission(checker, "delete_contracts"), contractHandler.Delete)
	}
	return nil
}
