package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/access"
	"github.com/ardiansyah/workforce/internal/handlers"
	"github.com/ardiansyah/workforce/internal/middleware"
)

func registerScheduleRoutes(api *gin.RouterGroup, db *gorm.DB, checker *access.Checker) error {
	shiftHandler, err := handlers.NewShiftHandler(db)
	if err != nil {
		return err
	}
	presenceHandler, err := handlers.NewPresenceHandler(db)
	if err != nil {
		return err
	}

	shifts := api.Group("/shifts")
	{
		shifts.GET("", middleware.RequirePermission(checker, "view_shifts"), shiftHandler.List)
		shifts.GET("/conflicts", middleware.RequirePermission(checker, "view_shifts"), shiftHandler.DateConflicts)
		shifts.GET("/:id", middleware.RequirePermission(checker, "view_shifts"), shiftHandler.Get)
		shifts.GET("/:id/available-employees", middleware.RequirePermission(checker, "view_shifts"), shiftHandler.AvailableEmployees)
		shifts.POST("", middleware.RequirePermission(checker, "create_shifts"), shiftHandler.Create)
		shifts.POST("/:id/duplicate", middleware.RequirePermission(checker, "create_shifts"), shiftHandler.Duplicate)
		shifts.PUT("/:id", middleware.RequirePermission(checker, "edit_shifts"), shiftHandler.Update)
		shifts.DELETE("/:id", middleware.RequirePermission(checker, "delete_shifts"), shiftHandler.Delete)
		shifts.POST("/:id/assign", middleware.RequirePermission(checker, "edit_shifts"), shiftHandler.Assign)
		shifts.POST("/:id/unassign", middleware.RequirePermission(checker, "edit_shifts"), shiftHandler.Unassign)
	}

	presences := api.Group("/presences")
	{
		presences.GET("", middleware.RequirePermission(checker, "view_presences"), presenceHandler.List)
		presences.GET("/:id", middleware.RequirePermission(checker, "view_presences"), presenceHandler.Get)
		presences.POST("/check-in", middleware.RequirePermission(checker, "create_presences"), presenceHandler.CheckIn)
		presences.POST("/check-out", middleware.RequirePermission(checker, "create_presences"), presenceHandler.CheckOut)
		presences.PUT("/:id", middleware.RequirePermission(checker, "edit_presences"), presenceHandler.Amend)
		presences.DELETE("/:id", middleware.RequirePermission(checker, "delete_presences"), presenceHandler.Delete)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/presences/daily", middleware.RequirePermission(checker, "view_reports"), presenceHandler.DailyReport)
		reports.GET("/presences/monthly", middleware.RequirePermission(checker, "view_reports"), presenceHandler.MonthlySummary)
	}
	return nil
}
