package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_maintenance/internal/controllers"
	"fleet_maintenance/internal/middleware"
)

func UnitRoutes(r *gin.Engine, db *gorm.DB) {
	uc := controllers.NewUnitController(db)
	units := r.Group("/units")
	units.Use(middleware.RequireAuth())
	{
		units.GET("", uc.ListUnits)
		units.POST("", middleware.RequireAuthWithRole("admin"), uc.CreateUnit)
	}
}
