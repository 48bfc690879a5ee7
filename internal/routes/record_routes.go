package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_maintenance/internal/controllers"
	"fleet_maintenance/internal/middleware"
	"fleet_maintenance/internal/notify"
)

func RecordRoutes(r *gin.Engine, db *gorm.DB, dispatcher *notify.Dispatcher, uploadDir string) {
	rc := controllers.NewRecordController(db, dispatcher, uploadDir)
	records := r.Group("/maintenance-records")
	records.Use(middleware.RequireAuth())
	{
		records.POST("", rc.CreateRecord)
		records.GET("", rc.ListRecords)
		records.PATCH("/:id", middleware.RequireAuthWithRole("admin"), rc.UpdateRecordStatus)
	}
}
