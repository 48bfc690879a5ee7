package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_maintenance/internal/controllers"
	"fleet_maintenance/internal/middleware"
)

func ChecklistRoutes(r *gin.Engine, db *gorm.DB) {
	cc := controllers.NewChecklistController(db)
	templates := r.Group("/checklist-templates")
	templates.Use(middleware.RequireAuth())
	{
		templates.GET("", cc.GetTemplates)
	}
}
