package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_maintenance/internal/controllers"
)

func AuthRoutes(r *gin.Engine, db *gorm.DB) {
	ac := controllers.NewAuthController(db)
	auth := r.Group("/auth")
	{
		auth.POST("/login", ac.Login)
	}
}
