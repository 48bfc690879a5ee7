package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_maintenance/internal/controllers"
	"fleet_maintenance/internal/middleware"
)

func UserRoutes(r *gin.Engine, db *gorm.DB) {
	uc := controllers.NewUserController(db)
	users := r.Group("/users")
	users.Use(middleware.RequireAuthWithRole("admin"))
	{
		users.GET("", uc.ListUsers)
		users.POST("", uc.CreateUser)
	}
}
