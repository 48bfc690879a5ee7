package routes

import (
	"log"
	"os"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_maintenance/internal/notify"
)

// SetupRouter assembles the gin engine: middleware, controllers with their
// injected collaborators, and every route group.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(ginlog.SetLogger(), gin.Recovery())

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("could not create upload dir %s: %v", uploadDir, err)
	}

	hub := notify.NewRecordHub()
	dispatcher := notify.NewDispatcher(hub, notify.EmailSenderFromEnv(), notify.AdminEmailsFromEnv())

	AuthRoutes(r, db)
	UnitRoutes(r, db)
	ChecklistRoutes(r, db)
	RecordRoutes(r, db, dispatcher, uploadDir)
	UserRoutes(r, db)
	WebSocketRoutes(r, hub)

	// Stored signature images
	r.Static("/uploads", uploadDir)

	return r
}
