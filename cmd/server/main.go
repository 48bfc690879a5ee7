package main

import (
	"log"
	"net/http"
	"os"

	"fleet_maintenance/internal/config"
	"fleet_maintenance/internal/logger"
	"fleet_maintenance/internal/middleware"
	"fleet_maintenance/internal/routes"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	// Connect, migrate and seed the database
	config.InitDB()

	// Build the router with its injected controllers
	r := routes.SetupRouter(config.DB)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server running at :%s", port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+port, handler))
}
