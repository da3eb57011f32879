package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/griev-ease/api-go/config"
	"github.com/griev-ease/api-go/routes"
	"github.com/griev-ease/api-go/utils"
	"gorm.io/gorm"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db := config.InitDB()

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, db)

	// Periodically prune expired blacklist entries
	go startBlacklistSweep(db)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}

func startBlacklistSweep(db *gorm.DB) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := utils.CleanupExpiredTokens(db)
		if err != nil {
			log.Printf("Blacklist cleanup failed: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("Pruned %d expired blacklist entries", removed)
		}
	}
}
