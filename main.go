package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/fadhlanhapp/groupcart-backend/handlers"
	"github.com/fadhlanhapp/groupcart-backend/realtime"
	"github.com/fadhlanhapp/groupcart-backend/repository"
	"github.com/fadhlanhapp/groupcart-backend/routes"
	"github.com/fadhlanhapp/groupcart-backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize New Relic
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("GroupCart API"),
		newrelic.ConfigLicense(os.Getenv("NEW_RELIC_LICENSE_KEY")),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize New Relic: %v", err)
	}

	// Initialize database
	if err := repository.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repository.CloseDB()

	// The realtime registry is owned here: constructed at startup,
	// dropped on shutdown
	registry := realtime.NewRegistry()
	defer registry.Cleanup()

	// Wire repositories and services
	db := repository.GetDB()
	groupRepo := repository.NewGroupRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)

	engine := services.NewSettlementService()
	groupService := services.NewGroupService(groupRepo)
	purchaseService := services.NewPurchaseService(purchaseRepo, settlementRepo, groupService, engine)
	exportService := services.NewExportService(groupService, purchaseService)

	api := handlers.NewAPI(groupService, purchaseService, engine, exportService, registry)

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Change to your frontend URL in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, api)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	log.Printf("Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
