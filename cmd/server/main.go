package main

import (
	"log"

	"domainhub/internal/api"
	"domainhub/internal/config"
	"domainhub/internal/database"
	"domainhub/internal/services"
	"domainhub/pkg/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}

	// Initialize logging
	logging.InitLogging(config.AppConfig.Mode)
	defer logging.Sync()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	// Wire services
	registry := services.NewProviderRegistry()
	packageService := services.NewPackageService()
	orderService := services.NewOrderService(packageService, registry)
	paymentService := services.NewPaymentService(orderService)

	// Start background sweeper
	sweeper := services.NewSweeper(orderService, packageService)
	if err := sweeper.Start(); err != nil {
		log.Fatal("Failed to start background jobs:", err)
	}
	defer sweeper.Stop()

	// Set Gin mode
	gin.SetMode(config.AppConfig.Mode)

	// Create Gin engine
	r := gin.Default()

	// Setup routes
	admin := api.NewAdminHandler(orderService, registry)
	handlers := api.NewHandlers(orderService, packageService, paymentService, admin)
	api.SetupRoutes(r, handlers)

	// Start server
	port := config.AppConfig.Port
	logging.Infof("Starting %s on port %s", config.AppConfig.ServiceName, port)

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
