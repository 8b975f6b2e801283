package main

import (
	"log"
	"splitledger-backend/config"
	"splitledger-backend/database"
	"splitledger-backend/handlers"
	"splitledger-backend/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// User
		api.GET("/users/me", handlers.GetProfile)
		api.PUT("/users/me", handlers.UpdateProfile)
		api.PUT("/users/me/fcm-token", handlers.UpdateFCMToken)

		// Ledgers
		api.POST("/ledgers", handlers.CreateLedger)
		api.GET("/ledgers", handlers.GetLedgers)
		api.GET("/ledgers/:id", handlers.GetLedger)
		api.PUT("/ledgers/:id", handlers.UpdateLedger)
		api.DELETE("/ledgers/:id", handlers.DeleteLedger)
		api.POST("/ledgers/:id/share", handlers.ShareLedger)

		// Participants
		api.POST("/ledgers/:id/participants", handlers.AddParticipant)
		api.DELETE("/ledgers/:id/participants/:pid", handlers.RemoveParticipant)

		// Expense items and payments
		api.POST("/participants/:id/items", handlers.AddItem)
		api.DELETE("/items/:id", handlers.RemoveItem)
		api.POST("/participants/:id/payments", handlers.AddPayment)
		api.DELETE("/payments/:id", handlers.RemovePayment)

		// Balances and settlement
		api.GET("/ledgers/:id/balances", handlers.GetLedgerBalances)
		api.GET("/ledgers/:id/settlement", handlers.GetSettlement)

		// Activity
		api.GET("/activity", handlers.GetActivity)
		api.GET("/ledgers/:id/activity", handlers.GetLedgerActivity)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	log.Printf("🚀 Listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
