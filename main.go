package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"household-budget-go-be/database"
	"household-budget-go-be/handlers"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Connect to Database
	database.ConnectDB()

	h := handlers.New(database.DB)

	// Initialize Fiber app
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Allow all for now as requested
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID, X-Household-ID",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health Check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// CSV Import
	api.Get("/import/formats", h.ImportFormats)
	api.Post("/import/preview", h.ImportPreview)
	api.Post("/import/confirm", h.ImportConfirm)

	// Categorization Rules
	api.Get("/rules", h.ListRules)
	api.Post("/rules", h.CreateRule)
	api.Delete("/rules/:id", h.DeleteRule)
	api.Post("/rules/seed", h.SeedRules)

	// Transactions
	api.Post("/transactions", h.CreateTransaction)
	api.Put("/transactions/:id", h.UpdateTransaction)
	api.Delete("/transactions/:id", h.DeleteTransaction)
	api.Post("/transactions/:id/categorize", h.QuickCategorize)

	// Accounts
	api.Post("/accounts/:id/adjust-balance", h.AdjustBalance)

	// AI Analysis Endpoint
	api.Get("/analyze", h.AnalyzeUncategorized)

	// Start Server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Fatal(app.Listen(":" + port))
}
