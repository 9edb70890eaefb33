package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/harentsoaR/waitingroom-api/internal/config"
	"github.com/harentsoaR/waitingroom-api/internal/face"
	"github.com/harentsoaR/waitingroom-api/internal/handlers"
	"github.com/harentsoaR/waitingroom-api/internal/middleware"
	"github.com/harentsoaR/waitingroom-api/internal/queue"
	"github.com/harentsoaR/waitingroom-api/internal/services"
	"github.com/harentsoaR/waitingroom-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")

	// --- Initialize Services ---
	doctors := store.NewDoctorStore(db)
	pool := store.NewWaitingPool(db)
	extractor := face.NewExtractorPool(
		face.NewEmbeddingClient(cfg.EmbeddingURL),
		cfg.EmbeddingWorkers,
		cfg.EmbeddingTimeout,
	)
	notifier := services.NewNotificationService(cfg.SMTP)
	coordinator := queue.NewCoordinator(doctors, pool, extractor, notifier, cfg.FaceThreshold)

	// --- Initialize Handlers ---
	h := handlers.NewHandler(db, coordinator, doctors, pool, cfg.JWTSecret)

	// --- Gin Router ---
	r := gin.Default()

	// --- Middleware ---
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	// --- Routes ---
	// Waiting-room endpoints used by the kiosk and the doctor console.
	r.GET("/count/:doctorName", h.GetWaitingCount)
	r.POST("/register", h.RegisterFace)
	r.POST("/verify", h.VerifyFace)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterStaff)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret)) // Protect all /api routes
	{
		apiRoutes.GET("/doctors", h.ListDoctors)
		apiRoutes.GET("/doctors/:id/waiting", h.GetDoctorQueue)
		apiRoutes.DELETE("/waiting/:id", h.DeleteRegistration)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
