package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"bookdigest/internal/extract"
	"bookdigest/internal/handler"
	"bookdigest/internal/llm"
	"bookdigest/internal/middleware"
	"bookdigest/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	godotenv.Load(".env.local")

	env := os.Getenv("ENV")
	log.Printf("[INFO] Starting Book Digest env=%s", env)

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/bookdigest.db"
	}
	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open database at %s: %v", dbPath, err)
	}
	defer st.Close()
	log.Printf("[INFO] Database ready path=%s", dbPath)

	invoker, err := llm.FromEnv(context.Background())
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM provider: %v", err)
		log.Println("[WARN] Summary generation will be unavailable")
	} else {
		log.Printf("[INFO] LLM provider initialized provider=%s", invoker.Name())
	}

	h := handler.New(st, extract.NewRegistry(), invoker)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	allowedOrigins := []string{}
	if gin.Mode() != gin.ReleaseMode {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173")
	}
	if extraOrigins := os.Getenv("ALLOWED_ORIGINS"); extraOrigins != "" {
		allowedOrigins = append(allowedOrigins, strings.Split(extraOrigins, ",")...)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters guard the expensive generation route only.
	ipLimiter := middleware.NewIPRateLimiter(rate.Every(10*time.Second), 2)
	dailyQuota := middleware.NewDailyQuota(100)
	log.Printf("[INFO] Rate limiting enabled")

	// Health check endpoints (outside /api group, no rate limiting)
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)

	api := r.Group("/api")
	{
		api.POST("/documents", h.HandleUploadDocument)
		api.GET("/documents", h.HandleGetDocuments)
		api.GET("/documents/:id", h.HandleGetDocument)
		api.GET("/documents/:id/text", h.HandleGetDocumentText)
		api.DELETE("/documents/:id", h.HandleDeleteDocument)

		api.POST("/documents/:id/summaries",
			middleware.RateLimitMiddleware(ipLimiter, dailyQuota), h.HandleCreateSummary)
		api.GET("/documents/:id/summaries", h.HandleListSummaries)
		api.GET("/summaries/:summaryId", h.HandleGetSummary)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("[INFO] Server ready port=%s allowed_origins=%v", port, allowedOrigins)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
