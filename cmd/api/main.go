// main.go
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CelDarley/membro-api/internal/api/handlers"
	"github.com/CelDarley/membro-api/internal/api/middleware"
	"github.com/CelDarley/membro-api/internal/config"
	"github.com/CelDarley/membro-api/internal/cron"
	"github.com/CelDarley/membro-api/internal/db"
	"github.com/CelDarley/membro-api/internal/email"
	"github.com/CelDarley/membro-api/internal/geo"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/seed"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/CelDarley/membro-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migrations completed")

	// ============================================
	// Initialize PostgreSQL (pgxpool + sqlx)
	// ============================================
	pg, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open sql DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping sql DB: %v", err)
	}
	sqlxDB := sqlx.NewDb(sqlDB, "pgx")

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pg.Pool, sqlxDB)
	log.Println("Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Email Service (optional)
	// ============================================
	var emailSvc *email.Service
	if cfg.SMTPHost != "" {
		emailSvc = email.NewService(&email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		})
		log.Println("Email service initialized")
	} else {
		log.Println("Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Initialize Photo Storage
	// ============================================
	photos, err := storage.NewFSStorage(cfg.UploadDir, "/uploads")
	if err != nil {
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		seed.SeedDemo(repos)
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:   cfg,
		Repos:    repos,
		EmailSvc: emailSvc,
		Photos:   photos,
	})
	log.Println("All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	geoClient := geo.NewClient(redisDB)
	h := handlers.NewHandlers(services, photos, geoClient)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(repos.UserRepo)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"database":  "connected",
			"cache":     getCacheStatus(redisDB),
			"email":     getEmailStatus(emailSvc),
		})
	})

	// Stored photos
	r.Static("/uploads", cfg.UploadDir)

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/forgot-password", h.Auth.ForgotPassword)
			auth.POST("/reset-password", h.Auth.ResetPassword)
		}

		// First-user bootstrap: creation is public here, the service
		// rejects non-admin actors once an admin exists.
		api.POST("/users", middleware.OptionalAuth(services.Auth), h.User.Create)

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			protected.GET("/auth/me", h.Auth.Me)
			protected.POST("/auth/change-password", h.Auth.ChangePassword)

			// Member routes
			membros := protected.Group("/membros")
			{
				membros.GET("", h.Member.List)
				membros.GET("/search", h.Member.Search)
				membros.GET("/aggregate", h.Member.Aggregate)
				membros.GET("/stats", h.Member.Stats)
				membros.GET("/distinct", h.Member.Distinct)
				membros.GET("/suggest", h.Member.Suggest)
				membros.GET("/:id", h.Member.Get)
				membros.GET("/:id/amigos", h.Member.Friends)
				membros.GET("/:id/historico", h.Member.ListHistory)
				membros.GET("/:id/relationships", h.Relationship.ListForMember)
				membros.GET("/:id/report", h.Member.Report)

				admin := membros.Group("")
				admin.Use(middleware.RequireAdmin())
				{
					admin.POST("", h.Member.Create)
					admin.PUT("/:id", h.Member.Update)
					admin.DELETE("/:id", h.Member.Delete)
					admin.POST("/:id/foto", h.Member.UploadPhoto)
					admin.POST("/:id/historico", h.Member.AddHistory)
					admin.POST("/:id/relationships", h.Relationship.Create)
				}
			}

			// Assignment history
			historico := protected.Group("/historico")
			historico.Use(middleware.RequireAdmin())
			{
				historico.PUT("/:id", h.Member.UpdateHistory)
				historico.DELETE("/:id", h.Member.DeleteHistory)
			}

			// Relationships
			protected.GET("/relationships", h.Relationship.ListAll)
			protected.DELETE("/relationships/:id", middleware.RequireAdmin(), h.Relationship.Delete)

			// Lookups
			lookups := protected.Group("/lookups")
			{
				lookups.GET("", h.Lookup.List)

				admin := lookups.Group("")
				admin.Use(middleware.RequireAdmin())
				{
					admin.POST("", h.Lookup.Create)
					admin.PUT("/:id", h.Lookup.Update)
					admin.DELETE("/:id", h.Lookup.Delete)
					admin.POST("/populate-from-membros", h.Lookup.PopulateFromMembers)
				}
			}

			// Users
			users := protected.Group("/users")
			{
				users.GET("", h.User.List)

				admin := users.Group("")
				admin.Use(middleware.RequireAdmin())
				{
					admin.PUT("/:id", h.User.Update)
					admin.DELETE("/:id", h.User.Delete)
					admin.POST("/:id/toggle-active", h.User.ToggleActive)
				}
			}

			// Geographic proxy
			protected.GET("/municipios/info", h.Municipio.Info)
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func getEmailStatus(emailSvc *email.Service) string {
	if emailSvc != nil {
		return "configured"
	}
	return "disabled"
}
