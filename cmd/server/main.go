package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gwatch.ca/goosewatch/internal/config"
	"gwatch.ca/goosewatch/internal/handler"
	"gwatch.ca/goosewatch/internal/repository"
	"gwatch.ca/goosewatch/internal/service"
	"gwatch.ca/goosewatch/pkg/database"
	"gwatch.ca/goosewatch/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		log.Fatalf("failed to bootstrap store: %v", err)
	}
	defer store.Close()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	imageStorage, serveUploads, err := newImageStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize image storage: %v", err)
	}

	reportService := service.NewReportService(store, redisClient, cfg.ReportCooldown)
	profileService := service.NewProfileService(store)

	reportHandler := handler.NewReportHandler(reportService, imageStorage)
	profileHandler := handler.NewProfileHandler(profileService)
	leaderboardHandler := handler.NewLeaderboardHandler(reportService)
	campusHandler := handler.NewCampusHandler()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg.AllowedOrigins)

	if serveUploads {
		router.Static("/uploads", cfg.UploadsDir)
	}

	api := router.Group("/api")
	{
		api.GET("/reports", reportHandler.GetReports)
		api.GET("/reports/:id", reportHandler.GetReportByID)
		api.POST("/reports", reportHandler.CreateReport)
		api.POST("/reports/:id/comments", reportHandler.AddComment)
		api.POST("/reports/:id/reactions", reportHandler.ToggleReaction)

		api.GET("/profiles/:id", profileHandler.GetProfile)
		api.PUT("/profiles/:id", profileHandler.UpsertProfile)

		api.GET("/leaderboard/weekly", leaderboardHandler.GetWeeklyLeaderboard)

		api.GET("/habitats", campusHandler.GetHabitats)
		api.GET("/campus-bounds", campusHandler.GetCampusBounds)
		api.GET("/health", campusHandler.Health)
	}

	// Reads and writes already sweep opportunistically; the ticker keeps an
	// idle deployment from holding expired reports on disk.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			removed, err := store.CleanupOldReports(context.Background())
			if err != nil {
				log.Printf("retention sweep failed: %v", err)
			} else if removed > 0 {
				log.Printf("retention sweep removed %d expired reports", removed)
			}
		}
	}()

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// newStore selects the backend once at startup: postgres when DATABASE_URL is
// configured, the JSON file store otherwise.
func newStore(cfg *config.Config) (repository.ReportStore, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("using file store in %s", cfg.DataDir)
		return repository.NewFileStore(cfg.DataDir), nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Println("using postgres store")
	return repository.NewPgStore(db), nil
}

func newImageStorage(cfg *config.Config) (storage.ImageStorage, bool, error) {
	if cfg.CloudinaryURL != "" {
		s, err := storage.NewCloudinaryStorage()
		return s, false, err
	}
	s, err := storage.NewLocalStorage(cfg.UploadsDir, "/uploads")
	return s, true, err
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
