package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hostelcare/backend/internal/api/handler"
	"hostelcare/backend/internal/assignment"
	"hostelcare/backend/internal/complaint"
	"hostelcare/backend/internal/config"
	"hostelcare/backend/internal/models"
	"hostelcare/backend/internal/notify"
	"hostelcare/backend/internal/storage"
	"hostelcare/backend/internal/viewhub"
)

func setupDependencies(cfg config.Config, log *logrus.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Complaint{},
		&models.Worker{},
		&models.Profile{},
		&models.UserRole{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Info("Database and Redis connections established, migrations complete")
	return db, rdb
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file loaded")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies(cfg, log)
	s := storage.NewService(db, rdb, log)

	hub := viewhub.NewManager(s, log)
	go hub.Run()

	complaints := complaint.NewService(s, log)
	resolver := assignment.NewResolver(s, log)

	if cfg.TelegramToken != "" && cfg.TelegramAdminChat != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramAdminChat, s, log)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		go notifier.Run()
	} else {
		log.Info("Telegram notifications disabled")
	}

	r := gin.Default()
	h := handler.NewHandler(complaints, resolver, s, hub, []byte(cfg.JWTSecret), []byte(cfg.ProvisionSecret), log)
	h.EnrichRoutes(r)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Infof("Listening on %s", cfg.ListenAddr)
	log.Fatal(server.ListenAndServe())
}
