package config

import (
	"os"
	"time"
)

const (
	// MaxActiveComplaints caps how many complaints a resident may hold in
	// {pending, in_progress} at once.
	MaxActiveComplaints = 2

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL = 72 * time.Hour

	// RoleCacheTTL bounds staleness of the Redis role-lookup cache. Role
	// changes take effect within this window.
	RoleCacheTTL = 5 * time.Minute

	// ChangeFeedChannel is the Redis pub/sub channel carrying complaint
	// change events.
	ChangeFeedChannel = "complaints:changes"
)

// Config holds everything read from the environment.
type Config struct {
	ListenAddr    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string

	// ProvisionSecret authorizes the identity provider to mint bearer tokens
	// through /api/auth/token. Empty disables the endpoint.
	ProvisionSecret string

	// TelegramToken and TelegramAdminChat enable the admin notification
	// bot; both empty disables it.
	TelegramToken     string
	TelegramAdminChat string
}

// Load reads the configuration from environment variables, applying local
// defaults for everything except the JWT secret.
func Load() Config {
	return Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		PostgresDSN:       getEnv("POSTGRES_DSN", "host=localhost user=user password=password dbname=hostelcare port=5432 sslmode=disable"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		ProvisionSecret:   os.Getenv("PROVISION_SECRET"),
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChat: os.Getenv("TELEGRAM_ADMIN_CHAT"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
