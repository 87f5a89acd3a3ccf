package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken          string
	BotPassword       string
	AdminPasswordHash string
	Database          DatabaseConfig
	MigrationsPath    string
	LocalStorePath    string
	Web               WebConfig
	Feed              FeedConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// WebConfig holds HTTP view settings
type WebConfig struct {
	Addr          string
	SessionSecret string
}

// FeedConfig holds word feed settings
type FeedConfig struct {
	PageSize       int
	SessionIdleTTL time.Duration
}

// Load reads the configuration shared by every binary from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:          os.Getenv("BOT_TOKEN"),
		BotPassword:       os.Getenv("BOT_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordfeed"),
			User:     getEnv("DB_USER", "wordfeed"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		LocalStorePath: getEnv("LOCAL_STORE_PATH", "data/local.db"),
		Web: WebConfig{
			Addr:          getEnv("WEB_ADDR", ":8080"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
		},
	}

	pageSize, err := strconv.Atoi(getEnv("FEED_PAGE_SIZE", "20"))
	if err != nil || pageSize < 1 {
		return nil, fmt.Errorf("FEED_PAGE_SIZE must be a positive integer")
	}
	cfg.Feed.PageSize = pageSize

	ttl, err := time.ParseDuration(getEnv("SESSION_IDLE_TTL", "2h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must be a positive duration")
	}
	cfg.Feed.SessionIdleTTL = ttl

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// LoadBot loads configuration for the Telegram bot
func LoadBot() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}

	return cfg, nil
}

// LoadWeb loads configuration for the HTTP view
func LoadWeb() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if len(cfg.Web.SessionSecret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET is required (at least 32 bytes)")
	}

	return cfg, nil
}

// LoadCLI loads configuration for the admin CLI
func LoadCLI() (*Config, error) {
	return Load()
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
