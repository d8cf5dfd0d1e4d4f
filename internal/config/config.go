package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/service/bot"
)

type Config struct {
	Port                 string
	BoardRows            int
	BoardColumns         int
	AllowedOrigins       []string
	DBDriver             string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisAddr            string
	RedisPassword        string
	SnapshotTTL          time.Duration
	JWTSecret            string
	SeatTokenTTL         time.Duration
	BotDifficulty        string
	BotMoveDelay         time.Duration
	SessionTTL           time.Duration
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Database Config
	// sqlite keeps local runs self-contained, postgres is used in deployments
	dbDriver := GetEnv("DB_DRIVER", "sqlite")
	defaultURL := ""
	if dbDriver == "sqlite" {
		defaultURL = "puissance4.db"
	}
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", defaultURL))

	return &Config{
		Port:                 port,
		BoardRows:            GetEnvAsInt("BOARD_ROWS", domain.DefaultRows),
		BoardColumns:         GetEnvAsInt("BOARD_COLUMNS", domain.DefaultColumns),
		AllowedOrigins:       allowedOrigins,
		DBDriver:             dbDriver,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisAddr:            GetEnv("REDIS_URL", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		SnapshotTTL:          time.Duration(GetEnvAsInt("SNAPSHOT_TTL_MINUTES", 60)) * time.Minute,
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		SeatTokenTTL:         time.Duration(GetEnvAsInt("SEAT_TOKEN_TTL_HOURS", 24)) * time.Hour,
		BotDifficulty:        GetEnv("BOT_DIFFICULTY", "medium"),
		BotMoveDelay:         GetEnvAsDuration("BOT_MOVE_DELAY_MS", 500*time.Millisecond, time.Millisecond),
		SessionTTL:           time.Duration(GetEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
	}
}

// Validate checks the settings the game engine cannot run without.
func (c *Config) Validate() error {
	if c.BoardRows <= 0 || c.BoardColumns <= 0 {
		return fmt.Errorf("%w: BOARD_ROWS=%d BOARD_COLUMNS=%d", domain.ErrConfiguration, c.BoardRows, c.BoardColumns)
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for driver %s", c.DBDriver)
	}
	if !bot.IsValidDifficulty(c.BotDifficulty) {
		return fmt.Errorf("%w: BOT_DIFFICULTY=%q", bot.ErrUnknownDifficulty, c.BotDifficulty)
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue, unit time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		log.Printf("Invalid duration value for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}
	return time.Duration(value) * unit
}
