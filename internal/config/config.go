package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	defaultSessionSecret = "default-secret-key-change-me"
	defaultJWTSecret     = "default-jwt-secret-change-me"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Session      SessionConfig
	JWT          JWTConfig
	CORS         CORSConfig
	OpenAIAPIKey string
}

type ServerConfig struct {
	Port     string
	GinMode  string
	Timezone string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path is the database file used by the sqlite driver.
	Path string
}

type SessionConfig struct {
	Store     string
	Secret    string
	RedisHost string
	RedisPort string
	MaxAge    int
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	mode := getEnv("GIN_MODE", "debug")
	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))

	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			GinMode:  mode,
			Timezone: getEnv("APP_TIMEZONE", "Local"),
		},
		Database: DatabaseConfig{
			Driver:   driver,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", defaultDBPort(driver)),
			User:     getEnv("DB_USER", "taskuser"),
			Password: getEnv("DB_PASSWORD", "taskpassword"),
			Name:     getEnv("DB_NAME", "task_management"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "taskmaster.db"),
		},
		Session: SessionConfig{
			Store:     strings.ToLower(getEnv("SESSION_STORE", "redis")),
			Secret:    getEnv("SESSION_SECRET", defaultSessionSecret),
			RedisHost: getEnv("REDIS_HOST", "localhost"),
			RedisPort: getEnv("REDIS_PORT", "6379"),
			MaxAge:    getEnvInt("SESSION_MAX_AGE", 86400*7),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", defaultJWTSecret),
			ExpiresIn: time.Duration(getEnvInt("JWT_EXPIRES_HOURS", 24)) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4200")),
		},
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}

	if cfg.IsProduction() {
		if cfg.Session.Secret == defaultSessionSecret {
			log.Fatal("FATAL: SESSION_SECRET must be set in production environment")
		}
		if cfg.JWT.Secret == defaultJWTSecret {
			log.Fatal("FATAL: JWT_SECRET must be set in production environment")
		}
	}

	return cfg
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Server.GinMode == "release"
}

// Location resolves the configured timezone used for day boundaries.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		log.Printf("Warning: unknown APP_TIMEZONE %q, falling back to Local", c.Server.Timezone)
		return time.Local
	}
	return loc
}

func defaultDBPort(driver string) string {
	if driver == "postgres" {
		return "5432"
	}
	return "3306"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer value for %s: %s, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
