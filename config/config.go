package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Catalog store kinds accepted by CATALOG_STORE.
const (
	CatalogStoreMemory   = "memory"
	CatalogStorePostgres = "postgres"
	CatalogStoreSQLite   = "sqlite"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// CatalogStore selects where events and bookings live.
	CatalogStore      string
	CatalogSQLitePath string

	// StoragePath is the SQLite file backing accounts and the active session.
	StoragePath string

	RabbitURL string

	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	AdminEmail    string
	AdminName     string
	AdminPassword string

	LogLevel string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "eventhub_db"),

		CatalogStore:      getEnv("CATALOG_STORE", CatalogStoreMemory),
		CatalogSQLitePath: getEnv("CATALOG_SQLITE_PATH", "data/catalog.db"),
		StoragePath:       getEnv("STORAGE_PATH", "data/eventhub.db"),

		RabbitURL: getEnv("RABBIT_URL", ""),

		JWTSecret:  getEnv("JWT_SECRET", "change-me"),
		SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),
		BcryptCost: getInt("BCRYPT_COST", 10),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminName:     getEnv("ADMIN_NAME", "Admin User"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "password"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.CatalogStore {
	case CatalogStoreMemory, CatalogStorePostgres, CatalogStoreSQLite:
	default:
		return fmt.Errorf("unknown CATALOG_STORE %q", c.CatalogStore)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
