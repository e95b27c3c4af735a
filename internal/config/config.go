package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr    string // MARKETPRO_HTTP_ADDR (default ":3000")
	GRPCAddr    string // MARKETPRO_GRPC_ADDR (default ":9090"; empty = no health listener)
	Store       string // MARKETPRO_STORE (file|postgres|sqlite, default "file")
	DataFile    string // MARKETPRO_DATA_FILE (default "data.json")
	DatabaseURL string // MARKETPRO_DATABASE_URL (required when Store=postgres)
	SQLitePath  string // MARKETPRO_SQLITE_PATH (default "marketpro.db")
	StaticDir   string // MARKETPRO_STATIC_DIR (optional, compiled SPA bundle)
	NATSURL     string // MARKETPRO_NATS_URL (optional, empty = no events)

	// Session gate
	RequireAuth   bool    // MARKETPRO_REQUIRE_AUTH (default true)
	AdminUser     string  // MARKETPRO_ADMIN_USER (default "admin")
	AdminPassword string  // MARKETPRO_ADMIN_PASSWORD (default "admin123")
	LoginRate     float64 // MARKETPRO_LOGIN_RATE (attempts per second per client, default 1)

	// Assistant
	GenAIAPIKey string // MARKETPRO_GENAI_API_KEY (optional, empty = canned replies)
	GenAIModel  string // MARKETPRO_GENAI_MODEL (default "gemini-2.5-flash")

	// Publish hook
	PublishHook        string        // MARKETPRO_PUBLISH_HOOK (optional shell command run after each document update)
	PublishHookTimeout time.Duration // MARKETPRO_PUBLISH_HOOK_TIMEOUT (default 30s)

	// Backup settings
	BackupInterval   time.Duration // MARKETPRO_BACKUP_INTERVAL (default 0 = disabled)
	BackupS3Bucket   string        // MARKETPRO_BACKUP_S3_BUCKET (enables S3 when set)
	BackupS3Endpoint string        // MARKETPRO_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string        // MARKETPRO_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Key      string        // MARKETPRO_BACKUP_S3_KEY (default "marketpro/data.json")
	BackupGitRepo    string        // MARKETPRO_BACKUP_GIT_REPO (enables git when set; path to clone)
	BackupGitFile    string        // MARKETPRO_BACKUP_GIT_FILE (default "data.json")
	BackupGitBranch  string        // MARKETPRO_BACKUP_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:         envOrDefault("MARKETPRO_HTTP_ADDR", ":3000"),
		GRPCAddr:         envOrDefault("MARKETPRO_GRPC_ADDR", ":9090"),
		Store:            envOrDefault("MARKETPRO_STORE", StoreFile),
		DataFile:         envOrDefault("MARKETPRO_DATA_FILE", "data.json"),
		DatabaseURL:      os.Getenv("MARKETPRO_DATABASE_URL"),
		SQLitePath:       envOrDefault("MARKETPRO_SQLITE_PATH", "marketpro.db"),
		StaticDir:        os.Getenv("MARKETPRO_STATIC_DIR"),
		NATSURL:          os.Getenv("MARKETPRO_NATS_URL"),
		AdminUser:        envOrDefault("MARKETPRO_ADMIN_USER", "admin"),
		AdminPassword:    envOrDefault("MARKETPRO_ADMIN_PASSWORD", "admin123"),
		GenAIAPIKey:      os.Getenv("MARKETPRO_GENAI_API_KEY"),
		GenAIModel:       envOrDefault("MARKETPRO_GENAI_MODEL", "gemini-2.5-flash"),
		PublishHook:      os.Getenv("MARKETPRO_PUBLISH_HOOK"),
		BackupS3Bucket:   os.Getenv("MARKETPRO_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("MARKETPRO_BACKUP_S3_ENDPOINT"),
		BackupS3Region:   envOrDefault("MARKETPRO_BACKUP_S3_REGION", "us-east-1"),
		BackupS3Key:      envOrDefault("MARKETPRO_BACKUP_S3_KEY", "marketpro/data.json"),
		BackupGitRepo:    os.Getenv("MARKETPRO_BACKUP_GIT_REPO"),
		BackupGitFile:    envOrDefault("MARKETPRO_BACKUP_GIT_FILE", "data.json"),
		BackupGitBranch:  envOrDefault("MARKETPRO_BACKUP_GIT_BRANCH", "main"),
	}

	switch c.Store {
	case StoreFile, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("MARKETPRO_DATABASE_URL is required when MARKETPRO_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("MARKETPRO_STORE: unknown backend %q", c.Store)
	}

	requireAuth, err := strconv.ParseBool(envOrDefault("MARKETPRO_REQUIRE_AUTH", "true"))
	if err != nil {
		return nil, fmt.Errorf("MARKETPRO_REQUIRE_AUTH: %w", err)
	}
	c.RequireAuth = requireAuth

	loginRate, err := strconv.ParseFloat(envOrDefault("MARKETPRO_LOGIN_RATE", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("MARKETPRO_LOGIN_RATE: %w", err)
	}
	if loginRate <= 0 {
		return nil, fmt.Errorf("MARKETPRO_LOGIN_RATE: must be positive, got %v", loginRate)
	}
	c.LoginRate = loginRate

	hookTimeout, err := time.ParseDuration(envOrDefault("MARKETPRO_PUBLISH_HOOK_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("MARKETPRO_PUBLISH_HOOK_TIMEOUT: %w", err)
	}
	c.PublishHookTimeout = hookTimeout

	intervalStr := envOrDefault("MARKETPRO_BACKUP_INTERVAL", "0")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("MARKETPRO_BACKUP_INTERVAL: %w", err)
	}
	c.BackupInterval = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
