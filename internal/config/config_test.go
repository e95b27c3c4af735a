package config

import (
	"testing"
	"time"
)

// allEnvVars lists every variable Load reads; each test clears them first.
var allEnvVars = []string{
	"MARKETPRO_HTTP_ADDR", "MARKETPRO_GRPC_ADDR", "MARKETPRO_STORE", "MARKETPRO_DATA_FILE",
	"MARKETPRO_DATABASE_URL", "MARKETPRO_SQLITE_PATH", "MARKETPRO_STATIC_DIR", "MARKETPRO_NATS_URL",
	"MARKETPRO_REQUIRE_AUTH", "MARKETPRO_ADMIN_USER", "MARKETPRO_ADMIN_PASSWORD", "MARKETPRO_LOGIN_RATE",
	"MARKETPRO_GENAI_API_KEY", "MARKETPRO_GENAI_MODEL", "MARKETPRO_PUBLISH_HOOK", "MARKETPRO_PUBLISH_HOOK_TIMEOUT",
	"MARKETPRO_BACKUP_INTERVAL", "MARKETPRO_BACKUP_S3_BUCKET", "MARKETPRO_BACKUP_S3_ENDPOINT",
	"MARKETPRO_BACKUP_S3_REGION", "MARKETPRO_BACKUP_S3_KEY", "MARKETPRO_BACKUP_GIT_REPO",
	"MARKETPRO_BACKUP_GIT_FILE", "MARKETPRO_BACKUP_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantStore    string
		wantHTTPAddr string
		wantGRPCAddr string
		wantNATSURL  string
	}{
		{
			name:         "Defaults",
			env:          map[string]string{},
			wantStore:    StoreFile,
			wantHTTPAddr: ":3000",
			wantGRPCAddr: ":9090",
		},
		{
			name:    "PostgresWithoutURL",
			env:     map[string]string{"MARKETPRO_STORE": "postgres"},
			wantErr: true,
		},
		{
			name: "PostgresWithURL",
			env: map[string]string{
				"MARKETPRO_STORE":        "postgres",
				"MARKETPRO_DATABASE_URL": "postgres://db:5432/marketpro",
				"MARKETPRO_HTTP_ADDR":    ":8080",
				"MARKETPRO_NATS_URL":     "nats://localhost:4222",
			},
			wantStore:    StorePostgres,
			wantHTTPAddr: ":8080",
			wantGRPCAddr: ":9090",
			wantNATSURL:  "nats://localhost:4222",
		},
		{
			name:         "SQLite",
			env:          map[string]string{"MARKETPRO_STORE": "sqlite", "MARKETPRO_GRPC_ADDR": ":5050"},
			wantStore:    StoreSQLite,
			wantHTTPAddr: ":3000",
			wantGRPCAddr: ":5050",
		},
		{
			name:    "UnknownStore",
			env:     map[string]string{"MARKETPRO_STORE": "mongo"},
			wantErr: true,
		},
		{
			name:    "InvalidRequireAuth",
			env:     map[string]string{"MARKETPRO_REQUIRE_AUTH": "maybe"},
			wantErr: true,
		},
		{
			name:    "NonPositiveLoginRate",
			env:     map[string]string{"MARKETPRO_LOGIN_RATE": "0"},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Store != tc.wantStore {
				t.Errorf("Store = %q, want %q", cfg.Store, tc.wantStore)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.GRPCAddr != tc.wantGRPCAddr {
				t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, tc.wantGRPCAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadSessionDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.RequireAuth {
		t.Error("RequireAuth should default to true")
	}
	if cfg.AdminUser != "admin" || cfg.AdminPassword != "admin123" {
		t.Errorf("credentials = %q/%q, want admin/admin123", cfg.AdminUser, cfg.AdminPassword)
	}
	if cfg.LoginRate != 1 {
		t.Errorf("LoginRate = %v, want 1", cfg.LoginRate)
	}
	if cfg.DataFile != "data.json" {
		t.Errorf("DataFile = %q, want data.json", cfg.DataFile)
	}
}

func TestLoadOpenWrites(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("MARKETPRO_REQUIRE_AUTH", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RequireAuth {
		t.Error("RequireAuth = true, want false")
	}
}

func TestLoadBackup(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("MARKETPRO_BACKUP_INTERVAL", "10m")
	t.Setenv("MARKETPRO_BACKUP_S3_BUCKET", "site-backups")
	t.Setenv("MARKETPRO_BACKUP_GIT_REPO", "/srv/site-backup")
	t.Setenv("MARKETPRO_BACKUP_GIT_BRANCH", "backup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupInterval != 10*time.Minute {
		t.Errorf("BackupInterval = %v, want 10m", cfg.BackupInterval)
	}
	if cfg.BackupS3Bucket != "site-backups" {
		t.Errorf("BackupS3Bucket = %q", cfg.BackupS3Bucket)
	}
	if cfg.BackupS3Region != "us-east-1" {
		t.Errorf("BackupS3Region = %q, want us-east-1", cfg.BackupS3Region)
	}
	if cfg.BackupS3Key != "marketpro/data.json" {
		t.Errorf("BackupS3Key = %q", cfg.BackupS3Key)
	}
	if cfg.BackupGitFile != "data.json" {
		t.Errorf("BackupGitFile = %q", cfg.BackupGitFile)
	}
	if cfg.BackupGitBranch != "backup" {
		t.Errorf("BackupGitBranch = %q", cfg.BackupGitBranch)
	}
}

func TestLoadBackupInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("MARKETPRO_BACKUP_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid MARKETPRO_BACKUP_INTERVAL")
	}
}

func TestLoadBackupDisabledByDefault(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupInterval != 0 {
		t.Errorf("BackupInterval = %v, want 0 (disabled)", cfg.BackupInterval)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestLoadPublishHook(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("MARKETPRO_PUBLISH_HOOK", "make export")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PublishHook != "make export" {
		t.Errorf("PublishHook = %q", cfg.PublishHook)
	}
	if cfg.PublishHookTimeout != 30*time.Second {
		t.Errorf("PublishHookTimeout = %v, want 30s", cfg.PublishHookTimeout)
	}

	t.Setenv("MARKETPRO_PUBLISH_HOOK_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid MARKETPRO_PUBLISH_HOOK_TIMEOUT")
	}
}
