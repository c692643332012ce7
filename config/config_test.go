package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "NOTIFICATION_GROUP_WINDOW", "NOTIFICATION_LIST_LIMIT", "NOTIFY_ASYNC"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.DBDriver != "postgres" {
		t.Fatalf("driver = %q", c.DBDriver)
	}
	if c.NotificationGroupWindow != 24*time.Hour {
		t.Fatalf("window = %v", c.NotificationGroupWindow)
	}
	if c.NotificationListLimit != 200 {
		t.Fatalf("limit = %d", c.NotificationListLimit)
	}
	if c.NotifyAsync {
		t.Fatal("async should default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("NOTIFICATION_GROUP_WINDOW", "2h")
	t.Setenv("NOTIFICATION_LIST_LIMIT", "nope")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test, ,http://b.test")

	c := Load()
	if c.DBDriver != "sqlite" {
		t.Fatalf("driver = %q", c.DBDriver)
	}
	if c.NotificationGroupWindow != 2*time.Hour {
		t.Fatalf("window = %v", c.NotificationGroupWindow)
	}
	if c.NotificationListLimit != 200 {
		t.Fatalf("invalid int should fall back, got %d", c.NotificationListLimit)
	}
	if got := c.CORSOrigins(); len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("origins = %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ".env")
	if err := os.WriteFile(f, []byte("SEED_ADMIN_NAME=Root\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEED_ADMIN_NAME", "")
	os.Unsetenv("SEED_ADMIN_NAME")

	LoadDotEnv(filepath.Join(dir, "missing.env"), f)
	if got := Load().SeedAdminName; got != "Root" {
		t.Fatalf("SeedAdminName = %q", got)
	}
}
