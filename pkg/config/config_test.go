package config

import (
	"os"
	"testing"
	"time"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if c.DBHost != DefaultDBHost || c.DBPort != DefaultDBPort || c.DBName != DefaultDBName {
		t.Fatalf("unexpected db defaults: %s:%d/%s", c.DBHost, c.DBPort, c.DBName)
	}
	if c.DBUser != DefaultDBUser || c.DBPassword != DefaultDBPassword {
		t.Fatalf("unexpected db credentials: %s", c.DBUser)
	}
	if !c.UsesDefaultDBPassword() {
		t.Fatal("expected default password to be reported")
	}
	if c.DBMaxIdleConns != 0 {
		t.Fatalf("expected no idle connections by default, got %d", c.DBMaxIdleConns)
	}
	if c.PasswordHasher != "pbkdf2" {
		t.Fatalf("expected pbkdf2 hasher, got %s", c.PasswordHasher)
	}
	if !c.DBAutoMigrate {
		t.Fatal("expected auto migrate enabled by default")
	}
	if c.TrustProxyHeaders {
		t.Fatal("proxy headers must not be trusted by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_ADDR", "127.0.0.1:8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "1s")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_CONNECT_TIMEOUT", "250ms")
	t.Setenv("DB_MAX_IDLE_CONNS", "4")
	t.Setenv("PASSWORD_HASHER", "bcrypt")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if c.AppEnv != "test" || c.HTTPAddr != "127.0.0.1:8080" {
		t.Fatalf("unexpected app settings: %s %s", c.AppEnv, c.HTTPAddr)
	}
	if c.ShutdownTimeout != time.Second {
		t.Fatalf("expected 1s shutdown timeout, got %s", c.ShutdownTimeout)
	}
	if c.DBHost != "db.internal" || c.DBPort != 6543 {
		t.Fatalf("unexpected db address %s:%d", c.DBHost, c.DBPort)
	}
	if c.DBConnectTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms connect timeout, got %s", c.DBConnectTimeout)
	}
	if c.DBMaxIdleConns != 4 {
		t.Fatalf("expected 4 idle conns, got %d", c.DBMaxIdleConns)
	}
	if c.UsesDefaultDBPassword() {
		t.Fatal("custom password reported as default")
	}
	if c.PasswordHasher != "bcrypt" {
		t.Fatalf("expected bcrypt hasher, got %s", c.PasswordHasher)
	}
	if !c.TrustProxyHeaders {
		t.Fatal("expected proxy headers to be trusted")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PASSWORD_HASHER", "md5")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown hasher")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestDatabaseSettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_NAME", "users")

	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	s := c.Database()
	if s.Host != DefaultDBHost || s.Name != "users" || s.Port != DefaultDBPort {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.QueryLog {
		t.Fatal("query log should be off in production")
	}
	want := "host=localhost port=5432 dbname=users user=andres password=mi_password_segura sslmode=disable connect_timeout=5"
	if got := s.DSN(); got != want {
		t.Fatalf("dsn mismatch:\n got %s\nwant %s", got, want)
	}
}
