package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, defaultPort)
	}
	if cfg.Donation.MinimumAmount != defaultMinDonation {
		t.Errorf("MinimumAmount = %v, want %v", cfg.Donation.MinimumAmount, defaultMinDonation)
	}
	if cfg.Donation.Currency != "MAD" {
		t.Errorf("Currency = %q, want MAD", cfg.Donation.Currency)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/config.yml"); err == nil {
		t.Error("expected error for an explicitly named missing file")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
port: 8080
env: production
jwt_secret: super-secret
database:
  host: db.internal
  port: 3307
  user: edufund
  password: pw
  name: edufund_prod
redis:
  host: cache.internal
  port: 6380
donation:
  minimum_amount: 25
allowed_origins:
  - https://edufund.ma
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("env=production should not be dev")
	}
	if cfg.Donation.MinimumAmount != 25 {
		t.Errorf("MinimumAmount = %v, want 25", cfg.Donation.MinimumAmount)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://edufund.ma" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestDSNValue(t *testing.T) {
	c := DatabaseConfig{
		Host:      "db.internal",
		Port:      3307,
		User:      "edufund",
		Password:  "pw",
		Name:      "edufund_prod",
		Charset:   "utf8mb4",
		ParseTime: true,
		Loc:       "Local",
	}
	dsn := c.DSNValue()
	want := "edufund:pw@tcp(db.internal:3307)/edufund_prod?charset=utf8mb4&loc=Local&parseTime=true"
	if dsn != want {
		t.Errorf("DSNValue() = %q, want %q", dsn, want)
	}
}

func TestDSNValuePassthrough(t *testing.T) {
	c := DatabaseConfig{DSN: "user:pw@tcp(h:3306)/db"}
	if got := c.DSNValue(); got != "user:pw@tcp(h:3306)/db" {
		t.Errorf("explicit DSN should pass through, got %q", got)
	}
}

func TestRedisURLValue(t *testing.T) {
	c := RedisConfig{Host: "cache.internal", Port: 6380, Password: "s3cret", DB: 2}
	got := c.URLValue()
	want := "redis://:s3cret@cache.internal:6380/2"
	if got != want {
		t.Errorf("URLValue() = %q, want %q", got, want)
	}
}

func TestRedisURLPassthrough(t *testing.T) {
	c := RedisConfig{URL: "redis://localhost:6379/0"}
	if got := c.URLValue(); got != "redis://localhost:6379/0" {
		t.Errorf("explicit URL should pass through, got %q", got)
	}
}
