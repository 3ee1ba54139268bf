package config

import "testing"

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", ":8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ACCESS_SECRET", "access")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != ":8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost = %q", cfg.DBHost)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.AccessSecret != "access" {
		t.Errorf("AccessSecret = %q", cfg.AccessSecret)
	}
	if cfg.AllowedOrigins != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %q", cfg.AllowedOrigins)
	}
}
