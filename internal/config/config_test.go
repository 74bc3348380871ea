package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.YtDlpPath != "yt-dlp" {
		t.Errorf("YtDlpPath = %q", cfg.YtDlpPath)
	}
	if cfg.InfoCacheTTL != time.Hour {
		t.Errorf("InfoCacheTTL = %v, want 1h", cfg.InfoCacheTTL)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("ENV", "production")
	t.Setenv("RATE_LIMIT_RPM", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TEMP_MAX_AGE", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "9001" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("ENV=production should report production")
	}
	if cfg.RateLimitRPM != 30 {
		t.Errorf("RateLimitRPM = %d", cfg.RateLimitRPM)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.TempMaxAge != 15*time.Minute {
		t.Errorf("TempMaxAge = %v", cfg.TempMaxAge)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RateLimitRPM != 10 {
		t.Errorf("RateLimitRPM = %d, want default 10", cfg.RateLimitRPM)
	}
}
