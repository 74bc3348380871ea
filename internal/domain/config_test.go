package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_EmptyURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Platform = PlatformYouTube

	err := cfg.Validate()
	if !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
}

func TestValidate_UnsupportedPlatform(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")

	cfg := DefaultConfig()
	cfg.URL = "https://example.com/video"
	cfg.Platform = PlatformUnknown
	cfg.OutputDir = outputDir

	err := cfg.Validate()
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
	}

	// The platform check rejects before the output dir side effect runs.
	if _, statErr := os.Stat(outputDir); !os.IsNotExist(statErr) {
		t.Errorf("output dir should not be created on failed platform check")
	}
}

func TestValidate_CreatesOutputDir(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "nested", "out")

	cfg := DefaultConfig()
	cfg.URL = "https://youtube.com/watch?v=abc"
	cfg.Platform = PlatformYouTube
	cfg.OutputDir = outputDir

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("output dir path is not a directory")
	}
}

func TestValidate_CookiesNotFound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "https://youtube.com/watch?v=abc"
	cfg.Platform = PlatformYouTube
	cfg.OutputDir = t.TempDir()
	cfg.CookiesFile = filepath.Join(t.TempDir(), "missing.txt")

	err := cfg.Validate()
	if !errors.Is(err, ErrCookiesNotFound) {
		t.Errorf("expected ErrCookiesNotFound, got %v", err)
	}
}

func TestValidate_CookiesPresent(t *testing.T) {
	cookies := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(cookies, []byte("# Netscape HTTP Cookie File\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.URL = "https://youtube.com/watch?v=abc"
	cfg.Platform = PlatformYouTube
	cfg.OutputDir = t.TempDir()
	cfg.CookiesFile = cookies

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestWithURL_DetectsPlatformForGenericTemplate(t *testing.T) {
	template := DefaultConfig()
	template.Platform = PlatformUnknown
	template.OutputDir = "/tmp/downloads"
	template.Retries = 3

	derived := template.WithURL("https://www.tiktok.com/@user/video/123")

	if derived.Platform != PlatformTikTok {
		t.Errorf("derived platform = %q, want %q", derived.Platform, PlatformTikTok)
	}
	if derived.URL != "https://www.tiktok.com/@user/video/123" {
		t.Errorf("derived URL not set: %q", derived.URL)
	}
	if derived.Retries != 3 || derived.OutputDir != "/tmp/downloads" {
		t.Error("derived config should inherit template fields")
	}

	// Template must stay untouched.
	if template.URL != "" || template.Platform != PlatformUnknown {
		t.Error("template was mutated by WithURL")
	}
}

func TestWithURL_KeepsExplicitPlatform(t *testing.T) {
	template := DefaultConfig()
	template.Platform = PlatformVimeo

	derived := template.WithURL("https://youtube.com/watch?v=abc")
	if derived.Platform != PlatformVimeo {
		t.Errorf("derived platform = %q, want explicit %q", derived.Platform, PlatformVimeo)
	}
}
