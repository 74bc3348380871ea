package domain

import (
	"errors"
	"fmt"
	"os"
)

// Config validation errors.
var (
	ErrEmptyURL            = errors.New("URL cannot be empty")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrCookiesNotFound     = errors.New("cookies file not found")
)

// DownloadConfig describes one download request. In batch mode a template
// config is shared read-only across workers and per-URL copies are derived
// with WithURL, so the struct is treated as immutable once built.
type DownloadConfig struct {
	URL          string
	Platform     Platform
	DownloadType DownloadType // empty means video-style handling
	OutputDir    string
	Quality      string
	Format       string // explicit format selector, overrides defaults
	CookiesFile  string

	Metadata     bool
	Subtitles    bool
	Thumbnail    bool
	Sponsorblock bool

	ConcurrentFragments int
	Retries             int
	RateLimit           string
	Proxy               string
}

// DefaultConfig returns a config with the original tool's defaults applied.
func DefaultConfig() DownloadConfig {
	return DownloadConfig{
		Quality:             "best",
		ConcurrentFragments: 1,
		Retries:             10,
	}
}

// WithURL derives a fresh config for one URL from a template. When the
// template platform is unknown the platform is detected from the URL,
// which lets a single generic template drive a mixed-platform batch.
// The template itself is never mutated.
func (c DownloadConfig) WithURL(rawURL string) DownloadConfig {
	derived := c
	derived.URL = rawURL
	if c.Platform == PlatformUnknown || c.Platform == "" {
		derived.Platform = DetectPlatform(rawURL)
	}
	return derived
}

// Validate checks the config and prepares the output directory.
//
// The checks run in a fixed order: URL, platform, output directory,
// cookies file. Creating the output directory is the only side effect,
// and it happens only after the platform check passes, so a rejected
// unknown-platform config leaves no directory behind.
func (c *DownloadConfig) Validate() error {
	if c.URL == "" {
		return ErrEmptyURL
	}

	if c.Platform == PlatformUnknown || c.Platform == "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, c.URL)
	}

	if c.OutputDir != "" {
		if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if c.CookiesFile != "" {
		if _, err := os.Stat(c.CookiesFile); err != nil {
			return fmt.Errorf("%w: %s", ErrCookiesNotFound, c.CookiesFile)
		}
	}

	return nil
}
