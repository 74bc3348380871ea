// Package downloader provides a wrapper around yt-dlp for single downloads.
package downloader

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/multigrab/multigrab/internal/domain"
)

const (
	// defaultCookieFile is picked up from the working directory for
	// YouTube downloads when no explicit cookies file is configured.
	defaultCookieFile = "insta.txt"

	// cookieBrowser is the browser yt-dlp extracts Instagram cookies from
	// when no cookie file is available. Assumes the browser exists in the
	// execution environment.
	cookieBrowser = "chrome"
)

// outputTemplates maps each platform to its yt-dlp filename template.
var outputTemplates = map[domain.Platform]string{
	domain.PlatformYouTube:     "%(title)s [%(id)s].%(ext)s",
	domain.PlatformInstagram:   "%(uploader)s - %(title)s [%(id)s].%(ext)s",
	domain.PlatformTikTok:      "%(uploader)s - %(title)s [%(id)s].%(ext)s",
	domain.PlatformTwitter:     "%(uploader)s - %(title)s [%(id)s].%(ext)s",
	domain.PlatformFacebook:    "%(title)s [%(id)s].%(ext)s",
	domain.PlatformDailymotion: "%(title)s [%(id)s].%(ext)s",
	domain.PlatformVimeo:       "%(title)s [%(id)s].%(ext)s",
}

const fallbackTemplate = "%(title)s [%(id)s].%(ext)s"

// defaultVideoFormats maps each platform to its default video format selector.
var defaultVideoFormats = map[domain.Platform]string{
	domain.PlatformYouTube:     "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
	domain.PlatformInstagram:   "best",
	domain.PlatformTikTok:      "best",
	domain.PlatformTwitter:     "best",
	domain.PlatformFacebook:    "best",
	domain.PlatformDailymotion: "best",
	domain.PlatformVimeo:       "best",
}

// BuildArgs constructs the yt-dlp argument list for a config. The result is
// fully determined by the config and the on-disk presence of cookie files;
// the target URL is always the final argument.
func BuildArgs(cfg domain.DownloadConfig) []string {
	args := []string{
		"--no-playlist",
		"--ignore-errors",
		"--retries", strconv.Itoa(cfg.Retries),
		"--concurrent-fragments", strconv.Itoa(cfg.ConcurrentFragments),
		"--progress",
		"--newline",
		"--console-title",
	}

	args = append(args, "-o", OutputTemplate(cfg))
	args = append(args, "-f", formatSelector(cfg))

	if cfg.RateLimit != "" {
		args = append(args, "--limit-rate", cfg.RateLimit)
	}

	if cfg.Proxy != "" {
		args = append(args, "--proxy", cfg.Proxy)
	}

	args = append(args, cookieArgs(cfg)...)
	args = append(args, cfg.URL)

	return args
}

// OutputTemplate returns the output path template for a config. Audio
// downloads land under <output_dir>/Audio, everything else (including
// unset download types) under <output_dir>/Video.
func OutputTemplate(cfg domain.DownloadConfig) string {
	base, ok := outputTemplates[cfg.Platform]
	if !ok {
		base = fallbackTemplate
	}

	subdir := "Video"
	if cfg.DownloadType == domain.TypeAudio {
		subdir = "Audio"
	}

	return filepath.Join(cfg.OutputDir, subdir, base)
}

// formatSelector resolves the yt-dlp format selector. An explicit format
// on the config always wins; otherwise the selection falls back to the
// per-type / per-platform defaults. POST, STORY, PROFILE_PIC and
// HIGHLIGHTS share the video defaults.
func formatSelector(cfg domain.DownloadConfig) string {
	if cfg.Format != "" {
		return cfg.Format
	}

	if cfg.DownloadType == domain.TypeAudio {
		return "bestaudio/best"
	}

	if format, ok := defaultVideoFormats[cfg.Platform]; ok {
		return format
	}
	return "best"
}

// cookieArgs resolves credentials by precedence: an explicit existing
// cookies file, then the default cookie file (YouTube only), then browser
// extraction (Instagram only), then nothing. Reordering these would change
// observable authentication behavior.
func cookieArgs(cfg domain.DownloadConfig) []string {
	if cfg.CookiesFile != "" && fileExists(cfg.CookiesFile) {
		return []string{"--cookies", cfg.CookiesFile}
	}

	if cfg.Platform == domain.PlatformYouTube && fileExists(defaultCookieFile) {
		return []string{"--cookies", defaultCookieFile}
	}

	if cfg.Platform == domain.PlatformInstagram {
		return []string{"--cookies-from-browser", cookieBrowser}
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
