// Package main is the command-line batch downloader.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/multigrab/multigrab/internal/domain"
	"github.com/multigrab/multigrab/internal/service/batch"
	"github.com/multigrab/multigrab/internal/service/downloader"
	"github.com/multigrab/multigrab/pkg/logger"
)

// options holds the parsed command-line flags.
type options struct {
	inputFile string
	outputDir string
	dlType    string
	format    string
	quality   string
	platform  string
	cookies   string
	proxy     string
	rateLimit string
	retries   int
	fragments int

	metadata     bool
	subtitles    bool
	thumbnail    bool
	sponsorblock bool

	workers  int
	logFile  string
	logLevel string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options

	fl := flag.NewFlagSet("multigrab", flag.ContinueOnError)
	fl.StringVar(&opts.inputFile, "input-file", "", "file containing URLs to download (one per line)")
	fl.StringVar(&opts.outputDir, "output-dir", filepath.Join(".", "downloads"), "directory to save downloads")
	fl.StringVar(&opts.dlType, "type", "", "content type: video, audio, post, story, profile-pic, highlights")
	fl.StringVar(&opts.format, "format", "", "format code or quality specification")
	fl.StringVar(&opts.quality, "quality", "best", "quality preference (best, 1080p, etc.)")
	fl.StringVar(&opts.platform, "platform", "auto", "platform: youtube, instagram, tiktok, twitter, facebook, dailymotion, vimeo, auto")
	fl.StringVar(&opts.cookies, "cookies", "", "path to cookies file for authentication")
	fl.StringVar(&opts.proxy, "proxy", "", "proxy to use for downloads")
	fl.StringVar(&opts.rateLimit, "rate-limit", "", "download rate limit (e.g. 50K or 4.2M)")
	fl.IntVar(&opts.retries, "retries", 10, "number of retries for failed downloads")
	fl.IntVar(&opts.fragments, "concurrent", 1, "number of concurrent fragments to download")
	fl.BoolVar(&opts.metadata, "metadata", false, "download metadata")
	fl.BoolVar(&opts.subtitles, "subtitles", false, "download subtitles/closed captions")
	fl.BoolVar(&opts.thumbnail, "thumbnail", false, "download thumbnail")
	fl.BoolVar(&opts.sponsorblock, "sponsorblock", false, "use SponsorBlock for YouTube videos")
	fl.IntVar(&opts.workers, "workers", 4, "number of concurrent downloads for batch processing")
	fl.StringVar(&opts.logFile, "log-file", "downloader.log", "log file (empty to log to stdout only)")
	fl.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if err := fl.Parse(args); err != nil {
		return 1
	}

	if err := logger.Setup(&logger.Config{Level: opts.logLevel, File: opts.logFile}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	urls, err := collectURLs(fl.Args(), opts.inputFile)
	if err != nil {
		slog.Error("error reading input file", "error", err)
		return 1
	}
	if len(urls) == 0 {
		slog.Error("no URLs provided")
		return 1
	}

	template, err := buildTemplate(opts)
	if err != nil {
		slog.Error("invalid options", "error", err)
		return 1
	}

	runner := downloader.NewRunner("", slog.Default())
	coordinator := batch.NewCoordinator(runner, slog.Default())

	result := coordinator.Run(context.Background(), urls, template, opts.workers)
	summary := result.Summary()

	slog.Info("download summary",
		"total", summary.Total,
		"successful", summary.Succeeded,
		"failed", summary.Total-summary.Succeeded,
	)

	if !summary.AllSucceeded() {
		for _, url := range summary.Failed {
			slog.Error("failed", "url", url)
		}
		return 1
	}

	return 0
}

// collectURLs merges positional URLs with the optional input file.
// Blank lines and #-comments in the file are skipped.
func collectURLs(positional []string, inputFile string) ([]string, error) {
	urls := append([]string(nil), positional...)

	if inputFile == "" {
		return urls, nil
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// buildTemplate converts parsed flags into the batch template config.
func buildTemplate(opts options) (domain.DownloadConfig, error) {
	cfg := domain.DefaultConfig()

	platform, ok := domain.ParsePlatform(opts.platform)
	if !ok {
		return cfg, fmt.Errorf("unknown platform %q", opts.platform)
	}
	cfg.Platform = platform

	if opts.dlType != "" {
		dlType, ok := domain.ParseDownloadType(opts.dlType)
		if !ok {
			return cfg, fmt.Errorf("unknown download type %q", opts.dlType)
		}
		cfg.DownloadType = dlType
	}

	cfg.OutputDir = opts.outputDir
	cfg.Quality = opts.quality
	cfg.Format = opts.format
	cfg.CookiesFile = opts.cookies
	cfg.Metadata = opts.metadata
	cfg.Subtitles = opts.subtitles
	cfg.Thumbnail = opts.thumbnail
	cfg.Sponsorblock = opts.sponsorblock
	cfg.ConcurrentFragments = opts.fragments
	cfg.Retries = opts.retries
	cfg.RateLimit = opts.rateLimit
	cfg.Proxy = opts.proxy

	return cfg, nil
}
