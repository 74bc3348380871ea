package downloader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/multigrab/multigrab/internal/domain"
)

// probeTimeout bounds metadata extraction; downloads themselves have no
// per-item timeout, retries are delegated to yt-dlp.
const probeTimeout = 30 * time.Second

// Runner executes yt-dlp for single downloads and metadata probes.
type Runner struct {
	ytDlpPath string
	logger    *slog.Logger
}

// NewRunner creates a Runner. An empty path defaults to "yt-dlp" on PATH,
// a nil logger to the process default.
func NewRunner(ytDlpPath string, logger *slog.Logger) *Runner {
	if ytDlpPath == "" {
		ytDlpPath = "yt-dlp"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		ytDlpPath: ytDlpPath,
		logger:    logger,
	}
}

// Run executes one download. Progress lines from yt-dlp's stdout are
// forwarded to the logger as they arrive so long downloads surface
// progress before completion. Failures are reported as false with the
// diagnostics logged; Run never returns an error and never panics.
func (r *Runner) Run(ctx context.Context, cfg domain.DownloadConfig) bool {
	args := BuildArgs(cfg)
	r.logger.Info("executing yt-dlp",
		"url", cfg.URL,
		"platform", cfg.Platform,
		"command", r.ytDlpPath+" "+strings.Join(args, " "),
	)

	cmd := exec.CommandContext(ctx, r.ytDlpPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.logger.Error("failed to create stdout pipe", "url", cfg.URL, "error", err)
		return false
	}

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		r.logger.Error("failed to start yt-dlp", "url", cfg.URL, "error", err)
		return false
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			r.logger.Info(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		r.logger.Error("download failed",
			"url", cfg.URL,
			"error", err,
			"stderr", strings.TrimSpace(stderr.String()),
		)
		return false
	}

	return true
}

// Execute validates a config, builds the invocation and runs it. This is
// the unit of work shared by the batch coordinator and the HTTP layer.
func (r *Runner) Execute(ctx context.Context, cfg domain.DownloadConfig) bool {
	if err := cfg.Validate(); err != nil {
		r.logger.Error("invalid download config", "url", cfg.URL, "error", err)
		return false
	}
	return r.Run(ctx, cfg)
}

// Probe retrieves video metadata without downloading anything.
func (r *Runner) Probe(ctx context.Context, url string) (*domain.VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := []string{
		"--no-download",
		"--print-json",
		"--no-playlist",
		"--no-warnings",
		url,
	}

	cmd := exec.CommandContext(ctx, r.ytDlpPath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("failed to get video info: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}

	var info domain.VideoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}

	return &info, nil
}

// Version returns the yt-dlp version, verifying the binary is runnable.
func (r *Runner) Version() (string, error) {
	output, err := exec.Command(r.ytDlpPath, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
