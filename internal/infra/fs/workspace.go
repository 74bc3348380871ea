// Package fs manages ephemeral download directories.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoFile is returned when a download directory contains no file.
var ErrNoFile = errors.New("no file found in download directory")

// Workspace hands out per-download directories under a single root and
// removes them when the download is done. Removal refuses anything
// outside the root.
type Workspace struct {
	root   string
	logger *slog.Logger
}

// NewWorkspace creates a Workspace rooted at dir, creating it if needed.
func NewWorkspace(dir string, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}

	return &Workspace{root: abs, logger: logger}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// NewDir creates a fresh uniquely named download directory.
func (w *Workspace) NewDir() (string, error) {
	dir := filepath.Join(w.root, "dl-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	return dir, nil
}

// Remove deletes a download directory and everything in it.
func (w *Workspace) Remove(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if abs == w.root || !strings.HasPrefix(abs, w.root+string(filepath.Separator)) {
		return errors.New("cannot remove directory outside workspace root")
	}

	return os.RemoveAll(abs)
}

// FindFile returns the first regular file found under dir. yt-dlp decides
// the final filename, so after a download this locates the produced media.
func (w *Workspace) FindFile(dir string) (string, error) {
	var found string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		found = path
		return filepath.SkipAll
	})

	if err != nil {
		return "", fmt.Errorf("failed to scan download directory: %w", err)
	}
	if found == "" {
		return "", ErrNoFile
	}
	return found, nil
}

// Cleaner periodically removes stale download directories left behind by
// interrupted requests.
type Cleaner struct {
	workspace *Workspace
	maxAge    time.Duration
	interval  time.Duration
	stopCh    chan struct{}
}

// NewCleaner creates a Cleaner for the given workspace.
func NewCleaner(workspace *Workspace, maxAge, interval time.Duration) *Cleaner {
	return &Cleaner{
		workspace: workspace,
		maxAge:    maxAge,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the cleanup loop.
func (c *Cleaner) Start(ctx context.Context) {
	if c.interval <= 0 {
		return
	}

	go func() {
		c.workspace.logger.Info("starting temp dir cleanup",
			"root", c.workspace.root,
			"max_age", c.maxAge,
			"interval", c.interval,
		)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.sweep()

		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop stops the cleanup loop.
func (c *Cleaner) Stop() {
	close(c.stopCh)
}

// sweep removes download directories older than maxAge.
func (c *Cleaner) sweep() {
	threshold := time.Now().Add(-c.maxAge)
	deleted := 0

	entries, err := os.ReadDir(c.workspace.root)
	if err != nil {
		c.workspace.logger.Error("temp dir cleanup error", "root", c.workspace.root, "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "dl-") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(threshold) {
			dir := filepath.Join(c.workspace.root, entry.Name())
			if err := c.workspace.Remove(dir); err != nil {
				c.workspace.logger.Warn("failed to delete stale download dir", "dir", dir, "error", err)
			} else {
				deleted++
			}
		}
	}

	if deleted > 0 {
		c.workspace.logger.Info("temp dir cleanup completed", "deleted", deleted, "max_age", c.maxAge)
	}
}
