// Package http provides HTTP handlers and router configuration.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/multigrab/multigrab/internal/domain"
	"github.com/multigrab/multigrab/internal/infra/cache"
	"github.com/multigrab/multigrab/internal/infra/fs"
	"github.com/multigrab/multigrab/internal/transport/http/middleware"
)

// Resolutions offered to clients by /api/info.
var offeredResolutions = map[int]bool{480: true, 720: true, 1080: true}

// Engine is the yt-dlp surface the handlers depend on.
type Engine interface {
	Probe(ctx context.Context, url string) (*domain.VideoInfo, error)
	Execute(ctx context.Context, cfg domain.DownloadConfig) bool
	Version() (string, error)
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	engine    Engine
	workspace *fs.Workspace
	cache     *cache.VideoCache
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine Engine, workspace *fs.Workspace, videoCache *cache.VideoCache) *Handlers {
	return &Handlers{
		engine:    engine,
		workspace: workspace,
		cache:     videoCache,
	}
}

// HealthHandler handles GET /api/health requests.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := &domain.HealthResponse{Status: "ok"}

	version, err := h.engine.Version()
	if err != nil {
		response.Status = "degraded"
		response.YtDlp = "unavailable"
	} else {
		response.YtDlp = version
	}

	writeJSON(w, http.StatusOK, response)
}

// InfoHandler handles POST /api/info requests. It probes video metadata
// without downloading anything and returns the formats clients can pick
// from, filtered to 480/720/1080.
func (h *Handlers) InfoHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.InfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "Missing URL", "MISSING_URL")
		return
	}

	url := middleware.NormalizeURL(req.URL)

	info, found := h.cache.Get(url)
	if !found {
		var err error
		info, err = h.engine.Probe(r.Context(), url)
		if err != nil {
			slog.Error("metadata probe failed", "url", url, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error(), "EXTRACTION_ERROR")
			return
		}
		h.cache.Set(url, info)
	}

	writeJSON(w, http.StatusOK, toInfoResponse(info))
}

// DownloadHandler handles POST /api/download requests. The selected format
// is downloaded into a fresh temp directory and streamed back as an
// attachment; the directory is removed once the response stream closes.
func (h *Handlers) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" || req.FormatID == "" {
		writeError(w, http.StatusBadRequest, "Missing URL or format_id", "MISSING_FIELDS")
		return
	}

	dir, err := h.workspace.NewDir()
	if err != nil {
		slog.Error("failed to create download dir", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to prepare download", "WORKSPACE_ERROR")
		return
	}
	defer func() {
		if err := h.workspace.Remove(dir); err != nil {
			slog.Warn("failed to remove download dir", "dir", dir, "error", err)
		}
	}()

	cfg := domain.DefaultConfig()
	cfg.URL = req.URL
	cfg.Platform = domain.DetectPlatform(req.URL)
	cfg.DownloadType = domain.TypeVideo
	cfg.OutputDir = dir
	cfg.Format = req.FormatID

	if err := cfg.Validate(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmptyURL) || errors.Is(err, domain.ErrUnsupportedPlatform) || errors.Is(err, domain.ErrCookiesNotFound) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error(), "INVALID_CONFIG")
		return
	}

	slog.Info("download requested",
		"url", req.URL,
		"format_id", req.FormatID,
		"ip", middleware.GetClientIP(r),
	)

	if !h.engine.Execute(r.Context(), cfg) {
		writeError(w, http.StatusInternalServerError, "Download failed", "DOWNLOAD_ERROR")
		return
	}

	file, err := h.workspace.FindFile(dir)
	if err != nil {
		slog.Error("no output file after download", "url", req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, "No video file found", "NO_OUTPUT_FILE")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(file)))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, file)
}

// toInfoResponse filters probe output down to the offered resolutions.
func toInfoResponse(info *domain.VideoInfo) *domain.InfoResponse {
	resp := &domain.InfoResponse{
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Duration:  info.Duration,
		Formats:   []domain.FormatResponse{},
	}

	for _, f := range info.Formats {
		if !offeredResolutions[f.Height] {
			continue
		}

		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}

		resp.Formats = append(resp.Formats, domain.FormatResponse{
			FormatID:   f.FormatID,
			Resolution: f.Height,
			Ext:        f.Ext,
			Filesize:   size,
		})
	}

	return resp
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, &domain.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
