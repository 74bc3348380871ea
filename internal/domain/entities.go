package domain

// VideoInfo contains metadata about a video as reported by yt-dlp.
type VideoInfo struct {
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Duration  float64      `json:"duration"` // in seconds
	Formats   []FormatInfo `json:"formats,omitempty"`
}

// FormatInfo describes one format entry from yt-dlp's JSON output.
type FormatInfo struct {
	FormatID       string `json:"format_id"`
	Height         int    `json:"height,omitempty"`
	Ext            string `json:"ext,omitempty"`
	Filesize       int64  `json:"filesize,omitempty"`
	FilesizeApprox int64  `json:"filesize_approx,omitempty"`
}

// InfoRequest is the JSON body for POST /api/info.
type InfoRequest struct {
	URL string `json:"url"`
}

// InfoResponse is the JSON response for POST /api/info.
type InfoResponse struct {
	Title     string           `json:"title"`
	Thumbnail string           `json:"thumbnail,omitempty"`
	Duration  float64          `json:"duration"`
	Formats   []FormatResponse `json:"formats"`
}

// FormatResponse is one selectable format in an InfoResponse.
type FormatResponse struct {
	FormatID   string `json:"format_id"`
	Resolution int    `json:"resolution"`
	Ext        string `json:"ext"`
	Filesize   int64  `json:"filesize,omitempty"`
}

// DownloadRequest is the JSON body for POST /api/download.
type DownloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"format_id"`
}

// HealthResponse is the JSON response for GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	YtDlp  string `json:"ytdlp"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
