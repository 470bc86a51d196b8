package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/common/utils/fsutil"
	"github.com/krau/SaveFolio/core/archive"
	"github.com/krau/SaveFolio/core/extract"
	"github.com/krau/SaveFolio/core/relay"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const (
	maxBodySize          = 10 << 20
	defaultProxyFilename = "download"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		respondError(w, http.StatusBadRequest, CodeMissingURL, "URL parameter is required")
		return
	}

	res, err := s.extract.Extract(r.Context(), rawURL)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, res)
	case errors.Is(err, extract.ErrInvalidURL):
		respondError(w, http.StatusBadRequest, CodeInvalidURL, "Invalid or non-public URL")
	case errors.Is(err, extractor.ErrUnsupported):
		respondError(w, http.StatusBadRequest, CodeUnsupported, "This URL is not supported")
	default:
		respondError(w, http.StatusInternalServerError, CodeExtractionFailed, extractor.UserMessage(err))
	}
}

type downloadRequest struct {
	Assets   []archive.Asset `json:"assets"`
	Filename string          `json:"filename"`
}

// decodeDownloadRequest accepts a JSON body or a form whose assets field
// holds the JSON encoded asset list.
func decodeDownloadRequest(w http.ResponseWriter, r *http.Request) (*downloadRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	req := &downloadRequest{}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return req, nil
	}

	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBodySize)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	req.Filename = r.FormValue("filename")
	if raw := r.FormValue("assets"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Assets); err != nil {
			return nil, fmt.Errorf("invalid assets field: %w", err)
		}
	}
	return req, nil
}

type flushWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func (f flushWriter) Write(p []byte) (int, error) { return f.w.Write(p) }

func (f flushWriter) Flush() error { return f.rc.Flush() }

func (s *Server) handleDownloadZip(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithPrefix("api")
	req, err := decodeDownloadRequest(w, r)
	if err != nil {
		logger.Debug("Bad download request", "err", err)
		respondError(w, http.StatusBadRequest, CodeMissingAssets, "A non-empty assets list is required")
		return
	}
	if len(req.Assets) == 0 {
		respondError(w, http.StatusBadRequest, CodeMissingAssets, "A non-empty assets list is required")
		return
	}
	name := fsutil.SanitizeArchiveName(req.Filename)

	h := w.Header()
	h.Set("Content-Type", "application/zip")
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	job := archive.Job{OutputFilename: name, Assets: req.Assets}
	if err := s.archive.Build(r.Context(), flushWriter{w: w, rc: rc}, job); err != nil {
		// headers are gone; the client sees a truncated archive
		logger.Error("Archive stream aborted", "name", name, "err", err)
	}
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithPrefix("api")
	q := r.URL.Query()
	rawURL := strings.TrimSpace(q.Get("url"))
	if rawURL == "" {
		respondError(w, http.StatusBadRequest, CodeMissingURL, "URL parameter is required")
		return
	}
	filename := strings.TrimSpace(q.Get("filename"))
	if filename == "" {
		filename = defaultProxyFilename
	}
	filename = fsutil.SanitizeFilename(filename)

	asset, err := s.relay.Open(r.Context(), rawURL)
	if err != nil {
		var ue *relay.UpstreamError
		switch {
		case errors.Is(err, relay.ErrForbidden):
			respondError(w, http.StatusForbidden, CodeForbidden, "Domain not allowed")
		case errors.As(err, &ue):
			respondError(w, ue.Status, CodeFetchError, fmt.Sprintf("Upstream responded with HTTP %d", ue.Status))
		default:
			logger.Error("Proxy fetch failed", "url", rawURL, "err", err)
			respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to fetch asset")
		}
		return
	}
	defer asset.Body.Close()

	h := w.Header()
	h.Set("Content-Type", asset.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	h.Set("Cache-Control", "public, max-age=31536000, immutable")
	if asset.ContentLength > 0 {
		h.Set("Content-Length", strconv.FormatInt(asset.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, asset.Body); err != nil {
		logger.Warn("Proxy stream interrupted", "url", rawURL, "err", err)
	}
}

type cacheRequest struct {
	URL   string                `json:"url"`
	Items []extractor.MediaItem `json:"items"`
	Meta  extractor.Meta        `json:"meta"`
}

type cacheResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithPrefix("api")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req cacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidData, "Invalid cache payload")
		return
	}
	if strings.TrimSpace(req.URL) == "" || req.Items == nil {
		respondError(w, http.StatusBadRequest, CodeInvalidData, "url and items are required")
		return
	}
	n, err := s.extract.Precache(req.URL, req.Items, req.Meta)
	if err != nil {
		logger.Error("Failed to precache", "url", req.URL, "err", err)
		respondError(w, http.StatusInternalServerError, CodeCacheFailed, "Failed to cache items")
		return
	}
	respondJSON(w, http.StatusOK, cacheResponse{Success: true, Count: n})
}
