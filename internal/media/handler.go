package media

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rumbo-cms/rumbo/internal/auth"
	"github.com/rumbo-cms/rumbo/internal/server"
)

// maxFormSize bounds ParseMultipartForm (10 MiB file + 1 MiB overhead).
const maxFormSize = 11 << 20

// Handler provides HTTP handlers for media operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new media Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// withURL fills in the public serving URL for a media record.
func withURL(m *Media) *Media {
	m.URL = "/media/original/" + m.Filename
	return m
}

// Upload handles POST /admin/api/media.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_UPLOAD",
			"failed to parse multipart form: file may be too large", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		server.Error(w, http.StatusBadRequest, "MISSING_FILE",
			"missing 'file' field in multipart form", nil)
		return
	}
	defer file.Close()

	adminID := auth.AdminIDFromContext(r.Context())

	m, err := h.service.Upload(r.Context(), header, adminID)
	if err != nil {
		var ue *UploadError
		if errors.As(err, &ue) {
			server.Error(w, http.StatusBadRequest, "UPLOAD_ERROR", ue.Message, nil)
			return
		}
		slog.Error("media upload failed", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}

	server.JSON(w, http.StatusCreated, withURL(m))
}

// List handles GET /admin/api/media.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	items, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		slog.Error("media list failed", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}
	for _, m := range items {
		withURL(m)
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	server.Paginated(w, items, server.PaginationMeta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Delete handles DELETE /admin/api/media/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_ID",
			"id must be a valid UUID", nil)
		return
	}

	adminID := auth.AdminIDFromContext(r.Context())
	if err := h.service.Delete(r.Context(), id, adminID); err != nil {
		if errors.Is(err, ErrNotFound) {
			server.Error(w, http.StatusNotFound, "NOT_FOUND", "media not found", nil)
			return
		}
		slog.Error("media delete failed", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}

	server.JSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// Serve handles GET /media/{variant}/{filename}. A missing variant falls
// back to the original file.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")
	filename := chi.URLParam(r, "filename")

	if filename == "" {
		server.Error(w, http.StatusBadRequest, "MISSING_FILENAME",
			"filename is required", nil)
		return
	}
	if !isValidVariant(variant) {
		server.Error(w, http.StatusBadRequest, "INVALID_VARIANT",
			"variant must be one of: original, sm, md, lg", nil)
		return
	}

	m, err := h.service.GetByFilename(r.Context(), filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.Error(w, http.StatusNotFound, "NOT_FOUND", "media not found", nil)
			return
		}
		slog.Error("media lookup failed", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}

	serveFilename := filename
	if variant != "original" {
		variantPath, ok := m.Variants[variant]
		if !ok {
			variant = "original"
		} else if parts := strings.SplitN(variantPath, "/", 2); len(parts) == 2 {
			serveFilename = parts[1]
		}
	}

	filePath := h.service.storage.Path(variant, serveFilename)
	if filePath == "" {
		server.Error(w, http.StatusBadRequest, "INVALID_FILENAME",
			"invalid filename", nil)
		return
	}

	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			server.Error(w, http.StatusNotFound, "NOT_FOUND", "media file not found on disk", nil)
			return
		}
		slog.Error("media file stat failed", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")

	// Non-image files download instead of rendering inline.
	if !imageMIMETypes[m.MimeType] {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(m.OriginalName)))
	}

	w.Header().Set("Content-Type", m.MimeType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	http.ServeFile(w, r, filePath)
}

// sanitizeFilename strips characters that break Content-Disposition
// headers.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, `\`, "")
	if name == "" {
		name = "download"
	}
	return name
}

func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = 20

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
			if perPage > 100 {
				perPage = 100
			}
		}
	}
	return page, perPage
}
