package contenttype

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/rumbo-cms/rumbo/internal/server"
)

// maxBodySize is the maximum allowed request body size (256 KiB). Content
// type definitions are small; anything larger is malformed or hostile.
const maxBodySize = 256 << 10

// Response represents a content type in the introspection API, including
// the number of stored entries so the admin dashboard can show counts
// without extra round trips.
type Response struct {
	ContentType
	EntryCount int `json:"entry_count"`
}

// Handler provides HTTP handlers for content type management and
// introspection.
type Handler struct {
	service *Service
}

// NewHandler creates a new content type Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/api/content-types. Not paginated: the number of
// content types is small and the payload is lightweight.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all := h.service.All()

	types := make([]ContentType, 0, len(all))
	for _, ct := range all {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].APIIdentifier < types[j].APIIdentifier
	})

	responses := make([]Response, 0, len(types))
	for _, ct := range types {
		count, err := h.service.CountEntries(r.Context(), ct.APIIdentifier)
		if err != nil {
			// A missing count shouldn't block the whole list.
			slog.Error("failed to count entries", "content_type", ct.APIIdentifier, "error", err)
			count = 0
		}
		responses = append(responses, Response{ContentType: ct, EntryCount: count})
	}

	server.JSON(w, http.StatusOK, responses)
}

// Get handles GET /admin/api/content-types/{contentType}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	apiID := chi.URLParam(r, "contentType")

	ct, ok := h.service.Get(apiID)
	if !ok {
		server.Error(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("content type '%s' not found", apiID), nil)
		return
	}

	count, err := h.service.CountEntries(r.Context(), apiID)
	if err != nil {
		slog.Error("failed to count entries", "content_type", apiID, "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"failed to retrieve entry count", nil)
		return
	}

	server.JSON(w, http.StatusOK, Response{ContentType: ct, EntryCount: count})
}

// Create handles POST /admin/api/content-types.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var ct ContentType
	if err := json.NewDecoder(r.Body).Decode(&ct); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_JSON",
			"invalid or too-large JSON body", nil)
		return
	}

	created, err := h.service.Create(r.Context(), ct)
	if err != nil {
		h.handleError(w, err)
		return
	}

	server.JSON(w, http.StatusCreated, created)
}

// AddField handles POST /admin/api/content-types/{contentType}/fields.
func (h *Handler) AddField(w http.ResponseWriter, r *http.Request) {
	apiID := chi.URLParam(r, "contentType")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var f Field
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_JSON",
			"invalid or too-large JSON body", nil)
		return
	}

	added, err := h.service.AddField(r.Context(), apiID, f)
	if err != nil {
		h.handleError(w, err)
		return
	}

	server.JSON(w, http.StatusCreated, added)
}

// UpdateField handles PATCH /admin/api/content-types/{contentType}/fields/{field}.
// Only the label and required flag are mutable; api identifier and type
// changes are rejected by omission.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	apiID := chi.URLParam(r, "contentType")
	fieldAPIID := chi.URLParam(r, "field")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req struct {
		Label    string `json:"label"`
		Required bool   `json:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_JSON",
			"invalid or too-large JSON body", nil)
		return
	}

	updated, err := h.service.UpdateField(r.Context(), apiID, fieldAPIID, req.Label, req.Required)
	if err != nil {
		h.handleError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, updated)
}

// handleError maps service errors to JSON error responses.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDefinition):
		server.Error(w, http.StatusBadRequest, "INVALID_DEFINITION", err.Error(), nil)
	case errors.Is(err, ErrAlreadyExists):
		server.Error(w, http.StatusConflict, "ALREADY_EXISTS", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		server.Error(w, http.StatusNotFound, "NOT_FOUND", "content type not found", nil)
	default:
		slog.Error("content type service error", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
	}
}
