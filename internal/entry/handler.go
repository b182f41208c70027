package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rumbo-cms/rumbo/internal/auth"
	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/display"
	"github.com/rumbo-cms/rumbo/internal/server"
)

// maxBodySize is the maximum allowed request body size (1 MiB).
const maxBodySize = 1 << 20

// Handler provides HTTP handlers for entry CRUD, publishing, and the
// public read API.
type Handler struct {
	service *Service
	types   *contenttype.Service
}

// NewHandler creates a new entry Handler.
func NewHandler(service *Service, types *contenttype.Service) *Handler {
	return &Handler{service: service, types: types}
}

// Response is an entry enriched with display metadata for admin listings.
// Title never comes back empty and Preview has a value for every defined
// field, so list views never deal with missing cells.
type Response struct {
	Entry
	Title    string            `json:"title"`
	ImageURL string            `json:"image_url,omitempty"`
	Preview  map[string]string `json:"preview"`
}

func toResponse(ct contenttype.ContentType, e Entry) Response {
	resp := Response{
		Entry:   e,
		Title:   display.Title(ct, e.Data, e.ID),
		Preview: display.Fields(ct, e.Data),
	}
	if url, ok := display.ImageURL(ct, e.Data); ok {
		resp.ImageURL = url
	}
	return resp
}

func toResponses(ct contenttype.ContentType, entries []Entry) []Response {
	out := make([]Response, len(entries))
	for i, e := range entries {
		out[i] = toResponse(ct, e)
	}
	return out
}

// lookupType validates that the content type exists and returns it.
// Returns false if it was not found (404 already written).
func (h *Handler) lookupType(w http.ResponseWriter, r *http.Request) (contenttype.ContentType, bool) {
	apiID := chi.URLParam(r, "contentType")
	ct, ok := h.types.Get(apiID)
	if !ok {
		server.Error(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("content type '%s' not found", apiID), nil)
		return contenttype.ContentType{}, false
	}
	return ct, true
}

// entryID extracts and validates the id URL parameter.
func entryID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", nil)
		return "", false
	}
	return id, true
}

// decodeBody reads and decodes a JSON request body into a value map.
func decodeBody(w http.ResponseWriter, r *http.Request) (ValueMap, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var data ValueMap
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_JSON",
			"invalid or too-large JSON body", nil)
		return nil, false
	}

	convertNumbers(data)
	return data, true
}

// convertNumbers walks a map and converts json.Number values to int64 or
// float64 for downstream processing.
func convertNumbers(data map[string]any) {
	for key, val := range data {
		switch v := val.(type) {
		case json.Number:
			if i, err := v.Int64(); err == nil {
				data[key] = i
			} else if f, err := v.Float64(); err == nil {
				data[key] = f
			}
		case map[string]any:
			convertNumbers(v)
		}
	}
}

// handleServiceError writes the appropriate error response for service errors.
func handleServiceError(w http.ResponseWriter, err error) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		server.ValidationFailed(w, valErr.Fields)
		return
	}
	if errors.Is(err, ErrNotFound) {
		server.Error(w, http.StatusNotFound, "NOT_FOUND", "entry not found", nil)
		return
	}
	slog.Error("entry service error", "error", err)
	server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
		"an internal error occurred", nil)
}

// writePage writes a paginated response for a list of enriched entries.
func writePage(w http.ResponseWriter, ct contenttype.ContentType, entries []Entry, total int, q QueryParams) {
	totalPages := 0
	if q.PerPage > 0 {
		totalPages = (total + q.PerPage - 1) / q.PerPage
	}

	server.Paginated(w, toResponses(ct, entries), server.PaginationMeta{
		Page:       q.Page,
		PerPage:    q.PerPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// --- Admin handlers ---

// AdminList handles GET /admin/api/content/{contentType}.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}

	q, err := ParseQueryParams(r, ct)
	if err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error(), nil)
		return
	}

	entries, total, err := h.service.List(r.Context(), ct.APIIdentifier, q, false)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writePage(w, ct, entries, total, q)
}

// AdminGet handles GET /admin/api/content/{contentType}/{id}.
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	e, err := h.service.GetByID(r.Context(), ct.APIIdentifier, id, false)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, toResponse(ct, e))
}

// AdminCreate handles POST /admin/api/content/{contentType}.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	data, ok := decodeBody(w, r)
	if !ok {
		return
	}

	adminID := auth.AdminIDFromContext(r.Context())
	e, err := h.service.Create(r.Context(), ct.APIIdentifier, data, adminID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusCreated, toResponse(ct, e))
}

// AdminUpdate handles PUT /admin/api/content/{contentType}/{id}.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	data, ok := decodeBody(w, r)
	if !ok {
		return
	}

	adminID := auth.AdminIDFromContext(r.Context())
	e, err := h.service.Update(r.Context(), ct.APIIdentifier, id, data, adminID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, toResponse(ct, e))
}

// AdminPublish handles POST /admin/api/content/{contentType}/{id}/publish.
func (h *Handler) AdminPublish(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	adminID := auth.AdminIDFromContext(r.Context())
	e, err := h.service.Publish(r.Context(), ct.APIIdentifier, id, adminID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, toResponse(ct, e))
}

// AdminArchive handles POST /admin/api/content/{contentType}/{id}/archive.
func (h *Handler) AdminArchive(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	adminID := auth.AdminIDFromContext(r.Context())
	e, err := h.service.Archive(r.Context(), ct.APIIdentifier, id, adminID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, toResponse(ct, e))
}

// AdminDelete handles DELETE /admin/api/content/{contentType}/{id}.
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	adminID := auth.AdminIDFromContext(r.Context())
	if err := h.service.Delete(r.Context(), ct.APIIdentifier, id, adminID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Public handlers ---

// publicType is like lookupType but also requires the public_read flag.
// Private types answer 404 rather than 403 so their existence is not
// revealed.
func (h *Handler) publicType(w http.ResponseWriter, r *http.Request) (contenttype.ContentType, bool) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return contenttype.ContentType{}, false
	}
	if !ct.PublicRead {
		server.Error(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("content type '%s' not found", ct.APIIdentifier), nil)
		return contenttype.ContentType{}, false
	}
	return ct, true
}

// PublicList handles GET /api/{contentType}. Only published entries are
// returned.
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.publicType(w, r)
	if !ok {
		return
	}

	q, err := ParseQueryParams(r, ct)
	if err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error(), nil)
		return
	}

	entries, total, err := h.service.List(r.Context(), ct.APIIdentifier, q, true)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writePage(w, ct, entries, total, q)
}

// PublicGet handles GET /api/{contentType}/{id}.
func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.publicType(w, r)
	if !ok {
		return
	}
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	e, err := h.service.GetByID(r.Context(), ct.APIIdentifier, id, true)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, toResponse(ct, e))
}
