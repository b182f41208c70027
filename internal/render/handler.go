package render

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/entry"
	"github.com/rumbo-cms/rumbo/internal/server"
)

// Handler serves editing form specifications to the admin UI.
type Handler struct {
	types   *contenttype.Service
	entries *entry.Service
}

// NewHandler creates a new form Handler.
func NewHandler(types *contenttype.Service, entries *entry.Service) *Handler {
	return &Handler{types: types, entries: entries}
}

// lookupType resolves the content type from the URL, writing a 404 when it
// does not exist.
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

// NewForm handles GET /admin/api/content/{contentType}/form, returning the
// form specification for a fresh entry.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}

	server.JSON(w, http.StatusOK, BuildForm(ct, nil))
}

// EditForm handles GET /admin/api/content/{contentType}/{id}/form,
// returning the form specification pre-filled with the entry's stored
// values. Stored values are trusted verbatim; shapes that no longer match
// the field type surface in the widget as-is and are corrected on the
// next change.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.lookupType(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", nil)
		return
	}

	e, err := h.entries.GetByID(r.Context(), ct.APIIdentifier, id, false)
	if err != nil {
		if errors.Is(err, entry.ErrNotFound) {
			server.Error(w, http.StatusNotFound, "NOT_FOUND", "entry not found", nil)
			return
		}
		slog.Error("loading entry for form", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}

	server.JSON(w, http.StatusOK, BuildForm(ct, e.Data))
}
