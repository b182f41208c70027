package plugin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rumbo-cms/rumbo/internal/auth"
	"github.com/rumbo-cms/rumbo/internal/server"
)

const maxBodySize = 64 << 10

// Handler provides HTTP handlers for the plugin admin API.
type Handler struct {
	service *Service
}

// NewHandler creates a new plugin Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/api/plugins.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	plugins, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("plugin list failed", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}

	server.JSON(w, http.StatusOK, plugins)
}

type updateRequest struct {
	Enabled  bool           `json:"enabled"`
	Settings map[string]any `json:"settings"`
}

// Update handles PUT /admin/api/plugins/{name}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.Error(w, http.StatusBadRequest, "INVALID_JSON",
			"invalid or too-large JSON body", nil)
		return
	}

	adminID := auth.AdminIDFromContext(r.Context())
	p, err := h.service.Update(r.Context(), name, req.Enabled, req.Settings, adminID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.Error(w, http.StatusNotFound, "NOT_FOUND", "plugin not found", nil)
			return
		}
		slog.Error("plugin update failed", "error", err)
		server.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal error occurred", nil)
		return
	}

	server.JSON(w, http.StatusOK, p)
}
