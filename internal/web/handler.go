// Package web renders the server-side public pages for published entries.
// Pages are gated by both the content type's public_read flag and the
// public_site plugin.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/display"
	"github.com/rumbo-cms/rumbo/internal/entry"
	"github.com/rumbo-cms/rumbo/internal/plugin"
	"github.com/rumbo-cms/rumbo/internal/richtext"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler serves the public HTML pages.
type Handler struct {
	types   *contenttype.Service
	entries *entry.Service
	plugins *plugin.Service
}

// NewHandler creates a new web Handler.
func NewHandler(types *contenttype.Service, entries *entry.Service, plugins *plugin.Service) *Handler {
	return &Handler{types: types, entries: entries, plugins: plugins}
}

type card struct {
	Title    string
	Excerpt  string
	ImageURL string
	Href     string
}

type listPage struct {
	Title string
	Cards []card
}

type detailPage struct {
	Title    string
	TypeName string
	BackHref string
	ImageURL string
	Body     template.HTML
	Gallery  []string
}

// resolve checks the plugin gate and the content type's public flag. Both
// failures answer 404 so private types stay invisible.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (contenttype.ContentType, bool) {
	if !h.plugins.Enabled(r.Context(), plugin.PublicSite) {
		http.NotFound(w, r)
		return contenttype.ContentType{}, false
	}

	apiID := chi.URLParam(r, "contentType")
	ct, ok := h.types.Get(apiID)
	if !ok || !ct.PublicRead {
		http.NotFound(w, r)
		return contenttype.ContentType{}, false
	}
	return ct, true
}

// ListPage handles GET /site/{contentType}, rendering published entries as
// cards.
func (h *Handler) ListPage(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.resolve(w, r)
	if !ok {
		return
	}

	q, err := entry.ParseQueryParams(r, ct)
	if err != nil {
		http.Error(w, "invalid query parameters", http.StatusBadRequest)
		return
	}

	entries, _, err := h.entries.List(r.Context(), ct.APIIdentifier, q, true)
	if err != nil {
		slog.Error("site list failed", "content_type", ct.APIIdentifier, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := listPage{Title: ct.DisplayName}
	for _, e := range entries {
		c := card{
			Title:   display.Title(ct, e.Data, e.ID),
			Excerpt: display.Excerpt(ct, e.Data),
			Href:    fmt.Sprintf("/site/%s/%s", ct.APIIdentifier, e.ID),
		}
		if url, ok := display.ImageURL(ct, e.Data); ok {
			c.ImageURL = url
		}
		page.Cards = append(page.Cards, c)
	}

	h.render(w, "list", page)
}

// DetailPage handles GET /site/{contentType}/{id}. The body fragment is
// re-parsed and re-serialized so only the known formatting tags reach the
// page.
func (h *Handler) DetailPage(w http.ResponseWriter, r *http.Request) {
	ct, ok := h.resolve(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.NotFound(w, r)
		return
	}

	e, err := h.entries.GetByID(r.Context(), ct.APIIdentifier, id, true)
	if err != nil {
		if errors.Is(err, entry.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("site detail failed", "content_type", ct.APIIdentifier, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := detailPage{
		Title:    display.Title(ct, e.Data, e.ID),
		TypeName: ct.DisplayName,
		BackHref: "/site/" + ct.APIIdentifier,
		Body:     sanitizeBody(display.Body(ct, e.Data)),
	}
	if url, ok := display.ImageURL(ct, e.Data); ok {
		page.ImageURL = url
	}
	if h.plugins.Enabled(r.Context(), plugin.Gallery) {
		page.Gallery = galleryURLs(ct, e.Data, page.ImageURL)
	}

	h.render(w, "detail", page)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("rendering page template", "template", name, "error", err)
	}
}

// galleryURLs collects every media URL stored in the entry's media fields,
// skipping the hero image already shown at the top of the page.
func galleryURLs(ct contenttype.ContentType, data map[string]any, hero string) []string {
	var urls []string
	for _, f := range ct.Fields {
		if f.Type != contenttype.FieldTypeMedia {
			continue
		}
		for _, u := range display.MediaURLs(data[f.APIIdentifier]) {
			if u != hero {
				urls = append(urls, u)
			}
		}
	}
	return urls
}

// sanitizeBody round-trips a stored HTML fragment through the rich text
// document model, dropping anything outside the supported tag set.
func sanitizeBody(fragment string) template.HTML {
	return template.HTML(richtext.Parse(fragment).HTML())
}
