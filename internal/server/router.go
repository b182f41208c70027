package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rumbo-cms/rumbo/internal/database"
)

// AuthHandler defines the interface for authentication HTTP handlers,
// decoupling the router from the concrete auth implementation.
type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

// ContentTypeHandler defines the handlers for content type management.
type ContentTypeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	AddField(w http.ResponseWriter, r *http.Request)
	UpdateField(w http.ResponseWriter, r *http.Request)
}

// EntryHandler defines the handlers for content entry CRUD and the public
// read API.
type EntryHandler interface {
	AdminList(w http.ResponseWriter, r *http.Request)
	AdminGet(w http.ResponseWriter, r *http.Request)
	AdminCreate(w http.ResponseWriter, r *http.Request)
	AdminUpdate(w http.ResponseWriter, r *http.Request)
	AdminDelete(w http.ResponseWriter, r *http.Request)
	AdminPublish(w http.ResponseWriter, r *http.Request)
	AdminArchive(w http.ResponseWriter, r *http.Request)
	PublicList(w http.ResponseWriter, r *http.Request)
	PublicGet(w http.ResponseWriter, r *http.Request)
}

// FormHandler defines the handlers that serve editing form specifications
// (widget lists) to the admin UI.
type FormHandler interface {
	NewForm(w http.ResponseWriter, r *http.Request)
	EditForm(w http.ResponseWriter, r *http.Request)
}

// MediaHandler defines the handlers for media upload, listing, deletion,
// and public file serving.
type MediaHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Serve(w http.ResponseWriter, r *http.Request)
}

// PluginHandler defines the handlers for plugin configuration.
type PluginHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

// AuditHandler defines the handler for audit log listing.
type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

// SiteHandler defines the handlers for the public HTML rendering routes.
type SiteHandler interface {
	ListPage(w http.ResponseWriter, r *http.Request)
	DetailPage(w http.ResponseWriter, r *http.Request)
}

// Dependencies holds all injectable dependencies used by route handlers.
type Dependencies struct {
	DB             *database.DB
	DevMode        bool
	AuthHandler    AuthHandler
	AuthMiddleware func(http.Handler) http.Handler
	ContentTypes   ContentTypeHandler
	Entries        EntryHandler
	Forms          FormHandler
	Media          MediaHandler
	Plugins        PluginHandler
	Audit          AuditHandler
	Site           SiteHandler
}

// NewRouter builds the chi router with the full route tree and middleware
// stack.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	// --- Global middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(deps.DevMode))

	// --- Health check ---
	r.Get("/health", healthHandler(deps))

	// --- Public content API ---
	r.Route("/api", func(r chi.Router) {
		r.Use(requireJSON)
		r.Get("/{contentType}", deps.Entries.PublicList)
		r.Get("/{contentType}/{id}", deps.Entries.PublicGet)
	})

	// --- Admin API ---
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(requireJSON)

		// Auth routes that do not require a valid token.
		r.Post("/auth/login", deps.AuthHandler.Login)
		r.Post("/auth/refresh", deps.AuthHandler.Refresh)
		r.Post("/auth/logout", deps.AuthHandler.Logout)

		// Protected routes - require valid JWT.
		r.Group(func(r chi.Router) {
			if deps.AuthMiddleware != nil {
				r.Use(deps.AuthMiddleware)
			}

			r.Get("/auth/me", deps.AuthHandler.Me)

			// Content type management and introspection.
			r.Get("/content-types", deps.ContentTypes.List)
			r.Post("/content-types", deps.ContentTypes.Create)
			r.Get("/content-types/{contentType}", deps.ContentTypes.Get)
			r.Post("/content-types/{contentType}/fields", deps.ContentTypes.AddField)
			r.Patch("/content-types/{contentType}/fields/{field}", deps.ContentTypes.UpdateField)

			// Content CRUD plus form specifications for the editor.
			r.Route("/content/{contentType}", func(r chi.Router) {
				r.Get("/", deps.Entries.AdminList)
				r.Post("/", deps.Entries.AdminCreate)
				r.Get("/form", deps.Forms.NewForm)
				r.Get("/{id}", deps.Entries.AdminGet)
				r.Put("/{id}", deps.Entries.AdminUpdate)
				r.Delete("/{id}", deps.Entries.AdminDelete)
				r.Get("/{id}/form", deps.Forms.EditForm)
				r.Post("/{id}/publish", deps.Entries.AdminPublish)
				r.Post("/{id}/archive", deps.Entries.AdminArchive)
			})

			// Media management.
			r.Route("/media", func(r chi.Router) {
				r.Post("/", deps.Media.Upload)
				r.Get("/", deps.Media.List)
				r.Delete("/{id}", deps.Media.Delete)
			})

			// Plugin configuration.
			r.Get("/plugins", deps.Plugins.List)
			r.Put("/plugins/{name}", deps.Plugins.Update)

			// Audit log.
			r.Get("/audit-log", deps.Audit.List)
		})
	})

	// --- Public media serving ---
	r.Get("/media/{variant}/{filename}", deps.Media.Serve)

	// --- Public HTML rendering routes ---
	r.Get("/site/{contentType}", deps.Site.ListPage)
	r.Get("/site/{contentType}/{id}", deps.Site.DetailPage)

	// --- Admin SPA catch-all (must be last) ---
	r.NotFound(newSPAHandler(deps.DevMode))

	return r
}

// corsMiddleware returns a CORS middleware configured for the application.
// In dev mode the Vite dev server origins are allowed; in production only
// same-origin requests are permitted.
func corsMiddleware(devMode bool) func(http.Handler) http.Handler {
	var allowedOrigins []string
	if devMode {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// healthHandler reports the health status of the application, including a
// database connectivity check.
func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.Health(r.Context()); err != nil {
			Error(w, http.StatusServiceUnavailable, "DB_UNHEALTHY", "database health check failed", nil)
			return
		}
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
