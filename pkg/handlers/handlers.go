package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eknkc/pug"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"profile-site/pkg/models"
	"profile-site/pkg/services"
	"profile-site/pkg/site"
)

//go:embed views/page.pug
var views embed.FS

// Options controls what the router serves besides the pages and the API
type Options struct {
	// PublicDir is served for every path no other route claims
	PublicDir string
	// GalleryDir, when set, is served under AssetPrefix so locally indexed images resolve
	GalleryDir  string
	AssetPrefix string
}

// Handler serves the site pages and JSON API
type Handler struct {
	svc        *services.Service
	background *site.Background
	opts       Options
	log        *zap.Logger
	now        func() time.Time

	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
}

// Page is the data handed to the page template
type Page struct {
	Title      string
	Route      site.Route
	Site       site.Config
	Theme      site.Theme
	Background string
	Footer     string
	Groups     []string
	Group      string
	Items      []models.GalleryItem
}

// NewHandler creates a handler backed by svc
func NewHandler(svc *services.Service, background *site.Background, opts Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		svc:        svc,
		background: background,
		opts:       opts,
		log:        log,
		now:        time.Now,
	}
}

// NewRouter wires pages, API, metrics and static files
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.instrument)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/site", h.SiteHandler).Methods(http.MethodGet)
	api.HandleFunc("/gallery", h.GalleryHandler).Methods(http.MethodGet)
	api.HandleFunc("/theme", h.ThemeHandler).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/background", h.BackgroundHandler).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	for _, route := range site.Routes {
		r.HandleFunc(route.Path, h.PageHandler(route)).Methods(http.MethodGet)
	}

	if h.opts.GalleryDir != "" && strings.HasPrefix(h.opts.AssetPrefix, "/") {
		prefix := "/" + strings.Trim(h.opts.AssetPrefix, "/") + "/"
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(h.opts.GalleryDir))))
	}

	publicDir := h.opts.PublicDir
	if publicDir == "" {
		publicDir = "./public"
	}
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))

	return r
}

// PageHandler renders one of the site's pages
func (h *Handler) PageHandler(route site.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.log.Debug("Generating page", zap.String("route", route.Name))

		tmpl, err := h.template()
		if err != nil {
			h.log.Error("Failed to compile page template", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		cfg := h.svc.Site()
		page := Page{
			Title:  cfg.DocumentTitle(route.Title),
			Route:  route,
			Site:   cfg,
			Theme:  themeFromRequest(r).Current(),
			Footer: cfg.FooterText(h.now()),
		}
		if h.background != nil {
			page.Background, _ = h.background.URL()
		}
		if route.Name == "gallery" {
			catalog := h.svc.Catalog(r.Context())
			page.Groups = catalog.Groups
			page.Group = r.URL.Query().Get("group")
			if page.Group != "" && catalog.HasGroup(page.Group) {
				page.Items = catalog.ItemsInGroup(page.Group)
			} else {
				page.Group = ""
				page.Items = catalog.Items
			}
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, page); err != nil {
			h.log.Error("Failed to render page", zap.String("route", route.Name), zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

// SiteHandler returns the site content as JSON
func (h *Handler) SiteHandler(w http.ResponseWriter, _ *http.Request) {
	cfg := h.svc.Site()
	cfg.Footer = cfg.FooterText(h.now())
	writeJSON(w, http.StatusOK, cfg)
}

// GalleryHandler returns the gallery catalog, or a single group's items when ?group= is set
func (h *Handler) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group == "" {
		writeJSON(w, http.StatusOK, h.svc.Catalog(r.Context()))
		return
	}

	items, err := h.svc.Group(r.Context(), group)
	if err != nil {
		h.log.Debug("Gallery group not found", zap.String("group", group))
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"group": group,
		"items": items,
	})
}

// BackgroundHandler returns the current background URL, refreshing it when ?refresh=1 is set
// or no URL has been issued yet
func (h *Handler) BackgroundHandler(w http.ResponseWriter, r *http.Request) {
	if h.background == nil {
		writeError(w, http.StatusNotFound, "background not configured")
		return
	}

	current, _ := h.background.URL()
	if current == "" || r.URL.Query().Get("refresh") == "1" {
		next, err := h.background.Refresh(r.Context())
		if err != nil {
			h.log.Warn("Background refresh failed, keeping previous image", zap.Error(err))
		}
		current = next
	}

	resp := map[string]string{"url": current}
	if _, lastErr := h.background.URL(); lastErr != nil {
		resp["error"] = lastErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// template compiles the embedded page view on first use
func (h *Handler) template() (*template.Template, error) {
	h.tmplOnce.Do(func() {
		src, err := views.ReadFile("views/page.pug")
		if err != nil {
			h.tmplErr = err
			return
		}
		h.tmpl, h.tmplErr = pug.CompileString(string(src), pug.Options{})
	})
	return h.tmpl, h.tmplErr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
