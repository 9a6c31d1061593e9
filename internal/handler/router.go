package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/live"
	"github.com/wentitech/wentitech/internal/store"
	"github.com/wentitech/wentitech/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	Prefs          store.PreferenceStoreIface
	Hub            *live.Hub
	Live           http.Handler
	DB             *sqlx.DB
	BasePath       string
	Logger         *zap.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
// With a BasePath the site is mounted below it.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", NewHealthHandler(deps.DB).Check)
	r.Handle("/metrics", promhttp.Handler())

	site := siteRoutes(deps)
	if deps.BasePath == "" {
		r.Mount("/", site)
	} else {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, deps.BasePath+"/", http.StatusFound)
		})
		r.Mount(deps.BasePath, site)
	}
	return r
}

func siteRoutes(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Handle("/static/*", http.StripPrefix(deps.BasePath+"/static", http.FileServerFS(web.Static())))

	// The socket hijacks the connection, so it reads the session itself
	// instead of going through LoadAndSave.
	if deps.Live != nil {
		r.Handle("/live", deps.Live)
	}

	themeHandler := NewThemeHandler(deps.SessionManager, deps.Prefs, deps.Hub, deps.BasePath, deps.Logger)
	landing := NewLandingHandler(themeHandler, deps.BasePath)
	legal := NewLegalHandler(themeHandler, deps.BasePath)

	r.Group(func(r chi.Router) {
		if deps.SessionManager != nil {
			r.Use(deps.SessionManager.LoadAndSave)
		}
		r.Get("/", landing.Index)
		r.Get("/regulamin/", legal.Terms)
		r.Get("/polityka-prywatnosci/", legal.Privacy)
		r.Post("/theme", themeHandler.Toggle)
	})
	r.Get("/regulamin", redirectSlash)
	r.Get("/polityka-prywatnosci", redirectSlash)

	return r
}

func redirectSlash(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
}
