package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/classifieds-backend/internal/api/handlers"
	"github.com/baharkarakas/classifieds-backend/internal/config"
	"github.com/baharkarakas/classifieds-backend/internal/metrics"
	"github.com/baharkarakas/classifieds-backend/internal/middleware"
	"github.com/baharkarakas/classifieds-backend/internal/services"
)

type Services struct {
	Ads        *services.AdService
	Categories *services.CategoryService
	Selections *services.SelectionService
	Users      *services.UserService
	Locations  *services.LocationService
	Auth       *services.AuthService
}

type RouterDeps struct {
	Cfg  config.Config
	Log  *slog.Logger
	Auth *middleware.Authenticator
	Svc  Services
}

func NewRouter(d RouterDeps) http.Handler {
	ads := handlers.NewAdHandler(d.Svc.Ads, d.Cfg.MaxUploadMB<<20)
	cats := handlers.NewCategoryHandler(d.Svc.Categories)
	sels := handlers.NewSelectionHandler(d.Svc.Selections)
	users := handlers.NewUserHandler(d.Svc.Users)
	locs := handlers.NewLocationHandler(d.Svc.Locations)
	tokens := handlers.NewAuthHandler(d.Svc.Auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RequestLogger(d.Log), middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(d.Cfg.RateRPS, d.Cfg.RateBurst))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())
	if d.Cfg.ImageStore == "disk" && strings.HasPrefix(d.Cfg.MediaURL, "/") {
		prefix := strings.TrimRight(d.Cfg.MediaURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(d.Cfg.MediaRoot))))
	}

	r.Group(func(r chi.Router) {
		r.Use(d.Auth.Authenticate)

		// ---------- ads ----------
		r.Route("/ads", func(r chi.Router) {
			r.Get("/", ads.List)
			r.Post("/create/", ads.Create)
			r.Post("/{id}/upload_image/", ads.UploadImage)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/{id}/", ads.Get)
				r.Put("/update/{id}/", ads.Update)
				r.Patch("/update/{id}/", ads.Update)
				r.Delete("/delete/{id}/", ads.Delete)
			})
		})

		// ---------- categories ----------
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cats.List)
			r.Get("/{id}", cats.Get)
			r.Post("/create/", cats.Create)
			r.Patch("/update/{id}/", cats.Update)
			r.Delete("/delete/{id}/", cats.Delete)
		})

		// ---------- selections ----------
		r.Route("/selections", func(r chi.Router) {
			r.Get("/", sels.List)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/{id}/", sels.Get)
				r.Post("/create/", sels.Create)
				r.Put("/{id}/update/", sels.Update)
				r.Patch("/{id}/update/", sels.Update)
				r.Delete("/{id}/delete/", sels.Delete)
			})
		})

		// ---------- users ----------
		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.List)
			r.Get("/{id}/", users.Get)
			r.Post("/create/", users.Create)
			r.Put("/{id}/update/", users.Update)
			r.Patch("/{id}/update/", users.Update)
			r.Delete("/{id}/delete/", users.Delete)
			r.Post("/token/", tokens.Login)
			r.Post("/token/refresh/", tokens.Refresh)
		})

		// ---------- locations ----------
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", locs.List)
			r.Post("/", locs.Create)
			r.Get("/{id}/", locs.Get)
			r.Put("/{id}/", locs.Update)
			r.Patch("/{id}/", locs.Update)
			r.Delete("/{id}/", locs.Delete)
		})
	})

	return r
}
