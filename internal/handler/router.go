package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/worldatlas/worldatlas-go/internal/middleware"
)

// RouterConfig holds everything the HTTP surface is built from.
type RouterConfig struct {
	Auth        *AuthHandler
	Countries   *CountryHandler
	Verifier    middleware.TokenVerifier
	Users       middleware.UserFinder
	Logger      *slog.Logger
	CORSOrigins []string
	DevMode     bool
}

// NewRouter wires the API routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.Logger(cfg.Logger))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NotFound(notFound(cfg.DevMode))
	r.MethodNotAllowed(notFound(cfg.DevMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", cfg.Auth.HandleRegister)
		r.Post("/login", cfg.Auth.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Protect(cfg.Verifier, cfg.Users, ErrorWriter(cfg.DevMode)))
			r.Get("/profile", cfg.Auth.HandleProfile)
		})
	})

	if cfg.Countries != nil {
		r.Route("/api/countries", func(r chi.Router) {
			r.Get("/", cfg.Countries.HandleList)
			r.Get("/region/{region}", cfg.Countries.HandleByRegion)
			r.Get("/name/{name}", cfg.Countries.HandleByName)
			r.Get("/capital/{capital}", cfg.Countries.HandleByCapital)
			r.Get("/alpha", cfg.Countries.HandleByCodes)
			r.Get("/alpha/{code}", cfg.Countries.HandleByCode)
		})
	}

	return r
}
