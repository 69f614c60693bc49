package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/passforge/passforge-go/internal/crypto"
	"github.com/passforge/passforge-go/internal/middleware"
)

// Routes holds everything the router mounts. Auth and Presets are nil when
// no database is available, in which case their routes are not registered.
type Routes struct {
	Generator *GeneratorHandler
	Auth      *AuthHandler
	Presets   *PresetHandler
	Tokens    *crypto.TokenIssuer
	Limiter   *middleware.RateLimiter
}

// NewRouter builds the HTTP API. Rate limits key on the socket address;
// forwarding headers are client-controlled and ignored.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/generate/options", rt.Generator.HandleOptions)
		r.With(rt.Limiter.Handler).Post("/generate", rt.Generator.HandleGenerate)

		if rt.Auth == nil || rt.Presets == nil {
			return
		}

		r.Group(func(r chi.Router) {
			r.Use(rt.Limiter.Handler)
			r.Post("/auth/register", rt.Auth.HandleRegister)
			r.Post("/auth/login", rt.Auth.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(rt.Tokens))
			r.Get("/auth/me", rt.Auth.HandleMe)

			r.Get("/presets", rt.Presets.HandleList)
			r.Post("/presets", rt.Presets.HandleCreate)
			r.Put("/presets/{id}", rt.Presets.HandleUpdate)
			r.Delete("/presets/{id}", rt.Presets.HandleDelete)
			r.With(rt.Limiter.Handler).Post("/presets/{id}/generate", rt.Presets.HandleGenerate)
		})
	})

	return r
}
