package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/lofoneh/usersvc/internal/api/handlers"
	mw "github.com/lofoneh/usersvc/internal/api/middleware"
)

type Dependencies struct {
	UsersHandler  *handlers.UsersHandler
	HealthHandler *handlers.HealthHandler
	// RateLimiter is optional; nil disables limiting.
	RateLimiter *mw.RateLimiter
	CORSOrigins string
	// TrustProxyHeaders takes the client address from X-Real-IP or
	// X-Forwarded-For. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	if dep.TrustProxyHeaders {
		r.Use(chimid.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.CORSOrigins))
	if dep.RateLimiter != nil {
		r.Use(dep.RateLimiter.Middleware)
	}
	r.Use(chimid.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found"}` + "\n"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"Method Not Allowed"}` + "\n"))
	})

	// Health endpoints
	hh := dep.HealthHandler
	if hh == nil {
		hh = handlers.NewHealthHandler(nil)
	}
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", dep.UsersHandler.List)
		ur.Post("/", dep.UsersHandler.Create)
		ur.Get("/{id}", dep.UsersHandler.Get)
		ur.Put("/{id}", dep.UsersHandler.Update)
		ur.Delete("/{id}", dep.UsersHandler.Delete)
	})

	return r
}
