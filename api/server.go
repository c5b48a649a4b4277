/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For when proxied
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Allowed origins come from UC_CORS_ORIGINS

ROUTE GROUPS:
  /api/uc/*       Calculations and rate lookups (public)
  /api/auth/*     Token issuing
  /api/users/*    User management
  /api/items/*    Item management
  /api/admin/*    Rate administration (bearer token)
  /health         Liveness

SECURITY:
  Only /api/admin/* requires a token. With no UC_SECRET_KEY configured
  the admin surface answers 503 instead of being silently open.

SEE ALSO:
  - handlers.go: Handler implementations
  - auth/token.go: The middleware guarding /api/admin
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/claimkit/uc-engine/auth"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.Settings.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Entitlement routes
		r.Route("/uc", func(r chi.Router) {
			r.Post("/calculate", h.Calculate)
			r.Get("/calculation/{claimReference}", h.GetCalculation)
			r.Get("/calculations", h.ListCalculations)
			r.Get("/rates", h.GetRateBook)
			r.Get("/lha-rate/{brmaCode}", h.GetLHARate)
			r.Get("/lha-rates", h.ListLHASchedules)
			r.Get("/lha-rates/{brmaCode}", h.GetLHASchedule)
		})

		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", h.IssueToken)
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		// Item routes
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
			r.Get("/{id}", h.GetItem)
			r.Put("/{id}", h.UpdateItem)
			r.Delete("/{id}", h.DeleteItem)
		})

		// Admin routes (bearer token)
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(h.Settings.SecretKey))
			r.Post("/lha-rates", h.UpsertLHARate)
		})
	})

	// Health
	r.Get("/health", h.Health)

	// Landing page for anyone opening the service root in a browser
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>UC Entitlement Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>UC Entitlement Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li>POST /api/uc/calculate - Calculate an entitlement</li>
<li><a href="/api/uc/calculations">/api/uc/calculations</a> - Recent calculations</li>
<li><a href="/api/uc/rates">/api/uc/rates</a> - Published rate book</li>
<li><a href="/api/uc/lha-rates">/api/uc/lha-rates</a> - LHA schedules</li>
<li><a href="/health">/health</a> - Health check</li>
</ul>
</body>
</html>`))
	})

	return r
}
