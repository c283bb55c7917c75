package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/medhub/clinic-frontdesk/internal/auth"
	"github.com/medhub/clinic-frontdesk/internal/config"
	"github.com/medhub/clinic-frontdesk/internal/httputil"
	"github.com/medhub/clinic-frontdesk/internal/logging"
	"github.com/medhub/clinic-frontdesk/internal/patient"
	"github.com/medhub/clinic-frontdesk/internal/user"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	patientHandler *patient.Handler,
	sessionMiddleware *auth.Middleware,
	pages *Pages,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Static assets, exempt from the page gate
	r.Handle("/static/*", StaticHandler())

	// API routes. These enforce their own authorization: the page gate never
	// applies here, and failures are JSON errors, not redirects.
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		// Everything below requires a fully validated session
		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware.RequireSession)

			r.Get("/me", authHandler.Me)

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", patientHandler.List)
				r.Post("/", patientHandler.Create)
				r.Get("/card/{cardNumber}", patientHandler.GetByCard)
				r.Get("/{id}", patientHandler.Get)
				r.Put("/{id}", patientHandler.Update)
				r.Delete("/{id}", patientHandler.Delete)
			})

			// Admin-only user management
			r.Route("/users", func(r chi.Router) {
				r.Use(sessionMiddleware.RequireAdmin)

				r.Get("/", userHandler.List)
				r.Get("/unverified", userHandler.ListUnverified)
				r.Post("/{id}/verify", userHandler.Verify)
				r.Delete("/{id}", userHandler.Reject)
			})
		})
	})

	// Pages, behind the redirect gate
	r.Group(func(r chi.Router) {
		r.Use(PageGate)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, landingPath, http.StatusSeeOther)
		})
		r.Get("/login", pages.Render("login.html"))
		r.Get("/signup", pages.Render("signup.html"))
		r.Get("/dashboard", pages.Render("dashboard.html"))
		r.Get("/dashboard/patients", pages.Render("patients.html"))
		r.Get("/dashboard/scan", pages.Render("scan.html"))
		r.Get("/admin/verify-users", pages.Render("verify_users.html"))
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
