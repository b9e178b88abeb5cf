package http

import (
	"net/http"

	"github.com/contacts-api/internal/application/account"
	"github.com/contacts-api/internal/application/auth"
	"github.com/contacts-api/internal/application/contact"
	"github.com/contacts-api/internal/application/identity"
	"github.com/contacts-api/internal/config"
	"github.com/contacts-api/internal/transport/http/handler"
	appmiddleware "github.com/contacts-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Hasher:      deps.Hasher,
		Tokens:      deps.Tokens,
		Mailer:      deps.Mailer,
		Events:      deps.Events,
		BaseURL:     cfg.AppBaseURL,
	})
	accountSvc := account.NewService(deps.AccountRepo, deps.AvatarStore)
	contactSvc := contact.NewService(deps.ContactRepo)
	resolver := identity.NewResolver(deps.AccountRepo, deps.Tokens)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, accountSvc)
	contactH := handler.NewContactHandler(contactSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/signup", authH.Signup)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)
		r.Get("/auth/verify/{token}", authH.VerifyEmail)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(resolver))

			r.Get("/auth/me", authH.Me)
			r.Patch("/auth/avatar", authH.UpdateAvatar)

			r.Post("/contacts", contactH.Create)
			r.Get("/contacts", contactH.List)
			r.Get("/contacts/search", contactH.Search)
			r.Get("/contacts/birthdays", contactH.UpcomingBirthdays)
			r.Get("/contacts/{id}", contactH.Get)
			r.Put("/contacts/{id}", contactH.Update)
			r.Delete("/contacts/{id}", contactH.Delete)
		})
	})

	return r
}
