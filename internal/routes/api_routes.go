package routes

import (
	"github.com/go-chi/chi/v5"

	"riverbend/portal/internal/api"
	"riverbend/portal/internal/middleware"
)

// Limiters groups the per-IP limiters of the public write endpoints.
type Limiters struct {
	Apply    *middleware.RateLimiter
	Login    *middleware.RateLimiter
	Register *middleware.RateLimiter
	Recovery *middleware.RateLimiter
}

func NewLimiters(deps *api.Dependencies) *Limiters {
	return &Limiters{
		Apply:    middleware.NewRateLimiter("sponsor_apply", 5, 5, deps.Metrics),
		Login:    middleware.NewRateLimiter("login", 10, 5, deps.Metrics),
		Register: middleware.NewRateLimiter("register", 5, 3, deps.Metrics),
		Recovery: middleware.NewRateLimiter("password_recovery", 5, 3, deps.Metrics),
	}
}

// RegisterAPIRoutes registers all /api routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, limiters *Limiters) {
	deps := handlers.Deps()
	users := deps.Repo.User

	r.Route("/api", func(a chi.Router) {
		// Public, a session is attached when present
		a.Group(func(public chi.Router) {
			public.Use(middleware.OptionalAuthMiddleware(deps.Tokens, users))

			public.Get("/tiers", handlers.Tiers())
			public.Get("/sponsors", handlers.SponsorWall())
			public.Get("/events", handlers.ListEvents())
			public.Get("/events/{id}", handlers.GetEvent())
			public.Get("/board", handlers.Board())
			public.Get("/announcements", handlers.Announcements())
			public.Get("/documents", handlers.ListDocuments())
			public.Get("/documents/{id}/download", handlers.DownloadDocument())

			public.Post("/sponsor/apply/validate", handlers.ValidateApplicationStep())
			public.With(limiters.Apply.Middleware).Post("/sponsor/apply", handlers.Apply())

			public.With(limiters.Register.Middleware).Post("/auth/register", handlers.Register())
			public.With(limiters.Login.Middleware).Post("/auth/login", handlers.Login())
			public.Post("/auth/logout", handlers.Logout())
			public.Post("/auth/verify-email", handlers.VerifyEmail())
			public.With(limiters.Recovery.Middleware).Post("/auth/forgot-password", handlers.ForgotPassword())
			public.With(limiters.Recovery.Middleware).Post("/auth/reset-password", handlers.ResetPassword())
		})

		// Any signed-in member
		a.Group(func(member chi.Router) {
			member.Use(middleware.AuthMiddleware(deps.Tokens, users))

			member.Get("/me", handlers.GetMe())
			member.Put("/me", handlers.UpdateMe())
			member.Get("/volunteer/profile", handlers.GetVolunteerProfile())
			member.Put("/volunteer/profile", handlers.UpdateVolunteerProfile())
			member.Get("/volunteer/signups", handlers.MySignups())
			member.Post("/events/{id}/signup", handlers.EventSignup())
			member.Delete("/events/{id}/signup", handlers.CancelSignup())

			// Board members and admins
			member.Group(func(board chi.Router) {
				board.Use(middleware.IsBoardMiddleware())
				board.Post("/documents", handlers.UploadDocument())

				// Admin-only group
				board.Group(func(admin chi.Router) {
					admin.Use(middleware.IsAdminMiddleware())

					admin.Delete("/documents/{id}", handlers.DeleteDocument())

					admin.Route("/admin", func(ad chi.Router) {
						ad.Get("/stats", handlers.Stats())

						ad.Get("/users", handlers.ListUsers())
						ad.Post("/users", handlers.CreateUser())
						ad.Get("/users/{id}", handlers.GetUser())
						ad.Put("/users/{id}", handlers.UpdateUser())
						ad.Delete("/users/{id}", handlers.DeleteUser())

						ad.Get("/sponsors", handlers.ListSponsors())
						ad.Post("/sponsors", handlers.CreateSponsor())
						ad.Get("/sponsors/{id}", handlers.GetSponsor())
						ad.Put("/sponsors/{id}", handlers.UpdateSponsor())
						ad.Delete("/sponsors/{id}", handlers.DeleteSponsor())

						ad.Get("/events", handlers.AdminListEvents())
						ad.Post("/events", handlers.CreateEvent())
						ad.Put("/events/{id}", handlers.UpdateEvent())
						ad.Delete("/events/{id}", handlers.DeleteEvent())
						ad.Get("/events/{id}/signups", handlers.ListEventSignups())
						ad.Put("/signups/{id}", handlers.UpdateSignup())

						ad.Get("/announcements", handlers.AdminListAnnouncements())
						ad.Post("/announcements", handlers.CreateAnnouncement())
						ad.Put("/announcements/{id}", handlers.UpdateAnnouncement())
						ad.Delete("/announcements/{id}", handlers.DeleteAnnouncement())
					})
				})
			})
		})
	})
}
