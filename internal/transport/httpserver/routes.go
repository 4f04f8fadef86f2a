package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"household-ledger-go/internal/config"
	"household-ledger-go/internal/transport/httpserver/handler"
	authmw "household-ledger-go/internal/transport/httpserver/middleware"
	"household-ledger-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(Metrics)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewIdentityAuth(cfg.Identity, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/households", handlers.ListHouseholds)
			r.Post("/households", handlers.CreateHousehold)
			r.Get("/households/{household_id}", handlers.GetHouseholdDetail)
			r.Patch("/households/{household_id}", handlers.UpdateHousehold)
			r.Delete("/households/{household_id}", handlers.DeleteHousehold)
			r.Post("/households/{household_id}/leave", handlers.LeaveHousehold)

			r.Patch("/households/{household_id}/members/{user_id}", handlers.UpdateMemberRole)
			r.Delete("/households/{household_id}/members/{user_id}", handlers.RemoveMember)

			r.Get("/households/{household_id}/invitations", handlers.ListHouseholdInvitations)
			r.Post("/households/{household_id}/invitations", handlers.CreateInvitation)
			r.Delete("/households/{household_id}/invitations/{invitation_id}", handlers.CancelInvitation)

			r.Get("/invitations", handlers.ListMyInvitations)
			r.Post("/invitations/accept", handlers.AcceptInvitation)
			r.Post("/invitations/reject", handlers.RejectInvitation)
		})
	})

	return r
}
