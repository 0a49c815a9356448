// internal/app/features/events/routes.go
package events

import (
	sysauth "github.com/campusclubs/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the event endpoints. All routes
// require a signed-in user; creation requires the club_head role and
// ownership is checked per event in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.List)
	r.With(sysauth.RequireRole("club_head")).Post("/", h.Create)

	r.Route("/{eventID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/rsvp", h.RSVP)
		r.Delete("/rsvp", h.CancelRSVP)
	})
	return r
}
