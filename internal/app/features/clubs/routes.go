// internal/app/features/clubs/routes.go
package clubs

import (
	sysauth "github.com/campusclubs/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the club endpoints. Everything
// requires a signed-in user; club creation additionally requires the
// club_head role, and per-club ownership is checked in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/", h.List)
	r.With(sysauth.RequireRole("club_head")).Post("/", h.Create)

	r.Route("/{clubID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/members", h.Join)
		r.Delete("/members", h.Leave)
		r.Get("/members", h.Members)
		r.Get("/events", h.ClubEvents)
	})
	return r
}
