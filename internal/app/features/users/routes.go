// internal/app/features/users/routes.go
package users

import (
	sysauth "github.com/campusclubs/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the user endpoints. The roster list
// is club_head only; per-user access is checked in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.With(sysauth.RequireRole("club_head")).Get("/", h.List)

	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Put("/password", h.UpdatePassword)
		r.Get("/clubs", h.UserClubs)
		r.Get("/events", h.UserEvents)
	})
	return r
}
