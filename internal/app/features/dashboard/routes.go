// internal/app/features/dashboard/routes.go
package dashboard

import (
	sysauth "github.com/campusclubs/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the dashboard endpoints. Club stats
// are limited to club heads; ownership of the specific club is checked
// in the handler.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Get("/stats", h.Overview)
	r.Get("/activities", h.Activities)
	r.Get("/personal", h.Personal)
	r.With(sysauth.RequireRole("club_head")).Get("/club-stats/{clubID}", h.ClubStats)
	return r
}
