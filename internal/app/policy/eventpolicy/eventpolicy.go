// internal/app/policy/eventpolicy.go
package eventpolicy

import (
	"net/http"
	"time"

	"github.com/campusclubs/clubhub/internal/app/system/authz"
	"github.com/campusclubs/clubhub/internal/domain/models"
)

// CanCreateEvent reports whether the request user may create an event
// under the given club: the user must be the club's head and the club
// must be active.
func CanCreateEvent(r *http.Request, club models.Club) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok || role != "club_head" {
		return false
	}
	return club.IsActive && club.ClubHead == uid
}

// CanModifyEvent reports whether the request user may update or delete
// the event. Only the event's creator can.
func CanModifyEvent(r *http.Request, event models.Event) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok || role != "club_head" {
		return false
	}
	return event.CreatedBy == uid
}

// CanRSVP reports whether an RSVP attempt is even worth sending to the
// store: any signed-in user, event not started. Capacity and duplicate
// checks are enforced atomically by the relations store filter; this
// is only the cheap early rejection.
func CanRSVP(r *http.Request, event models.Event, now time.Time) bool {
	_, _, _, ok := authz.UserCtx(r)
	return ok && event.Date.After(now)
}
