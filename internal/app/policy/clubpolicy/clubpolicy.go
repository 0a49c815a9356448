// internal/app/policy/clubpolicy.go
package clubpolicy

import (
	"net/http"

	"github.com/campusclubs/clubhub/internal/app/system/authz"
	"github.com/campusclubs/clubhub/internal/domain/models"
)

// CanCreateClub reports whether the request user may create a club.
// Only club heads create clubs.
func CanCreateClub(r *http.Request) bool {
	return authz.IsClubHead(r)
}

// CanModifyClub reports whether the request user may update or delete
// the club. Only the club's own head can; there is no admin override.
func CanModifyClub(r *http.Request, club models.Club) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok || role != "club_head" {
		return false
	}
	return club.ClubHead == uid
}

// CanJoin reports whether the club accepts a join from the request
// user. Any signed-in user may join an active club; the duplicate and
// existence checks live in the relations store filter.
func CanJoin(r *http.Request, club models.Club) bool {
	_, _, _, ok := authz.UserCtx(r)
	return ok && club.IsActive
}
