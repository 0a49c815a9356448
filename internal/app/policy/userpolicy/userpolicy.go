// internal/app/policy/userpolicy.go
package userpolicy

import (
	"context"
	"net/http"

	"github.com/campusclubs/clubhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanViewUser reports whether the request user may view the given
// profile: themselves, or any profile when they are a club head.
func CanViewUser(r *http.Request, targetID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return uid == targetID || role == "club_head"
}

// CanModifyUser reports whether the request user may update the given
// profile. Only the user themselves can.
func CanModifyUser(r *http.Request, targetID primitive.ObjectID) bool {
	_, _, uid, ok := authz.UserCtx(r)
	return ok && uid == targetID
}

// CanDeleteUser checks the account-deletion precondition against the
// authoritative clubs collection: a user still heading an active club
// cannot be deleted. Returns (false, nil) for "refused" and a non-nil
// error only when the database check itself fails.
func CanDeleteUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (bool, error) {
	n, err := db.Collection("clubs").CountDocuments(ctx, bson.M{
		"club_head": userID,
		"is_active": true,
	})
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
