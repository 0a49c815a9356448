package eventpolicy

import (
	"testing"
	"time"

	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/campusclubs/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanCreateEvent(t *testing.T) {
	headID := primitive.NewObjectID()
	active := models.Club{ID: primitive.NewObjectID(), ClubHead: headID, IsActive: true}
	inactive := models.Club{ID: primitive.NewObjectID(), ClubHead: headID, IsActive: false}

	head := testutil.AsTestUser(headID, "Head", "head@test.com", "club_head")
	r := testutil.NewAuthenticatedRequest("POST", "/events", head)

	if !CanCreateEvent(r, active) {
		t.Error("head cannot create event in own active club")
	}
	if CanCreateEvent(r, inactive) {
		t.Error("head can create event in deactivated club")
	}
	if CanCreateEvent(testutil.NewAuthenticatedRequest("POST", "/events", testutil.ClubHeadUser()), active) {
		t.Error("non-head can create event in someone else's club")
	}
}

func TestCanModifyEvent(t *testing.T) {
	creatorID := primitive.NewObjectID()
	event := models.Event{ID: primitive.NewObjectID(), CreatedBy: creatorID}

	creator := testutil.AsTestUser(creatorID, "Head", "head@test.com", "club_head")
	if !CanModifyEvent(testutil.NewAuthenticatedRequest("PUT", "/events/x", creator), event) {
		t.Error("creator cannot modify own event")
	}
	if CanModifyEvent(testutil.NewAuthenticatedRequest("PUT", "/events/x", testutil.ClubHeadUser()), event) {
		t.Error("other head can modify event")
	}
}

func TestCanRSVP(t *testing.T) {
	now := time.Now()
	future := models.Event{Date: now.Add(time.Hour)}
	past := models.Event{Date: now.Add(-time.Hour)}

	r := testutil.NewAuthenticatedRequest("POST", "/events/x/rsvp", testutil.StudentUser())
	if !CanRSVP(r, future, now) {
		t.Error("student cannot RSVP to future event")
	}
	if CanRSVP(r, past, now) {
		t.Error("RSVP accepted for past event")
	}
	if CanRSVP(testutil.NewRequest("POST", "/events/x/rsvp"), future, now) {
		t.Error("anonymous RSVP accepted")
	}
}
