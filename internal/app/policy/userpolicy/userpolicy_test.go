package userpolicy

import (
	"testing"

	"github.com/campusclubs/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanViewUser(t *testing.T) {
	selfID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	self := testutil.AsTestUser(selfID, "Student", "student@test.com", "student")
	r := testutil.NewAuthenticatedRequest("GET", "/users/x", self)
	if !CanViewUser(r, selfID) {
		t.Error("user cannot view own profile")
	}
	if CanViewUser(r, otherID) {
		t.Error("student can view someone else's profile")
	}
	if !CanViewUser(testutil.NewAuthenticatedRequest("GET", "/users/x", testutil.ClubHeadUser()), otherID) {
		t.Error("club head cannot view member profile")
	}
}

func TestCanModifyUser(t *testing.T) {
	selfID := primitive.NewObjectID()
	self := testutil.AsTestUser(selfID, "Student", "student@test.com", "student")

	if !CanModifyUser(testutil.NewAuthenticatedRequest("PUT", "/users/x", self), selfID) {
		t.Error("user cannot modify own profile")
	}
	if CanModifyUser(testutil.NewAuthenticatedRequest("PUT", "/users/x", testutil.ClubHeadUser()), selfID) {
		t.Error("club head can modify someone else's profile")
	}
}

func TestCanDeleteUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	student := f.CreateStudent(ctx, "Student", "student@example.com")
	f.CreateClub(ctx, "Chess Club", head.ID)

	ok, err := CanDeleteUser(ctx, db, head.ID)
	if err != nil {
		t.Fatalf("CanDeleteUser(head): %v", err)
	}
	if ok {
		t.Error("head of active club is deletable")
	}

	ok, err = CanDeleteUser(ctx, db, student.ID)
	if err != nil {
		t.Fatalf("CanDeleteUser(student): %v", err)
	}
	if !ok {
		t.Error("plain student is not deletable")
	}
}

func TestCanDeleteUserInactiveClubsOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	f.CreateInactiveClub(ctx, "Old Club", head.ID)

	ok, err := CanDeleteUser(ctx, db, head.ID)
	if err != nil {
		t.Fatalf("CanDeleteUser: %v", err)
	}
	if !ok {
		t.Error("head of only inactive clubs is not deletable")
	}
}
