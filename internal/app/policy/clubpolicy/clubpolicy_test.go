package clubpolicy

import (
	"testing"

	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/campusclubs/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanModifyClub(t *testing.T) {
	headID := primitive.NewObjectID()
	club := models.Club{ID: primitive.NewObjectID(), ClubHead: headID, IsActive: true}

	head := testutil.AsTestUser(headID, "Head", "head@test.com", "club_head")
	otherHead := testutil.ClubHeadUser()
	student := testutil.AsTestUser(headID, "Student", "student@test.com", "student")

	cases := []struct {
		name string
		user testutil.TestUser
		want bool
	}{
		{"own head", head, true},
		{"different head", otherHead, false},
		{"student with same id", student, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := testutil.NewAuthenticatedRequest("PUT", "/clubs/x", tc.user)
			if got := CanModifyClub(r, club); got != tc.want {
				t.Errorf("CanModifyClub = %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		r := testutil.NewRequest("PUT", "/clubs/x")
		if CanModifyClub(r, club) {
			t.Error("anonymous request can modify club")
		}
	})
}

func TestCanJoin(t *testing.T) {
	active := models.Club{ID: primitive.NewObjectID(), IsActive: true}
	inactive := models.Club{ID: primitive.NewObjectID(), IsActive: false}

	r := testutil.NewAuthenticatedRequest("POST", "/clubs/x/members", testutil.StudentUser())
	if !CanJoin(r, active) {
		t.Error("signed-in student cannot join active club")
	}
	if CanJoin(r, inactive) {
		t.Error("inactive club accepts a join")
	}
	if CanJoin(testutil.NewRequest("POST", "/clubs/x/members"), active) {
		t.Error("anonymous request can join")
	}
}

func TestCanCreateClub(t *testing.T) {
	if !CanCreateClub(testutil.NewAuthenticatedRequest("POST", "/clubs", testutil.ClubHeadUser())) {
		t.Error("club head cannot create a club")
	}
	if CanCreateClub(testutil.NewAuthenticatedRequest("POST", "/clubs", testutil.StudentUser())) {
		t.Error("student can create a club")
	}
}
