package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/campusclubs/clubhub/internal/app/system/auth"
	"github.com/campusclubs/clubhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, name, userID, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false with no user in context")
	}
	if role != "visitor" {
		t.Errorf("expected role 'visitor', got %q", role)
	}
	if name != "" {
		t.Errorf("expected empty name, got %q", name)
	}
	if userID != primitive.NilObjectID {
		t.Error("expected NilObjectID")
	}
}

func TestUserCtx_ValidUser(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.RequestUser{
		ID:   id.Hex(),
		Name: "Ada Park",
		Role: "Club_Head",
	})

	role, name, userID, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "club_head" {
		t.Errorf("expected lowercased role 'club_head', got %q", role)
	}
	if name != "Ada Park" {
		t.Errorf("unexpected name %q", name)
	}
	if userID != id {
		t.Errorf("userID: got %v, want %v", userID, id)
	}
}

func TestUserCtx_MalformedID_FailsClosed(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.RequestUser{ID: "not-an-object-id", Role: "student"})

	_, _, _, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for malformed user ID")
	}
}

func TestRoleHelpers(t *testing.T) {
	head := httptest.NewRequest("GET", "/", nil)
	head = auth.WithTestUser(head, &auth.RequestUser{ID: primitive.NewObjectID().Hex(), Role: "club_head"})

	student := httptest.NewRequest("GET", "/", nil)
	student = auth.WithTestUser(student, &auth.RequestUser{ID: primitive.NewObjectID().Hex(), Role: "student"})

	if !authz.IsClubHead(head) || authz.IsStudent(head) {
		t.Error("club_head user misclassified")
	}
	if !authz.IsStudent(student) || authz.IsClubHead(student) {
		t.Error("student user misclassified")
	}
}

func TestIsSelf(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.RequestUser{ID: id.Hex(), Role: "student"})

	if !authz.IsSelf(req, id) {
		t.Error("expected IsSelf true for own ID")
	}
	if authz.IsSelf(req, primitive.NewObjectID()) {
		t.Error("expected IsSelf false for other ID")
	}
}
