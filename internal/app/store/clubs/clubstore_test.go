package clubstore

import (
	"errors"
	"testing"

	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/app/system/indexes"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/campusclubs/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateHeadIsFirstMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	headID := primitive.NewObjectID()
	club, err := store.Create(ctx, models.Club{
		Name:     "  Chess Club ",
		Category: "Academic",
		ClubHead: headID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if club.Name != "Chess Club" {
		t.Errorf("name = %q, want trimmed", club.Name)
	}
	if !club.IsActive {
		t.Error("new club not active")
	}
	if len(club.Members) != 1 || club.Members[0] != headID {
		t.Errorf("members = %v, want just the head", club.Members)
	}
}

func TestCreateRejectsBadCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	_, err := store.Create(ctx, models.Club{
		Name:     "Mystery Club",
		Category: "Underwater Basket Weaving",
		ClubHead: primitive.NewObjectID(),
	})
	if err == nil {
		t.Fatal("invalid category accepted")
	}
}

func TestActiveNameUniquenessIsCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	first, err := store.Create(ctx, models.Club{
		Name: "Chess Club", Category: "Academic", ClubHead: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = store.Create(ctx, models.Club{
		Name: "CHESS club", Category: "Academic", ClubHead: primitive.NewObjectID(),
	})
	if !errors.Is(err, apperr.ErrDuplicateClub) {
		t.Fatalf("duplicate name: got %v, want ErrDuplicateClub", err)
	}

	// Deactivation frees the name for reuse.
	if err := store.Deactivate(ctx, first.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if _, err := store.Create(ctx, models.Club{
		Name: "Chess Club", Category: "Academic", ClubHead: primitive.NewObjectID(),
	}); err != nil {
		t.Fatalf("reuse after deactivation: %v", err)
	}
}

func TestUpdateInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	club, err := store.Create(ctx, models.Club{
		Name: "Chess Club", Category: "Academic", ClubHead: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = store.UpdateInfo(ctx, club.ID, InfoUpdate{
		Name:        "Strategy Club",
		Description: "Board games and beyond",
		Category:    "Technical",
	})
	if err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}

	got, err := store.GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Strategy Club" || got.Category != "Technical" {
		t.Errorf("got %q/%q after update", got.Name, got.Category)
	}

	if err := store.UpdateInfo(ctx, primitive.NewObjectID(), InfoUpdate{Name: "X"}); err != mongo.ErrNoDocuments {
		t.Fatalf("missing club: got %v, want ErrNoDocuments", err)
	}
}

func TestListActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	store := New(db)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	f.CreateClub(ctx, "Chess Club", head.ID)
	f.CreateClub(ctx, "Robotics Club", head.ID)
	f.CreateInactiveClub(ctx, "Ghost Club", head.ID)

	clubs, total, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(clubs) != 2 {
		t.Errorf("total=%d len=%d, want 2/2 (inactive excluded)", total, len(clubs))
	}

	clubs, total, err = store.List(ctx, ListFilter{Search: "robot"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if total != 1 || clubs[0].Name != "Robotics Club" {
		t.Errorf("search: total=%d, want 1 Robotics Club", total)
	}
}

func TestCountActiveByHead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	store := New(db)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	f.CreateClub(ctx, "Chess Club", head.ID)
	f.CreateInactiveClub(ctx, "Ghost Club", head.ID)

	n, err := store.CountActiveByHead(ctx, head.ID)
	if err != nil {
		t.Fatalf("CountActiveByHead: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
