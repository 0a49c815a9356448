package eventstore

import (
	"errors"
	"testing"
	"time"

	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/campusclubs/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateRequiresFutureDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	base := models.Event{
		Title:     "Tournament",
		Club:      primitive.NewObjectID(),
		CreatedBy: primitive.NewObjectID(),
	}

	base.Date = time.Now().Add(-time.Hour)
	if _, err := store.Create(ctx, base); !errors.Is(err, apperr.ErrEventDateNotFuture) {
		t.Fatalf("past date: got %v, want ErrEventDateNotFuture", err)
	}

	base.Date = time.Now().Add(time.Hour)
	created, err := store.Create(ctx, base)
	if err != nil {
		t.Fatalf("future date: %v", err)
	}
	if created.Attendees == nil {
		t.Error("attendees array not initialized")
	}
}

func TestUpdateInfoDateRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	store := New(db)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)
	event := f.CreateEvent(ctx, "Tournament", club.ID, head.ID, time.Now().Add(48*time.Hour))

	if err := store.UpdateInfo(ctx, event.ID, InfoUpdate{Date: time.Now().Add(-time.Hour)}); !errors.Is(err, apperr.ErrEventDateNotFuture) {
		t.Fatalf("past date: got %v, want ErrEventDateNotFuture", err)
	}

	newDate := time.Now().Add(96 * time.Hour).UTC().Truncate(time.Millisecond)
	if err := store.UpdateInfo(ctx, event.ID, InfoUpdate{Title: "Finals", Date: newDate}); err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}
	got, err := store.GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Finals" {
		t.Errorf("title = %q", got.Title)
	}
	if !got.Date.Equal(newDate) {
		t.Errorf("date = %v, want %v", got.Date, newDate)
	}
}

func TestUpdateInfoCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	store := New(db)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)
	event := f.CreateEventWithCapacity(ctx, "Small Room", club.ID, head.ID, time.Now().Add(48*time.Hour), 10)

	if err := store.UpdateInfo(ctx, event.ID, InfoUpdate{MaxAttendees: 25}); err != nil {
		t.Fatalf("raise capacity: %v", err)
	}
	got, _ := store.GetByID(ctx, event.ID)
	if got.MaxAttendees != 25 {
		t.Errorf("max attendees = %d, want 25", got.MaxAttendees)
	}

	if err := store.UpdateInfo(ctx, event.ID, InfoUpdate{MaxAttendees: -1}); err != nil {
		t.Fatalf("clear capacity: %v", err)
	}
	got, _ = store.GetByID(ctx, event.ID)
	if got.MaxAttendees != 0 {
		t.Errorf("max attendees = %d, want 0 (unlimited)", got.MaxAttendees)
	}
}

func TestListStatusWindows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	store := New(db)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)
	f.CreateEvent(ctx, "Future", club.ID, head.ID, time.Now().Add(48*time.Hour))
	f.CreateEvent(ctx, "Running", club.ID, head.ID, time.Now().Add(-time.Hour))
	f.CreateEvent(ctx, "Done", club.ID, head.ID, time.Now().Add(-72*time.Hour))

	cases := []struct {
		status string
		want   string
	}{
		{"upcoming", "Future"},
		{"ongoing", "Running"},
		{"completed", "Done"},
	}
	for _, tc := range cases {
		events, total, err := store.List(ctx, ListFilter{Status: tc.status})
		if err != nil {
			t.Fatalf("List(%s): %v", tc.status, err)
		}
		if total != 1 || events[0].Title != tc.want {
			t.Errorf("List(%s): total=%d first=%v, want 1 %s", tc.status, total, events, tc.want)
		}
	}

	_, total, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List(all): %v", err)
	}
	if total != 3 {
		t.Errorf("all events total = %d, want 3", total)
	}
}

func TestListByClubDateDescending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)
	store := New(db)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)
	other := f.CreateClub(ctx, "Robotics Club", head.ID)
	f.CreateEvent(ctx, "Early", club.ID, head.ID, time.Now().Add(24*time.Hour))
	f.CreateEvent(ctx, "Late", club.ID, head.ID, time.Now().Add(72*time.Hour))
	f.CreateEvent(ctx, "Elsewhere", other.ID, head.ID, time.Now().Add(48*time.Hour))

	events, err := store.ListByClub(ctx, club.ID)
	if err != nil {
		t.Fatalf("ListByClub: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Title != "Late" || events[1].Title != "Early" {
		t.Errorf("order = %s, %s; want Late, Early", events[0].Title, events[1].Title)
	}
}
