package dashboard

import (
	"net/http/httptest"
	"testing"
	"time"

	clubstore "github.com/campusclubs/clubhub/internal/app/store/clubs"
	eventstore "github.com/campusclubs/clubhub/internal/app/store/events"
	statsstore "github.com/campusclubs/clubhub/internal/app/store/stats"
	userstore "github.com/campusclubs/clubhub/internal/app/store/users"
	"github.com/campusclubs/clubhub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(
		statsstore.New(db),
		clubstore.New(db),
		eventstore.New(db),
		userstore.New(db),
		zap.NewNop(),
	)
	return h, testutil.NewFixtures(t, db)
}

func TestOverview(t *testing.T) {
	h, f := newHandler(t)
	ctx := testutil.TestContext(t)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)
	f.CreateEvent(ctx, "Tournament", club.ID, head.ID, time.Now().Add(48*time.Hour))

	rec := httptest.NewRecorder()
	h.Overview(rec, testutil.NewAuthenticatedRequest("GET", "/dashboard/stats", testutil.StudentUser()))
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Totals struct {
			TotalClubs  int64 `json:"total_clubs"`
			TotalEvents int64 `json:"total_events"`
		} `json:"totals"`
		Categories []struct {
			Category string `json:"category"`
			Count    int64  `json:"count"`
		} `json:"categories"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if resp.Totals.TotalClubs != 1 || resp.Totals.TotalEvents != 1 {
		t.Errorf("totals = %+v", resp.Totals)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].Category != "Academic" {
		t.Errorf("categories = %+v", resp.Categories)
	}
}

func TestActivitiesNewestFirst(t *testing.T) {
	h, f := newHandler(t)
	ctx := testutil.TestContext(t)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)
	f.CreateEvent(ctx, "Tournament", club.ID, head.ID, time.Now().Add(48*time.Hour))

	rec := httptest.NewRecorder()
	h.Activities(rec, testutil.NewAuthenticatedRequest("GET", "/dashboard/activities", testutil.StudentUser()))
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Activities []struct {
			Type      string    `json:"type"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"activities"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if len(resp.Activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(resp.Activities))
	}
	for i := 1; i < len(resp.Activities); i++ {
		if resp.Activities[i].CreatedAt.After(resp.Activities[i-1].CreatedAt) {
			t.Error("activities not sorted newest-first")
		}
	}
}

func TestPersonal(t *testing.T) {
	h, f := newHandler(t)
	ctx := testutil.TestContext(t)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)
	f.CreateEvent(ctx, "Tournament", club.ID, head.ID, time.Now().Add(48*time.Hour))

	rec := httptest.NewRecorder()
	req := testutil.NewAuthenticatedRequest("GET", "/dashboard/personal",
		testutil.AsTestUser(head.ID, head.FullName, head.Email, head.Role))
	h.Personal(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ClubCount      int64 `json:"club_count"`
		UpcomingEvents []struct {
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"upcoming_events"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if resp.ClubCount != 1 {
		t.Errorf("club count = %d, want 1", resp.ClubCount)
	}
	if len(resp.UpcomingEvents) != 1 || resp.UpcomingEvents[0].Status != "upcoming" {
		t.Errorf("upcoming events = %+v", resp.UpcomingEvents)
	}
}

func TestClubStatsHeadOnly(t *testing.T) {
	h, f := newHandler(t)
	ctx := testutil.TestContext(t)

	head := f.CreateClubHead(ctx, "Head", "head@example.com")
	club := f.CreateClub(ctx, "Chess Club", head.ID)

	rec := httptest.NewRecorder()
	req := testutil.WithChiURLParam(testutil.NewRequest("GET", "/dashboard/club-stats/x"), "clubID", club.ID.Hex())
	h.ClubStats(rec, testutil.WithUser(req, testutil.ClubHeadUser()))
	if rec.Code != 403 {
		t.Fatalf("other head status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = testutil.WithChiURLParam(testutil.NewRequest("GET", "/dashboard/club-stats/x"), "clubID", club.ID.Hex())
	h.ClubStats(rec, testutil.WithUser(req, testutil.AsTestUser(head.ID, head.FullName, head.Email, head.Role)))
	if rec.Code != 200 {
		t.Fatalf("own head status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		MemberCount int `json:"member_count"`
		EventCount  int `json:"event_count"`
	}
	testutil.DecodeBody(t, rec, &resp)
	if resp.MemberCount != 1 {
		t.Errorf("member count = %d, want 1", resp.MemberCount)
	}
}
