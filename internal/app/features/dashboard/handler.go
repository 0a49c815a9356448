// Package dashboard serves the aggregate views: global stats, recent
// activity, the signed-in user's personal summary, and per-club stats
// for club heads.
package dashboard

import (
	"net/http"
	"sort"
	"time"

	clubstore "github.com/campusclubs/clubhub/internal/app/store/clubs"
	eventstore "github.com/campusclubs/clubhub/internal/app/store/events"
	statsstore "github.com/campusclubs/clubhub/internal/app/store/stats"
	userstore "github.com/campusclubs/clubhub/internal/app/store/users"
	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/app/system/authz"
	"github.com/campusclubs/clubhub/internal/app/system/httpjson"
	"github.com/campusclubs/clubhub/internal/app/system/status"
	"github.com/campusclubs/clubhub/internal/app/system/timeouts"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the dashboard endpoints.
type Handler struct {
	Stats  *statsstore.Store
	Clubs  *clubstore.Store
	Events *eventstore.Store
	Users  *userstore.Store
	Log    *zap.Logger
}

func NewHandler(stats *statsstore.Store, clubs *clubstore.Store, events *eventstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Stats: stats, Clubs: clubs, Events: events, Users: users, Log: logger}
}

// Overview handles GET /dashboard/stats.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard stats")
	defer cancel()

	global, err := h.Stats.Global(ctx)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	recent, err := h.Stats.Recent(ctx)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	categories, err := h.Stats.ClubsByCategory(ctx)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if categories == nil {
		categories = []statsstore.CategoryCount{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"totals":     global,
		"recent":     recent,
		"categories": categories,
	})
}

// activityItem is one row of the recent-activity feed.
type activityItem struct {
	Type      string             `json:"type"` // club_created | event_created
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"created_at"`
}

// Activities handles GET /dashboard/activities: the newest clubs and
// events interleaved newest-first.
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard activities")
	defer cancel()

	clubs, err := h.Stats.RecentClubs(ctx, 5)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	events, err := h.Stats.RecentEvents(ctx, 5)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}

	items := make([]activityItem, 0, len(clubs)+len(events))
	for _, c := range clubs {
		items = append(items, activityItem{Type: "club_created", ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	for _, e := range events {
		items = append(items, activityItem{Type: "event_created", ID: e.ID, Name: e.Title, CreatedAt: e.CreatedAt})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	httpjson.Write(w, http.StatusOK, map[string]any{"activities": items})
}

// upcomingView is an upcoming event row in the personal summary.
type upcomingView struct {
	models.Event
	Status string `json:"status"`
}

// Personal handles GET /dashboard/personal: the signed-in user's club
// count, memberships, and upcoming events in their clubs.
func (h *Handler) Personal(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard personal")
	defer cancel()

	clubCount, err := h.Stats.MyClubCount(ctx, uid, role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrUserNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrUserNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}

	upcoming, err := h.Events.ListUpcomingForClubs(ctx, u.Clubs, 10)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	now := time.Now().UTC()
	views := make([]upcomingView, 0, len(upcoming))
	for _, e := range upcoming {
		views = append(views, upcomingView{Event: e, Status: status.OfEvent(e.Date, now)})
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"club_count":      clubCount,
		"events_attended": len(u.EventsAttended),
		"upcoming_events": views,
	})
}

// ClubStats handles GET /dashboard/club-stats/{clubID}. Head of the
// club only: member growth by month and recent event attendance.
func (h *Handler) ClubStats(w http.ResponseWriter, r *http.Request) {
	clubID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	if err != nil {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard club stats")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, clubID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrClubNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	if club.ClubHead != uid {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	since := time.Now().UTC().AddDate(-1, 0, 0)
	growth, err := h.Stats.MemberGrowth(ctx, clubID, since)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if growth == nil {
		growth = []statsstore.GrowthPoint{}
	}
	attendance, err := h.Stats.EventAttendanceSummary(ctx, clubID, 10)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if attendance == nil {
		attendance = []statsstore.EventSummary{}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"member_count":  len(club.Members),
		"event_count":   len(club.Events),
		"member_growth": growth,
		"attendance":    attendance,
	})
}
