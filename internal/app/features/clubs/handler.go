// Package clubs serves the club endpoints: discovery, lifecycle, and
// membership.
package clubs

import (
	"net/http"
	"strconv"

	"github.com/campusclubs/clubhub/internal/app/policy/clubpolicy"
	clubstore "github.com/campusclubs/clubhub/internal/app/store/clubs"
	eventstore "github.com/campusclubs/clubhub/internal/app/store/events"
	relationstore "github.com/campusclubs/clubhub/internal/app/store/relations"
	userstore "github.com/campusclubs/clubhub/internal/app/store/users"
	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/app/system/authz"
	"github.com/campusclubs/clubhub/internal/app/system/httpjson"
	"github.com/campusclubs/clubhub/internal/app/system/timeouts"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the club endpoints.
type Handler struct {
	Clubs     *clubstore.Store
	Events    *eventstore.Store
	Users     *userstore.Store
	Relations *relationstore.Store
	Log       *zap.Logger
}

func NewHandler(clubs *clubstore.Store, events *eventstore.Store, users *userstore.Store, relations *relationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Clubs: clubs, Events: events, Users: users, Relations: relations, Log: logger}
}

func clubID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "clubID"))
	return id, err == nil
}

type listResponse struct {
	Clubs []models.Club `json:"clubs"`
	Total int64         `json:"total"`
	Page  int64         `json:"page"`
	Limit int64         `json:"limit"`
}

// List handles GET /clubs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list clubs")
	defer cancel()

	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	f := clubstore.ListFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Page:     page,
		Limit:    limit,
	}
	clubs, total, err := h.Clubs.List(ctx, f)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if clubs == nil {
		clubs = []models.Club{}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	httpjson.Write(w, http.StatusOK, listResponse{Clubs: clubs, Total: total, Page: f.Page, Limit: f.Limit})
}

// Get handles GET /clubs/{clubID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := clubID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get club")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrClubNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, club)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Create handles POST /clubs. Club heads only; the creator becomes the
// head and the first member, and the club is mirrored into their clubs
// array.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !clubpolicy.CanCreateClub(r) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		httpjson.WriteBadRequest(w, "name is required")
		return
	}
	if !models.ValidCategory(req.Category) {
		httpjson.WriteBadRequest(w, "category is not one of the allowed club categories")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create club")
	defer cancel()

	club, err := h.Clubs.Create(ctx, models.Club{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ClubHead:    uid,
	})
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}

	// Mirror the head's founding membership. The club document already
	// lists the head as a member.
	if err := h.Relations.MirrorFoundingMembership(ctx, club.ID, uid); err != nil {
		h.Log.Warn("founding membership mirror failed",
			zap.String("club_id", club.ID.Hex()),
			zap.Error(err))
	}

	h.Log.Info("club created",
		zap.String("club_id", club.ID.Hex()),
		zap.String("head_id", uid.Hex()))
	httpjson.Write(w, http.StatusCreated, club)
}

type updateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Update handles PUT /clubs/{clubID}. Head only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := clubID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update club")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrClubNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	if !clubpolicy.CanModifyClub(r, club) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Clubs.UpdateInfo(ctx, id, clubstore.InfoUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}); err != nil {
		httpjson.WriteError(w, err)
		return
	}

	updated, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// Delete handles DELETE /clubs/{clubID}. Head only. The club is
// deactivated first so it refuses new members and events while the
// cascade removes its events and every back-reference.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := clubID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "cascade club delete")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrClubNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	if !clubpolicy.CanModifyClub(r, club) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Clubs.Deactivate(ctx, id); err != nil && err != mongo.ErrNoDocuments {
		httpjson.WriteError(w, err)
		return
	}
	if err := h.Relations.CascadeDeleteClub(ctx, id); err != nil {
		httpjson.WriteError(w, err)
		return
	}

	h.Log.Info("club deleted", zap.String("club_id", id.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "club deleted"})
}

// Join handles POST /clubs/{clubID}/members.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := clubID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "join club")
	defer cancel()

	count, err := h.Relations.AddMembership(ctx, id, uid)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"message":      "joined club",
		"member_count": count,
	})
}

// Leave handles DELETE /clubs/{clubID}/members.
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := clubID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "leave club")
	defer cancel()

	if err := h.Relations.RemoveMembership(ctx, id, uid); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "left club"})
}

// memberView is the reduced user shape returned in member listings.
type memberView struct {
	ID       primitive.ObjectID `json:"id"`
	FullName string             `json:"full_name"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
	IsHead   bool               `json:"is_head"`
}

// Members handles GET /clubs/{clubID}/members.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	id, ok := clubID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list club members")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrClubNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}

	users, err := h.Users.ListByIDs(ctx, club.Members)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	views := make([]memberView, 0, len(users))
	for _, u := range users {
		views = append(views, memberView{
			ID:       u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Role:     u.Role,
			IsHead:   u.ID == club.ClubHead,
		})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"members": views, "total": len(views)})
}

// ClubEvents handles GET /clubs/{clubID}/events.
func (h *Handler) ClubEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := clubID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrClubNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list club events")
	defer cancel()

	if _, err := h.Clubs.GetByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrClubNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}

	events, err := h.Events.ListByClub(ctx, id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": events, "total": len(events)})
}
