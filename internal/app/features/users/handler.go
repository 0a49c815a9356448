// Package users serves the user profile endpoints.
package users

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campusclubs/clubhub/internal/app/policy/userpolicy"
	clubstore "github.com/campusclubs/clubhub/internal/app/store/clubs"
	eventstore "github.com/campusclubs/clubhub/internal/app/store/events"
	relationstore "github.com/campusclubs/clubhub/internal/app/store/relations"
	userstore "github.com/campusclubs/clubhub/internal/app/store/users"
	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/app/system/httpjson"
	"github.com/campusclubs/clubhub/internal/app/system/status"
	"github.com/campusclubs/clubhub/internal/app/system/timeouts"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler holds dependencies for the user endpoints.
type Handler struct {
	Users     *userstore.Store
	Clubs     *clubstore.Store
	Events    *eventstore.Store
	Relations *relationstore.Store
	DB        *mongo.Database
	Log       *zap.Logger
}

func NewHandler(users *userstore.Store, clubs *clubstore.Store, events *eventstore.Store, relations *relationstore.Store, db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Clubs: clubs, Events: events, Relations: relations, DB: db, Log: logger}
}

func userID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	return id, err == nil
}

type listResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int64         `json:"page"`
	Limit int64         `json:"limit"`
}

// List handles GET /users. Club heads only; a roster lookup for
// member management.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	f := userstore.ListFilter{
		Role:   q.Get("role"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	}
	users, total, err := h.Users.List(ctx, f)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	httpjson.Write(w, http.StatusOK, listResponse{Users: users, Total: total, Page: f.Page, Limit: f.Limit})
}

// Get handles GET /users/{userID}. A user can view themselves; club
// heads can view anyone.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrUserNotFound)
		return
	}
	if !userpolicy.CanViewUser(r, id) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrUserNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

type updateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Update handles PUT /users/{userID}. Self only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrUserNotFound)
		return
	}
	if !userpolicy.CanModifyUser(r, id) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update user")
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, id, userstore.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	}); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrUserNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}

	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword handles PUT /users/{userID}/password. Self only; the
// current password must verify before the hash is replaced.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrUserNotFound)
		return
	}
	if !userpolicy.CanModifyUser(r, id) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	var req passwordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.NewPassword) < 8 {
		httpjson.WriteBadRequest(w, "new password must be at least 8 characters")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update password")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrUserNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		httpjson.WriteUnauthorized(w, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}
	if err := h.Users.UpdatePasswordHash(ctx, id, string(hash)); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Delete handles DELETE /users/{userID}. Self only, refused while the
// user heads an active club. The user is detached from every members
// and attendees array before the record goes.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrUserNotFound)
		return
	}
	if !userpolicy.CanModifyUser(r, id) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete user")
	defer cancel()

	deletable, err := userpolicy.CanDeleteUser(ctx, h.DB, id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if !deletable {
		httpjson.WriteError(w, apperr.ErrIsActiveClubHead)
		return
	}

	if err := h.Relations.DetachUser(ctx, id); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	n, err := h.Users.Delete(ctx, id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if n == 0 {
		httpjson.WriteError(w, apperr.ErrUserNotFound)
		return
	}

	h.Log.Info("user deleted", zap.String("user_id", id.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// UserClubs handles GET /users/{userID}/clubs.
func (h *Handler) UserClubs(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrUserNotFound)
		return
	}
	if !userpolicy.CanViewUser(r, id) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list user clubs")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrUserNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}

	clubs, err := h.Clubs.ListByIDs(ctx, u.Clubs)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if clubs == nil {
		clubs = []models.Club{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"clubs": clubs, "total": len(clubs)})
}

// attendedView is an event a user attends, with derived status.
type attendedView struct {
	models.Event
	Status string `json:"status"`
}

// UserEvents handles GET /users/{userID}/events.
func (h *Handler) UserEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrUserNotFound)
		return
	}
	if !userpolicy.CanViewUser(r, id) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list user events")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrUserNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}

	events, err := h.Events.ListByIDs(ctx, u.EventsAttended)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	now := time.Now().UTC()
	views := make([]attendedView, 0, len(events))
	for _, e := range events {
		views = append(views, attendedView{Event: e, Status: status.OfEvent(e.Date, now)})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": views, "total": len(views)})
}
