// Package events serves the event endpoints: discovery, lifecycle, and
// attendance.
package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campusclubs/clubhub/internal/app/policy/eventpolicy"
	clubstore "github.com/campusclubs/clubhub/internal/app/store/clubs"
	eventstore "github.com/campusclubs/clubhub/internal/app/store/events"
	relationstore "github.com/campusclubs/clubhub/internal/app/store/relations"
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

// Handler holds dependencies for the event endpoints.
type Handler struct {
	Events    *eventstore.Store
	Clubs     *clubstore.Store
	Relations *relationstore.Store
	Log       *zap.Logger
}

func NewHandler(events *eventstore.Store, clubs *clubstore.Store, relations *relationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Clubs: clubs, Relations: relations, Log: logger}
}

func eventID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	return id, err == nil
}

// eventView is an event with its derived status attached. Status is
// computed from the date at response time, never stored.
type eventView struct {
	models.Event
	Status string `json:"status"`
}

func viewOf(e models.Event, now time.Time) eventView {
	return eventView{Event: e, Status: status.OfEvent(e.Date, now)}
}

type listResponse struct {
	Events []eventView `json:"events"`
	Total  int64       `json:"total"`
	Page   int64       `json:"page"`
	Limit  int64       `json:"limit"`
}

// List handles GET /events.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list events")
	defer cancel()

	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	f := eventstore.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	}
	events, total, err := h.Events.List(ctx, f)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}

	now := time.Now().UTC()
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, viewOf(e, now))
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	httpjson.Write(w, http.StatusOK, listResponse{Events: views, Total: total, Page: f.Page, Limit: f.Limit})
}

// Get handles GET /events/{eventID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrEventNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get event")
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrEventNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, viewOf(event, time.Now().UTC()))
}

type createRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	Club         string    `json:"club"`
	MaxAttendees int       `json:"max_attendees"`
}

// Create handles POST /events. Only the head of the owning club may
// create events under it, and the club must be active.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.Title == "" {
		httpjson.WriteBadRequest(w, "title is required")
		return
	}
	if req.MaxAttendees < 0 {
		httpjson.WriteBadRequest(w, "max_attendees cannot be negative")
		return
	}
	clubOID, err := primitive.ObjectIDFromHex(req.Club)
	if err != nil {
		httpjson.WriteBadRequest(w, "club must be a valid id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create event")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, clubOID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrClubNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	if !eventpolicy.CanCreateEvent(r, club) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	event, err := h.Events.Create(ctx, models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Location:     req.Location,
		Club:         clubOID,
		CreatedBy:    uid,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}

	if err := h.Relations.AttachEvent(ctx, clubOID, event.ID); err != nil {
		// Leave no half-created event behind; the cascade is idempotent.
		if derr := h.Relations.CascadeDeleteEvent(ctx, event.ID); derr != nil {
			h.Log.Warn("orphan event cleanup failed",
				zap.String("event_id", event.ID.Hex()),
				zap.Error(derr))
		}
		httpjson.WriteError(w, err)
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", event.ID.Hex()),
		zap.String("club_id", clubOID.Hex()))
	httpjson.Write(w, http.StatusCreated, viewOf(event, time.Now().UTC()))
}

type updateRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	MaxAttendees int       `json:"max_attendees"`
}

// Update handles PUT /events/{eventID}. Creator only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrEventNotFound)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update event")
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrEventNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	if !eventpolicy.CanModifyEvent(r, event) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Events.UpdateInfo(ctx, id, eventstore.InfoUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
	}); err != nil {
		httpjson.WriteError(w, err)
		return
	}

	updated, err := h.Events.GetByID(ctx, id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, viewOf(updated, time.Now().UTC()))
}

// Delete handles DELETE /events/{eventID}. Creator only; removes the
// event and every back-reference to it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrEventNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "cascade event delete")
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.WriteError(w, apperr.ErrEventNotFound)
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	if !eventpolicy.CanModifyEvent(r, event) {
		httpjson.WriteError(w, apperr.ErrForbidden)
		return
	}

	if err := h.Relations.CascadeDeleteEvent(ctx, id); err != nil {
		httpjson.WriteError(w, err)
		return
	}

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// RSVP handles POST /events/{eventID}/rsvp.
func (h *Handler) RSVP(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrEventNotFound)
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "event rsvp")
	defer cancel()

	if err := h.Relations.AddAttendance(ctx, id, uid); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "rsvp confirmed"})
}

// CancelRSVP handles DELETE /events/{eventID}/rsvp.
func (h *Handler) CancelRSVP(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		httpjson.WriteError(w, apperr.ErrEventNotFound)
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.WriteUnauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "event rsvp cancel")
	defer cancel()

	if err := h.Relations.RemoveAttendance(ctx, id, uid); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "rsvp cancelled"})
}
