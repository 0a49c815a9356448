// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"time"

	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/app/system/normalize"
	"github.com/campusclubs/clubhub/internal/app/system/status"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Create inserts a new event. The date must be strictly in the future;
// re-checked here so a handler bug cannot persist a past event. The
// caller mirrors the event into the owning club's events array
// (relations store).
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now().UTC()
	if !e.Date.After(now) {
		return models.Event{}, apperr.ErrEventDateNotFuture
	}

	e.ID = primitive.NewObjectID()
	e.Title = normalize.Name(e.Title)
	e.Location = normalize.Name(e.Location)
	if e.Attendees == nil {
		e.Attendees = []primitive.ObjectID{}
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// InfoUpdate holds the mutable event fields. Zero values leave the
// field alone; MaxAttendees < 0 clears the ceiling.
type InfoUpdate struct {
	Title        string
	Description  string
	Date         time.Time
	Location     string
	MaxAttendees int
}

// UpdateInfo updates event details. A date change must still be in the
// future (temporal invariant re-checked at the store).
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if normalize.Name(upd.Title) != "" {
		set["title"] = normalize.Name(upd.Title)
	}
	if upd.Description != "" {
		set["description"] = upd.Description
	}
	if !upd.Date.IsZero() {
		if !upd.Date.After(time.Now().UTC()) {
			return apperr.ErrEventDateNotFuture
		}
		set["date"] = upd.Date
	}
	if normalize.Name(upd.Location) != "" {
		set["location"] = normalize.Name(upd.Location)
	}
	if upd.MaxAttendees > 0 {
		set["max_attendees"] = upd.MaxAttendees
	} else if upd.MaxAttendees < 0 {
		unset["max_attendees"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Status string // "", "All", or a derived status (upcoming|ongoing|completed)
	Search string // matches title or description, case-insensitive
	Page   int64  // 1-based
	Limit  int64
}

// List returns events date-descending with the total matching count.
// Status filtering translates the derived status into a date window so
// the query never depends on a stored status field.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Event, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	filter := bson.M{}
	now := time.Now().UTC()
	switch normalize.QueryParam(f.Status) {
	case "", "All":
	case status.Upcoming:
		filter["date"] = bson.M{"$gt": now}
	case status.Ongoing:
		filter["date"] = bson.M{"$lte": now, "$gt": now.Add(-status.EventWindow)}
	case status.Completed:
		filter["date"] = bson.M{"$lte": now.Add(-status.EventWindow)}
	}
	if q := normalize.SearchPattern(f.Search); q != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": q, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": q, "$options": "i"}},
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip((f.Page - 1) * f.Limit).
		SetLimit(f.Limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListByClub returns the club's events date-descending.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"club": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListByIDs loads the events with the given IDs (order unspecified).
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListUpcomingForClubs returns upcoming events for any of the given
// clubs, soonest first.
func (s *Store) ListUpcomingForClubs(ctx context.Context, clubIDs []primitive.ObjectID, limit int64) ([]models.Event, error) {
	if len(clubIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{
		"club": bson.M{"$in": clubIDs},
		"date": bson.M{"$gt": time.Now().UTC()},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
