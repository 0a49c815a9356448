// Package statsstore provides read-only aggregate queries for the
// dashboard. Counts are computed per request against live collections;
// under concurrent writes each value is consistent with some moment of
// the store, not necessarily the same moment across values.
package statsstore

import (
	"context"
	"time"

	"github.com/campusclubs/clubhub/internal/app/system/status"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	users  *mongo.Collection
	clubs  *mongo.Collection
	events *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:  db.Collection("users"),
		clubs:  db.Collection("clubs"),
		events: db.Collection("events"),
	}
}

// GlobalStats are the headline dashboard numbers.
type GlobalStats struct {
	TotalClubs   int64 `json:"total_clubs"`
	TotalEvents  int64 `json:"total_events"`
	TotalMembers int64 `json:"total_members"`
}

// Global counts active clubs, events that have not yet completed
// (upcoming or ongoing), and all registered users.
func (s *Store) Global(ctx context.Context) (GlobalStats, error) {
	var g GlobalStats
	var err error

	if g.TotalClubs, err = s.clubs.CountDocuments(ctx, bson.M{"is_active": true}); err != nil {
		return GlobalStats{}, err
	}
	notCompleted := bson.M{"date": bson.M{"$gt": time.Now().UTC().Add(-status.EventWindow)}}
	if g.TotalEvents, err = s.events.CountDocuments(ctx, notCompleted); err != nil {
		return GlobalStats{}, err
	}
	if g.TotalMembers, err = s.users.CountDocuments(ctx, bson.M{}); err != nil {
		return GlobalStats{}, err
	}
	return g, nil
}

// MyClubCount returns the number of clubs relevant to the user: active
// clubs headed for a club_head, club memberships for a student.
func (s *Store) MyClubCount(ctx context.Context, userID primitive.ObjectID, role string) (int64, error) {
	if role == "club_head" {
		return s.clubs.CountDocuments(ctx, bson.M{"club_head": userID, "is_active": true})
	}
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		return 0, err
	}
	return int64(len(u.Clubs)), nil
}

// RecentCounts summarizes recent and near-term activity.
type RecentCounts struct {
	ClubsLast30Days  int64 `json:"clubs_last_30_days"`
	EventsLast30Days int64 `json:"events_last_30_days"`
	EventsNext7Days  int64 `json:"events_next_7_days"`
}

// Recent counts clubs and events created in the last 30 days and
// events scheduled within the next 7 days.
func (s *Store) Recent(ctx context.Context) (RecentCounts, error) {
	now := time.Now().UTC()
	var r RecentCounts
	var err error

	since := now.AddDate(0, 0, -30)
	if r.ClubsLast30Days, err = s.clubs.CountDocuments(ctx, bson.M{
		"is_active":  true,
		"created_at": bson.M{"$gte": since},
	}); err != nil {
		return RecentCounts{}, err
	}
	if r.EventsLast30Days, err = s.events.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": since},
	}); err != nil {
		return RecentCounts{}, err
	}
	if r.EventsNext7Days, err = s.events.CountDocuments(ctx, bson.M{
		"date": bson.M{"$gt": now, "$lte": now.AddDate(0, 0, 7)},
	}); err != nil {
		return RecentCounts{}, err
	}
	return r, nil
}

// GrowthPoint is one month's worth of new members.
type GrowthPoint struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	NewMembers int64 `json:"new_members"`
}

// MemberGrowth buckets a club's members by the calendar month their
// account was created, oldest bucket first. Join timestamps are not
// stored per edge, so account creation is the growth proxy.
func (s *Store) MemberGrowth(ctx context.Context, clubID primitive.ObjectID, since time.Time) ([]GrowthPoint, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"clubs":      clubID,
			"created_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$created_at"},
				"month": bson.M{"$month": "$created_at"},
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
	}

	cur, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var raw []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &raw); err != nil {
		return nil, err
	}
	points := make([]GrowthPoint, len(raw))
	for i, r := range raw {
		points[i] = GrowthPoint{Year: r.ID.Year, Month: r.ID.Month, NewMembers: r.Count}
	}
	return points, nil
}

// EventSummary is one row of a club's attendance overview.
type EventSummary struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Title         string             `json:"title" bson:"title"`
	Date          time.Time          `json:"date" bson:"date"`
	AttendeeCount int                `json:"attendee_count" bson:"attendee_count"`
	Status        string             `json:"status" bson:"-"`
}

// EventAttendanceSummary returns the club's latest events with their
// attendee counts and derived status, date-descending.
func (s *Store) EventAttendanceSummary(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]EventSummary, error) {
	if limit < 1 {
		limit = 10
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"club": clubID}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"title":          1,
			"date":           1,
			"attendee_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$attendees", bson.A{}}}},
		}}},
	}

	cur, err := s.events.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []EventSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range rows {
		rows[i].Status = status.OfEvent(rows[i].Date, now)
	}
	return rows, nil
}

// CategoryCount is the number of active clubs in one category.
type CategoryCount struct {
	Category string `json:"category" bson:"_id"`
	Count    int64  `json:"count" bson:"count"`
}

// ClubsByCategory counts active clubs per category, largest first.
func (s *Store) ClubsByCategory(ctx context.Context) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cur, err := s.clubs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var counts []CategoryCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// RecentClubs returns the newest active clubs for the activity feed.
func (s *Store) RecentClubs(ctx context.Context, limit int64) ([]models.Club, error) {
	if limit < 1 {
		limit = 5
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.clubs.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// RecentEvents returns the most recently created events for the
// activity feed.
func (s *Store) RecentEvents(ctx context.Context, limit int64) ([]models.Event, error) {
	if limit < 1 {
		limit = 5
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.events.Find(ctx, bson.M{}, opts)
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
