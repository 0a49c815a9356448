package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role. The password
// hash is a fixed placeholder; auth tests that need a real credential
// write their own.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Email:          email,
		PasswordHash:   "$2a$10$test.placeholder.hash.not.a.real.credential00000000000",
		Role:           role,
		Clubs:          []primitive.ObjectID{},
		EventsAttended: []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStudent creates a test user with the student role.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "student")
}

// CreateClubHead creates a test user with the club_head role.
func (f *Fixtures) CreateClubHead(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "club_head")
}

// CreateClub creates an active test club headed by headID. The head is
// the first member and the club is mirrored into the head's clubs array
// so fixtures start with both sides of the edge consistent.
func (f *Fixtures) CreateClub(ctx context.Context, name string, headID primitive.ObjectID) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test club description",
		Category:    "Academic",
		ClubHead:    headID,
		Members:     []primitive.ObjectID{headID},
		Events:      []primitive.ObjectID{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": headID},
		bson.M{"$addToSet": bson.M{"clubs": club.ID}},
	); err != nil {
		f.t.Fatalf("failed to mirror club into head's clubs: %v", err)
	}
	return club
}

// CreateInactiveClub creates a deactivated club headed by headID.
func (f *Fixtures) CreateInactiveClub(ctx context.Context, name string, headID primitive.ObjectID) models.Club {
	f.t.Helper()

	club := f.CreateClub(ctx, name, headID)
	if _, err := f.db.Collection("clubs").UpdateOne(ctx,
		bson.M{"_id": club.ID},
		bson.M{"$set": bson.M{"is_active": false}},
	); err != nil {
		f.t.Fatalf("failed to deactivate test club: %v", err)
	}
	club.IsActive = false
	return club
}

// CreateEvent creates an event in the given club, attaches it to the
// club's events array, and returns it. date may be past or future.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, clubID, createdBy primitive.ObjectID, date time.Time) models.Event {
	f.t.Helper()
	return f.CreateEventWithCapacity(ctx, title, clubID, createdBy, date, 0)
}

// CreateEventWithCapacity creates an event with a max attendee ceiling
// (0 means unlimited).
func (f *Fixtures) CreateEventWithCapacity(ctx context.Context, title string, clubID, createdBy primitive.ObjectID, date time.Time, maxAttendees int) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	event := models.Event{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Description:  "Test event description",
		Date:         date,
		Location:     "Test Hall",
		Club:         clubID,
		CreatedBy:    createdBy,
		Attendees:    []primitive.ObjectID{},
		MaxAttendees: maxAttendees,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	if _, err := f.db.Collection("clubs").UpdateOne(ctx,
		bson.M{"_id": clubID},
		bson.M{"$addToSet": bson.M{"events": event.ID}},
	); err != nil {
		f.t.Fatalf("failed to attach test event to club: %v", err)
	}
	return event
}
