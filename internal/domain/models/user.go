// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents students and club heads.
//
// NOTE:
//   - Clubs and EventsAttended are denormalized back-references that
//     mirror Club.Members and Event.Attendees. Only the relations
//     store writes these arrays; handlers never mutate them directly.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName       string               `bson:"full_name" json:"full_name"`
	FullNameCI     string               `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email          string               `bson:"email" json:"email"`
	PasswordHash   string               `bson:"password_hash" json:"-"`
	Role           string               `bson:"role" json:"role"` // student | club_head
	Clubs          []primitive.ObjectID `bson:"clubs" json:"clubs"`
	EventsAttended []primitive.ObjectID `bson:"events_attended" json:"events_attended"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
