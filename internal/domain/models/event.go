// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event represents a club event.
//
// NOTE:
//   - Status is not stored; it is derived from Date relative to the
//     current time (see system/status). A persisted status field
//     would drift out of date between writes.
//   - MaxAttendees == 0 means unlimited; otherwise it is a hard
//     ceiling on len(Attendees), enforced by the relations store.
type Event struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	Date         time.Time            `bson:"date" json:"date"`
	Location     string               `bson:"location" json:"location"`
	Club         primitive.ObjectID   `bson:"club" json:"club"`
	CreatedBy    primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Attendees    []primitive.ObjectID `bson:"attendees" json:"attendees"`
	MaxAttendees int                  `bson:"max_attendees,omitempty" json:"max_attendees,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
