// internal/domain/models/club.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories is the fixed set of valid club categories.
var Categories = []string{
	"Academic",
	"Sports",
	"Cultural",
	"Technical",
	"Social Service",
	"Arts",
	"Other",
}

// ValidCategory reports whether c is one of the allowed club categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Club represents a student club.
//
// NOTE:
//   - ClubHead is immutable after creation and is always present in
//     Members; a leave operation can never remove the head.
//   - Members and Events are denormalized back-references kept in
//     sync by the relations store.
//   - Name uniqueness among active clubs is enforced case-insensitively
//     through a partial unique index on NameCI.
type Club struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"-"`
	Description string               `bson:"description" json:"description"`
	Category    string               `bson:"category" json:"category"`
	ClubHead    primitive.ObjectID   `bson:"club_head" json:"club_head"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	Events      []primitive.ObjectID `bson:"events" json:"events"`
	IsActive    bool                 `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
