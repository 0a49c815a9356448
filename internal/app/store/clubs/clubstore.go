// internal/app/store/clubs/clubstore.go
package clubstore

import (
	"context"
	"errors"
	"time"

	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/app/system/normalize"
	"github.com/campusclubs/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clubs")}
}

var errBadCategory = errors.New("category is not one of the allowed club categories")

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Club, error) {
	var c models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Club{}, err
	}
	return c, nil
}

// Create inserts a new club. The creating club head becomes both the
// head and the first member (the membership invariant starts true).
// The caller is responsible for mirroring the head's membership into
// the user document (relations store).
func (s *Store) Create(ctx context.Context, c models.Club) (models.Club, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	c.NameCI = text.Fold(c.Name)
	if !models.ValidCategory(c.Category) {
		return models.Club{}, errBadCategory
	}
	c.Members = []primitive.ObjectID{c.ClubHead}
	if c.Events == nil {
		c.Events = []primitive.ObjectID{}
	}
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, apperr.ErrDuplicateClub
		}
		return models.Club{}, err
	}
	return c, nil
}

// InfoUpdate holds the mutable club fields. ClubHead is immutable and
// membership arrays are owned by the relations store, so neither
// appears here.
type InfoUpdate struct {
	Name        string
	Description string
	Category    string
}

// UpdateInfo updates name/description/category. Empty name or category
// leaves the field alone; description can be cleared.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) error {
	set := bson.M{
		"description": upd.Description,
		"updated_at":  time.Now().UTC(),
	}
	if normalize.Name(upd.Name) != "" {
		set["name"] = normalize.Name(upd.Name)
		set["name_ci"] = text.Fold(upd.Name)
	}
	if upd.Category != "" {
		if !models.ValidCategory(upd.Category) {
			return errBadCategory
		}
		set["category"] = upd.Category
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return apperr.ErrDuplicateClub
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Deactivate flips is_active off. Deactivated clubs refuse joins and
// free their name for reuse; the record remains until a cascade delete.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountActiveByHead returns the number of active clubs headed by the user.
func (s *Store) CountActiveByHead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"club_head": userID, "is_active": true})
}

// ListFilter narrows List results. Only active clubs are listed.
type ListFilter struct {
	Category string // "" or "All" means any
	Search   string // matches name or description, case-insensitive
	Page     int64  // 1-based
	Limit    int64
}

// List returns active clubs newest-first with the total matching count.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Club, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	filter := bson.M{"is_active": true}
	if c := normalize.QueryParam(f.Category); c != "" && c != "All" {
		filter["category"] = c
	}
	if q := normalize.SearchPattern(f.Search); q != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": q, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": q, "$options": "i"}},
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((f.Page - 1) * f.Limit).
		SetLimit(f.Limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, 0, err
	}
	return clubs, total, nil
}

// ListByIDs loads the clubs with the given IDs (order unspecified).
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Club, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
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
