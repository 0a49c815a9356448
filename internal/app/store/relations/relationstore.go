// Package relationstore is the single writer of the denormalized
// back-reference arrays (user.clubs, user.events_attended, club.members,
// club.events, event.attendees).
//
// Every mutation follows the same shape: a conditional UpdateOne whose
// filter carries the preconditions (existence, activity, capacity,
// temporal rule, duplicate guard) so the membership test and the write
// are one atomic step on the primary document. The mirror write on the
// other side is unconditional ($addToSet / $pull are idempotent). When
// the primary update matches nothing we re-read the document once to
// diagnose which precondition failed and return the matching sentinel.
package relationstore

import (
	"context"
	"errors"
	"time"

	"github.com/campusclubs/clubhub/internal/app/system/apperr"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	users  *mongo.Collection
	clubs  *mongo.Collection
	events *mongo.Collection
	log    *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		users:  db.Collection("users"),
		clubs:  db.Collection("clubs"),
		events: db.Collection("events"),
		log:    log,
	}
}

func (s *Store) userExists(ctx context.Context, userID primitive.ObjectID) error {
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return apperr.ErrUserNotFound
	}
	if err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

// AddMembership adds userID to clubID's members and mirrors the club
// into the user's clubs array, returning the member count after the
// join. The club-side update is the linearization point: its filter
// requires the club to exist, be active, and not already contain the
// user, so two concurrent joins cannot both succeed and an inactive
// club cannot gain members.
func (s *Store) AddMembership(ctx context.Context, clubID, userID primitive.ObjectID) (int, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return 0, err
	}

	var club models.Club
	err := s.clubs.FindOneAndUpdate(ctx,
		bson.M{
			"_id":       clubID,
			"is_active": true,
			"members":   bson.M{"$ne": userID},
		},
		bson.M{
			"$addToSet": bson.M{"members": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return 0, s.diagnoseJoin(ctx, clubID, userID)
	}
	if err != nil {
		return 0, apperr.Unavailable(err)
	}

	if err := s.mirrorUser(ctx, clubID, userID, "clubs", true); err != nil {
		// The user vanished between the existence check and the mirror.
		// Undo the club side so neither array holds a half-edge.
		s.rollbackClubMember(ctx, clubID, userID)
		return 0, err
	}
	return len(club.Members), nil
}

// RemoveMembership removes userID from clubID's members and from the
// user's clubs array. The filter excludes the club head, so the head's
// membership can never be removed while the club record exists.
func (s *Store) RemoveMembership(ctx context.Context, clubID, userID primitive.ObjectID) error {
	res, err := s.clubs.UpdateOne(ctx,
		bson.M{
			"_id":       clubID,
			"club_head": bson.M{"$ne": userID},
			"members":   userID,
		},
		bson.M{
			"$pull": bson.M{"members": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		return s.diagnoseLeave(ctx, clubID, userID)
	}
	return s.mirrorUser(ctx, clubID, userID, "clubs", false)
}

// AddAttendance adds userID to the event's attendees and mirrors the
// event into the user's events_attended array. The event-side filter
// carries every RSVP precondition: the event exists, has not started,
// the user is not already attending, and the capacity ceiling (when
// set) has headroom. $size runs against the pre-update array so the
// comparison is strict less-than.
func (s *Store) AddAttendance(ctx context.Context, eventID, userID primitive.ObjectID) error {
	if err := s.userExists(ctx, userID); err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := s.events.UpdateOne(ctx,
		bson.M{
			"_id":       eventID,
			"date":      bson.M{"$gt": now},
			"attendees": bson.M{"$ne": userID},
			"$expr": bson.M{"$or": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$max_attendees", 0}}, 0}},
				bson.M{"$lt": bson.A{bson.M{"$size": "$attendees"}, "$max_attendees"}},
			}},
		},
		bson.M{
			"$addToSet": bson.M{"attendees": userID},
			"$set":      bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		return s.diagnoseRSVP(ctx, eventID, userID, now)
	}

	if err := s.mirrorUser(ctx, eventID, userID, "events_attended", true); err != nil {
		s.rollbackEventAttendee(ctx, eventID, userID)
		return err
	}
	return nil
}

// RemoveAttendance removes userID from the event's attendees and from
// the user's events_attended array. Cancellation is allowed regardless
// of the event date.
func (s *Store) RemoveAttendance(ctx context.Context, eventID, userID primitive.ObjectID) error {
	res, err := s.events.UpdateOne(ctx,
		bson.M{"_id": eventID, "attendees": userID},
		bson.M{
			"$pull": bson.M{"attendees": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		err := s.events.FindOne(ctx, bson.M{"_id": eventID}).Err()
		if err == mongo.ErrNoDocuments {
			return apperr.ErrEventNotFound
		}
		if err != nil {
			return apperr.Unavailable(err)
		}
		return apperr.ErrNotAttending
	}
	return s.mirrorUser(ctx, eventID, userID, "events_attended", false)
}

// MirrorFoundingMembership writes the user-side half of the founding
// head membership. Club creation already lists the head as the first
// member; this completes the edge. Idempotent.
func (s *Store) MirrorFoundingMembership(ctx context.Context, clubID, userID primitive.ObjectID) error {
	return s.mirrorUser(ctx, clubID, userID, "clubs", true)
}

// AttachEvent appends a freshly created event to its club's events
// array. The club must still be active; a deactivated club refuses new
// events the same way it refuses new members.
func (s *Store) AttachEvent(ctx context.Context, clubID, eventID primitive.ObjectID) error {
	res, err := s.clubs.UpdateOne(ctx,
		bson.M{"_id": clubID, "is_active": true},
		bson.M{
			"$addToSet": bson.M{"events": eventID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		err := s.clubs.FindOne(ctx, bson.M{"_id": clubID}).Err()
		if err == mongo.ErrNoDocuments {
			return apperr.ErrClubNotFound
		}
		if err != nil {
			return apperr.Unavailable(err)
		}
		return apperr.ErrClubInactive
	}
	return nil
}

// CascadeDeleteEvent removes an event and every reference to it:
// attendees' events_attended arrays, the club's events array, and
// finally the event record itself. The record goes last so a failed or
// interrupted run leaves the event findable and the cascade re-runnable;
// each step is an idempotent $pull or delete.
func (s *Store) CascadeDeleteEvent(ctx context.Context, eventID primitive.ObjectID) error {
	if _, err := s.users.UpdateMany(ctx,
		bson.M{"events_attended": eventID},
		bson.M{"$pull": bson.M{"events_attended": eventID}},
	); err != nil {
		return apperr.Unavailable(err)
	}
	if _, err := s.clubs.UpdateMany(ctx,
		bson.M{"events": eventID},
		bson.M{"$pull": bson.M{"events": eventID}},
	); err != nil {
		return apperr.Unavailable(err)
	}
	res, err := s.events.DeleteOne(ctx, bson.M{"_id": eventID})
	if err != nil {
		return apperr.Unavailable(err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrEventNotFound
	}
	return nil
}

// CascadeDeleteClub removes a club, all its events, and every
// back-reference to either. Order matters only in that the club record
// is deleted last; the event cascades and member pulls are idempotent,
// so a re-run after a partial failure converges on the same end state.
func (s *Store) CascadeDeleteClub(ctx context.Context, clubID primitive.ObjectID) error {
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return err
	}

	for _, eventID := range club.Events {
		if err := s.CascadeDeleteEvent(ctx, eventID); err != nil {
			// A missing event just means a previous run got that far.
			if !errors.Is(err, apperr.ErrEventNotFound) {
				return err
			}
		}
	}

	// Events created under the club but never attached (crash between
	// insert and attach) still reference it.
	cur, err := s.events.Find(ctx, bson.M{"club": clubID})
	if err != nil {
		return apperr.Unavailable(err)
	}
	var strays []models.Event
	if err := cur.All(ctx, &strays); err != nil {
		return apperr.Unavailable(err)
	}
	for _, e := range strays {
		if err := s.CascadeDeleteEvent(ctx, e.ID); err != nil && !errors.Is(err, apperr.ErrEventNotFound) {
			return err
		}
	}

	if _, err := s.users.UpdateMany(ctx,
		bson.M{"clubs": clubID},
		bson.M{"$pull": bson.M{"clubs": clubID}},
	); err != nil {
		return apperr.Unavailable(err)
	}

	if _, err := s.clubs.DeleteOne(ctx, bson.M{"_id": clubID}); err != nil {
		return apperr.Unavailable(err)
	}
	s.log.Info("club cascade delete complete",
		zap.String("club_id", clubID.Hex()),
		zap.Int("events", len(club.Events)))
	return nil
}

// DetachUser removes a user from every members and attendees array they
// appear in. Run before deleting a user record so no club or event is
// left pointing at a ghost. Idempotent.
func (s *Store) DetachUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.clubs.UpdateMany(ctx,
		bson.M{"members": userID},
		bson.M{"$pull": bson.M{"members": userID}},
	); err != nil {
		return apperr.Unavailable(err)
	}
	if _, err := s.events.UpdateMany(ctx,
		bson.M{"attendees": userID},
		bson.M{"$pull": bson.M{"attendees": userID}},
	); err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

func (s *Store) loadClub(ctx context.Context, clubID primitive.ObjectID) (models.Club, error) {
	var club models.Club
	err := s.clubs.FindOne(ctx, bson.M{"_id": clubID}).Decode(&club)
	if err == mongo.ErrNoDocuments {
		return models.Club{}, apperr.ErrClubNotFound
	}
	if err != nil {
		return models.Club{}, apperr.Unavailable(err)
	}
	return club, nil
}

// mirrorUser applies the user-side half of an edge. add selects
// $addToSet vs $pull; field is "clubs" or "events_attended".
func (s *Store) mirrorUser(ctx context.Context, refID, userID primitive.ObjectID, field string, add bool) error {
	op := "$pull"
	if add {
		op = "$addToSet"
	}
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			op:     bson.M{field: refID},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (s *Store) rollbackClubMember(ctx context.Context, clubID, userID primitive.ObjectID) {
	if _, err := s.clubs.UpdateOne(ctx,
		bson.M{"_id": clubID},
		bson.M{"$pull": bson.M{"members": userID}},
	); err != nil {
		s.log.Warn("membership rollback failed; club holds a dangling member ref",
			zap.String("club_id", clubID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
	}
}

func (s *Store) rollbackEventAttendee(ctx context.Context, eventID, userID primitive.ObjectID) {
	if _, err := s.events.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$pull": bson.M{"attendees": userID}},
	); err != nil {
		s.log.Warn("attendance rollback failed; event holds a dangling attendee ref",
			zap.String("event_id", eventID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
	}
}

// diagnoseJoin re-reads the club after a join matched nothing and
// returns the most specific failure. Checks run in precedence order:
// existence, activity, duplicate membership.
func (s *Store) diagnoseJoin(ctx context.Context, clubID, userID primitive.ObjectID) error {
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return err
	}
	if !club.IsActive {
		return apperr.ErrClubInactive
	}
	for _, m := range club.Members {
		if m == userID {
			return apperr.ErrAlreadyMember
		}
	}
	// The state changed between the update and this read; the caller
	// retries and hits a stable answer.
	return apperr.Unavailable(nil)
}

func (s *Store) diagnoseLeave(ctx context.Context, clubID, userID primitive.ObjectID) error {
	club, err := s.loadClub(ctx, clubID)
	if err != nil {
		return err
	}
	if club.ClubHead == userID {
		return apperr.ErrHeadCannotLeave
	}
	for _, m := range club.Members {
		if m == userID {
			return apperr.Unavailable(nil)
		}
	}
	return apperr.ErrNotMember
}

// diagnoseRSVP re-reads the event after an RSVP matched nothing.
// Precedence: existence, temporal rule, duplicate, capacity.
func (s *Store) diagnoseRSVP(ctx context.Context, eventID, userID primitive.ObjectID, now time.Time) error {
	var event models.Event
	err := s.events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return apperr.ErrEventNotFound
	}
	if err != nil {
		return apperr.Unavailable(err)
	}
	if !event.Date.After(now) {
		return apperr.ErrEventPast
	}
	for _, a := range event.Attendees {
		if a == userID {
			return apperr.ErrAlreadyAttending
		}
	}
	if event.MaxAttendees > 0 && len(event.Attendees) >= event.MaxAttendees {
		return apperr.ErrCapacityExceeded
	}
	return apperr.Unavailable(nil)
}
