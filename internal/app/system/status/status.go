// Package status holds the club activity states and derives event
// status from the event date. Event status is never persisted; a
// stored status would drift as time passes, so it is computed at
// read time instead.
package status

import "time"

const (
	Active   = "active"
	Inactive = "inactive"
)

// Event statuses derived from the event date.
const (
	Upcoming  = "upcoming"
	Ongoing   = "ongoing"
	Completed = "completed"
)

// EventWindow is how long an event is considered ongoing after its
// start time.
const EventWindow = 2 * time.Hour

// OfEvent returns the derived status of an event that starts at date,
// as observed at now.
func OfEvent(date, now time.Time) string {
	switch {
	case now.Before(date):
		return Upcoming
	case now.Before(date.Add(EventWindow)):
		return Ongoing
	default:
		return Completed
	}
}

// IsValid reports whether s is a recognized club activity state.
func IsValid(s string) bool {
	return s == Active || s == Inactive
}
