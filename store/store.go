// Package store defines the repository capabilities of the backend and their
// Redis implementation. Entities are JSON documents under their own keys;
// sorted sets keyed by unix-milli time provide the ordering and range queries
// that every time-windowed operation relies on.
package store

import (
	"context"
	"errors"
	"time"

	"portfolio-backend/model"
)

// ErrNotFound is returned when no entity exists for the given id
var ErrNotFound = errors.New("not found")

// Redis key layout
const (
	contactKeyPrefix       = "contact:"
	contactIndexKey        = "contacts:by_date"
	contactStatusKeyPrefix = "contacts:status:"
	visitKeyPrefix         = "visit:"
	visitIndexKey          = "visits:by_time"
	likesKey               = "likes:count"
)

// ContactStore persists contact-form submissions
type ContactStore interface {
	// Create persists a new message. Missing ID/Date/Status fields are
	// filled in (UUID, now, "unread").
	Create(ctx context.Context, msg *model.ContactMessage) error
	// List returns messages sorted by date descending, optionally filtered
	// by status, plus the total matching count and the unread count.
	List(ctx context.Context, status string, page, limit int) ([]model.ContactMessage, int64, int64, error)
	GetByID(ctx context.Context, id string) (model.ContactMessage, error)
	// UpdateStatus moves a message to the given status and returns the
	// updated message. The caller validates the status value.
	UpdateStatus(ctx context.Context, id, status string) (model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
	// Stats counts all messages, today's messages (server-local calendar
	// day), and messages per status.
	Stats(ctx context.Context) (model.ContactStats, error)
}

// VisitFilter narrows a raw visit listing
type VisitFilter struct {
	Page        int
	Limit       int
	Start       time.Time // zero means unbounded
	End         time.Time // zero means unbounded
	PageVisited string
	Country     string
}

// VisitStore persists visit events and answers the aggregation queries of the
// analytics service. All date bounds are inclusive; a zero time means
// unbounded on that side.
type VisitStore interface {
	Create(ctx context.Context, visit *model.Visit) error
	// List returns visits sorted by timestamp descending plus the total
	// count matching the filter.
	List(ctx context.Context, filter VisitFilter) ([]model.Visit, int64, error)
	TotalVisits(ctx context.Context, start, end time.Time) (int64, error)
	// UniqueVisitors counts distinct IP addresses in the window
	UniqueVisitors(ctx context.Context, start, end time.Time) (int64, error)
	UniqueSessions(ctx context.Context, start, end time.Time) (int64, error)
	// BounceSessions counts sessions with exactly one visit in the window
	BounceSessions(ctx context.Context, start, end time.Time) (int64, error)
	PopularPages(ctx context.Context, limit int, start, end time.Time) ([]model.PageStats, error)
	// VisitsByCountry ranks countries by visit count across all time,
	// excluding visits with no resolved country.
	VisitsByCountry(ctx context.Context, limit int) ([]model.CountryStats, error)
	VisitsByDevice(ctx context.Context) ([]model.DeviceStats, error)
	VisitsByBrowser(ctx context.Context) ([]model.BrowserStats, error)
	// DailyVisits returns the per-day series for the trailing number of
	// days, chronologically ascending. Days without visits are omitted.
	DailyVisits(ctx context.Context, days int) ([]model.DailyStats, error)
	// ActiveVisitors groups visits since the given time by session, sorted
	// by last activity descending.
	ActiveVisitors(ctx context.Context, since time.Time) ([]model.ActiveVisitor, error)
	// DeleteOlderThan removes all visits strictly before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// DistinctSessionCount counts distinct session ids across all time
	DistinctSessionCount(ctx context.Context) (int64, error)
}

// LikeStore tracks the global like counter. The counter is a keyed singleton:
// absent means zero, and Increment is a single atomic increment-and-return so
// concurrent first increments cannot create divergent counters.
type LikeStore interface {
	Get(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
}

func contactKey(id string) string { return contactKeyPrefix + id }

func visitKey(id string) string { return visitKeyPrefix + id }

func statusKey(status string) string { return contactStatusKeyPrefix + status }
