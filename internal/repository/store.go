package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
)

// Store is the durable backend behind the services. RunTx must be atomic
// and isolated: the postgres store runs fn inside a serializable
// transaction and retries serialization failures, the memory store
// serializes callers through a single writer lock with snapshot rollback.
// Repositories obtained from the Store handed to fn operate within that
// transaction; repositories obtained outside run against the plain pool.
type Store interface {
	Catalog() CatalogRepo
	Attendance() AttendanceRepo
	Invites() InviteRepo
	Notifications() NotificationRepo

	RunTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// OccurrenceFilter narrows ListOccurrences. Zero-value fields are ignored;
// Limit <= 0 falls back to the implementation default.
type OccurrenceFilter struct {
	EventID *int64
	From    *time.Time
	Limit   int
	Offset  int
}

type CatalogRepo interface {
	CreateVenue(ctx context.Context, name, address string) (int64, error)
	GetVenue(ctx context.Context, id int64) (*domain.Venue, error)

	CreateEvent(ctx context.Context, venueID int64, title, description string) (int64, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)

	CreateOccurrence(ctx context.Context, o *domain.Occurrence) (int64, error)
	GetOccurrence(ctx context.Context, id int64) (*domain.Occurrence, error)
	ListOccurrences(ctx context.Context, f OccurrenceFilter) ([]domain.Occurrence, error)
	SetOccurrenceStatus(ctx context.Context, id int64, status domain.OccurrenceStatus) error
}

type AttendanceRepo interface {
	// Insert persists a fully-populated record (id, timestamps included).
	// A second active record for the same (occurrence, attendee) pair is
	// rejected with repository.ErrConflict.
	Insert(ctx context.Context, a *domain.Attendance) error

	// GetActive returns the single non-cancelled record for the pair, or
	// repository.ErrNotFound.
	GetActive(ctx context.Context, occurrenceID, attendeeID int64) (*domain.Attendance, error)

	CountByStatus(ctx context.Context, occurrenceID int64, status domain.AttendanceStatus) (int, error)

	// MaxWaitlistPosition returns the highest position currently on the
	// occurrence's waitlist, 0 when the waitlist is empty.
	MaxWaitlistPosition(ctx context.Context, occurrenceID int64) (int, error)

	// NextWaitlisted returns the waitlisted record with the smallest
	// position (the longest-waiting), or repository.ErrNotFound.
	NextWaitlisted(ctx context.Context, occurrenceID int64) (*domain.Attendance, error)

	// UpdateStatus transitions a record, clears its waitlist position and
	// stamps updated-time.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AttendanceStatus) error

	// ListByOccurrence returns every record for the occurrence ordered by
	// (status, waitlist_position, created-time).
	ListByOccurrence(ctx context.Context, occurrenceID int64) ([]domain.Attendance, error)

	ListByAttendee(ctx context.Context, attendeeID int64, limit, offset int) ([]domain.AttendanceDetail, error)
}

type InviteRepo interface {
	Create(ctx context.Context, inv *domain.HostInvite) error
	Get(ctx context.Context, id uuid.UUID) (*domain.HostInvite, error)
	GetByTokenHash(ctx context.Context, hash string) (*domain.HostInvite, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.HostInvite, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedBy int64, at time.Time) error
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error

	GrantHost(ctx context.Context, eventID, userID int64) error
	IsHost(ctx context.Context, eventID, userID int64) (bool, error)
}

type NotificationRepo interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByAttendee(ctx context.Context, attendeeID int64, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, attendeeID int64, at time.Time) error
}
