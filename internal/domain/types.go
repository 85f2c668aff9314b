package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the lifecycle state of an attendance record.
// Cancelled is terminal: a cancelled record is never transitioned back,
// a re-RSVP creates a new record.
type AttendanceStatus string

const (
	AttendanceConfirmed AttendanceStatus = "confirmed"
	AttendanceWaitlist  AttendanceStatus = "waitlist"
	AttendanceCancelled AttendanceStatus = "cancelled"
)

type OccurrenceStatus string

const (
	OccurrenceActive    OccurrenceStatus = "active"
	OccurrenceCancelled OccurrenceStatus = "cancelled"
	OccurrenceCompleted OccurrenceStatus = "completed"
)

type Venue struct {
	ID      int64
	Name    string
	Address string
	Created time.Time
}

type Event struct {
	ID          int64
	VenueID     int64
	Title       string
	Description string
	Created     time.Time
}

// Occurrence is a single scheduled date/time instance of an event that
// attendees RSVP to. Capacity nil means unlimited.
type Occurrence struct {
	ID          int64
	EventID     int64
	EventTitle  string // joined display title, used in rosters and notices
	Starts      time.Time
	Ends        time.Time
	Capacity    *int
	Status      OccurrenceStatus
	RSVPEnabled bool
	Created     time.Time
	Updated     time.Time
}

// Attendance is the per-attendee record tracking RSVP state for one
// occurrence. WaitlistPosition is set only while Status is waitlist;
// positions are distinct per occurrence and strictly increasing in
// arrival order (gaps after cancellations are tolerated).
type Attendance struct {
	ID               uuid.UUID
	OccurrenceID     int64
	AttendeeID       int64
	Status           AttendanceStatus
	WaitlistPosition *int
	Note             string
	Created          time.Time
	Updated          time.Time
}

// OccurrenceCounts summarizes attendance for one occurrence. SpotsLeft is
// nil when capacity is unlimited, otherwise capacity minus confirmed,
// clamped at zero.
type OccurrenceCounts struct {
	Confirmed int
	Waitlist  int
	Cancelled int
	Capacity  *int
	SpotsLeft *int
}

// AttendanceRoster is the host-facing partitioned view of an occurrence's
// records: waitlist ordered ascending by position, cancelled kept for
// reporting.
type AttendanceRoster struct {
	Occurrence Occurrence
	Confirmed  []Attendance
	Waitlist   []Attendance
	Cancelled  []Attendance
	Counts     OccurrenceCounts
}

// AttendanceDetail pairs an attendance record with its occurrence, for
// per-attendee listings.
type AttendanceDetail struct {
	Attendance Attendance
	Occurrence Occurrence
}

// HostInvite is a claimable token granting the host role on an event.
// Only the SHA-256 hash of the token is stored; the raw token is shown
// once at creation. Email, when set, restricts who may claim.
type HostInvite struct {
	ID        uuid.UUID
	EventID   int64
	TokenHash string
	Email     *string
	ExpiresAt *time.Time
	CreatedBy int64
	Created   time.Time
	RevokedAt *time.Time
	UsedAt    *time.Time
	UsedBy    *int64
}

const NotificationKindPromoted = "rsvp.promoted"

// Notification is an in-app notice for an attendee, written by the
// notification consumer.
type Notification struct {
	ID           uuid.UUID
	AttendeeID   int64
	OccurrenceID int64
	Kind         string
	Title        string
	Body         string
	Created      time.Time
	ReadAt       *time.Time
}
