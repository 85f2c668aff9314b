package notify

import "time"

// QueuePromotions is the durable queue promotion notices travel on.
const QueuePromotions = "rsvp.promoted"

// PromotionNotice announces that a cancellation moved an attendee off the
// waitlist into a confirmed spot.
type PromotionNotice struct {
	AttendeeID   int64     `json:"attendee_id"`
	OccurrenceID int64     `json:"occurrence_id"`
	EventTitle   string    `json:"event_title"`
	StartsAt     time.Time `json:"starts_at"`
	PromotedAt   time.Time `json:"promoted_at"`
}
