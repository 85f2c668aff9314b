package httpgin

import (
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
)

type RSVPRequest struct {
	Note string `json:"note"`
}

type RSVPResponse struct {
	ID               string `json:"id"`
	OccurrenceID     int64  `json:"occurrence_id"`
	Status           string `json:"status"`
	WaitlistPosition *int   `json:"waitlist_position,omitempty"`
	Note             string `json:"note,omitempty"`
}

type ClaimInviteRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email"`
}

type ClaimInviteResponse struct {
	EventID int64 `json:"event_id"`
}

type CreateVenueRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type CreateVenueResponse struct {
	VenueID int64 `json:"venue_id"`
}

type CreateEventRequest struct {
	VenueID     int64  `json:"venue_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type CreateEventResponse struct {
	EventID int64 `json:"event_id"`
}

type ScheduleOccurrenceRequest struct {
	StartsAt    string `json:"starts_at" binding:"required"`
	EndsAt      string `json:"ends_at" binding:"required"`
	Capacity    *int   `json:"capacity"`
	RSVPEnabled *bool  `json:"rsvp_enabled"`
}

type ScheduleOccurrenceResponse struct {
	OccurrenceID int64 `json:"occurrence_id"`
}

type SetOccurrenceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateInviteRequest struct {
	Email    *string `json:"email"`
	TTLHours int     `json:"ttl_hours"`
}

type CreateInviteResponse struct {
	InviteID  string     `json:"invite_id"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// InviteResponse is the listing view of an invite. The token hash never
// leaves the store.
type InviteResponse struct {
	ID        string     `json:"id"`
	EventID   int64      `json:"event_id"`
	Email     *string    `json:"email,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedBy int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	UsedBy    *int64     `json:"used_by,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func rsvpView(a *domain.Attendance) RSVPResponse {
	return RSVPResponse{
		ID:               a.ID.String(),
		OccurrenceID:     a.OccurrenceID,
		Status:           string(a.Status),
		WaitlistPosition: a.WaitlistPosition,
		Note:             a.Note,
	}
}

func inviteView(inv domain.HostInvite) InviteResponse {
	return InviteResponse{
		ID:        inv.ID.String(),
		EventID:   inv.EventID,
		Email:     inv.Email,
		ExpiresAt: inv.ExpiresAt,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.Created,
		RevokedAt: inv.RevokedAt,
		UsedAt:    inv.UsedAt,
		UsedBy:    inv.UsedBy,
	}
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
