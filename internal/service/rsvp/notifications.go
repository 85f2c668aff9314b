package rsvp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

// Notifications lists the attendee's in-app notices, newest first.
func (s *Service) Notifications(ctx context.Context, attendeeID int64, limit int) ([]domain.Notification, error) {
	const op = "service.rsvp.Notifications"

	out, err := s.store.Notifications().ListByAttendee(ctx, attendeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// MarkNotificationRead stamps one of the attendee's notices as read.
//
// Returns:
//   - error: rsvp.ErrNotificationNotFound if the notice does not exist,
//     belongs to someone else or is already read.
func (s *Service) MarkNotificationRead(ctx context.Context, attendeeID int64, id uuid.UUID) error {
	const op = "service.rsvp.MarkNotificationRead"

	if err := s.store.Notifications().MarkRead(ctx, id, attendeeID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrNotificationNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
