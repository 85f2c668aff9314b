package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

type NotificationRepo struct {
	db DB
}

func (r *NotificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	const op = "postgres.NotificationRepo.Insert"

	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, attendee_id, occurrence_id, kind, title, body, created_at)
	   	 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.AttendeeID, n.OccurrenceID, n.Kind, n.Title, n.Body, n.Created,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// ListByAttendee lists an attendee's notifications, newest first.
func (r *NotificationRepo) ListByAttendee(ctx context.Context, attendeeID int64, limit int) ([]domain.Notification, error) {
	const op = "postgres.NotificationRepo.ListByAttendee"

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, attendee_id, occurrence_id, kind, title, body, created_at, read_at
	   	 FROM notifications
	   	 WHERE attendee_id = $1
	   	 ORDER BY created_at DESC
	   	 LIMIT $2`,
		attendeeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification

		if err := rows.Scan(
			&n.ID,
			&n.AttendeeID,
			&n.OccurrenceID,
			&n.Kind,
			&n.Title,
			&n.Body,
			&n.Created,
			&n.ReadAt,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// MarkRead stamps a notification as read. The attendee ID guards against
// marking someone else's notification.
//
// Returns:
//   - error: repository.ErrNotFound if the notification is missing,
//     belongs to another attendee or is already read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, attendeeID int64, at time.Time) error {
	const op = "postgres.NotificationRepo.MarkRead"

	ct, err := r.db.Exec(ctx,
		`UPDATE notifications
	   	 SET read_at = $3
	   	 WHERE id = $1 AND attendee_id = $2 AND read_at IS NULL`,
		id, attendeeID, at,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
