package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

type AttendanceRepo struct {
	db DB
}

// Insert persists a fully-populated attendance record. The partial unique
// index on (occurrence_id, attendee_id) WHERE status <> 'cancelled' turns
// a duplicate active record into repository.ErrConflict, and the one on
// (occurrence_id, waitlist_position) WHERE status = 'waitlist' does the
// same for a taken waitlist slot.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - a: record to insert; ID and timestamps must already be set.
//
// Returns:
//   - error: repository.ErrConflict on a duplicate active record or a
//     taken waitlist position.
func (r *AttendanceRepo) Insert(ctx context.Context, a *domain.Attendance) error {
	const op = "postgres.AttendanceRepo.Insert"

	_, err := r.db.Exec(ctx,
		`INSERT INTO attendance (id, occurrence_id, attendee_id, status, waitlist_position, note, created_at, updated_at)
	   	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.OccurrenceID, a.AttendeeID, a.Status, a.WaitlistPosition, a.Note, a.Created, a.Updated,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// GetActive retrieves the single non-cancelled record for an attendee on
// an occurrence.
//
// Returns:
//   - *domain.Attendance: the record when found.
//   - error: repository.ErrNotFound if the attendee has no active record.
func (r *AttendanceRepo) GetActive(ctx context.Context, occurrenceID, attendeeID int64) (*domain.Attendance, error) {
	const op = "postgres.AttendanceRepo.GetActive"

	a, err := scanAttendance(r.db.QueryRow(ctx,
		`SELECT id, occurrence_id, attendee_id, status, waitlist_position, note, created_at, updated_at
	   	 FROM attendance
	   	 WHERE occurrence_id = $1 AND attendee_id = $2 AND status <> 'cancelled'`,
		occurrenceID, attendeeID,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return a, nil
}

// CountByStatus counts records with the given status on an occurrence.
func (r *AttendanceRepo) CountByStatus(ctx context.Context, occurrenceID int64, status domain.AttendanceStatus) (int, error) {
	const op = "postgres.AttendanceRepo.CountByStatus"

	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM attendance
	   	 WHERE occurrence_id = $1 AND status = $2`,
		occurrenceID, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return n, nil
}

// MaxWaitlistPosition returns the highest position currently on the
// occurrence's waitlist, 0 when the waitlist is empty.
func (r *AttendanceRepo) MaxWaitlistPosition(ctx context.Context, occurrenceID int64) (int, error) {
	const op = "postgres.AttendanceRepo.MaxWaitlistPosition"

	var max int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(waitlist_position), 0) FROM attendance
	   	 WHERE occurrence_id = $1 AND status = 'waitlist'`,
		occurrenceID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return max, nil
}

// NextWaitlisted retrieves the longest-waiting record on the occurrence's
// waitlist, the one with the smallest position.
//
// Returns:
//   - *domain.Attendance: the record when the waitlist is non-empty.
//   - error: repository.ErrNotFound if the waitlist is empty.
func (r *AttendanceRepo) NextWaitlisted(ctx context.Context, occurrenceID int64) (*domain.Attendance, error) {
	const op = "postgres.AttendanceRepo.NextWaitlisted"

	a, err := scanAttendance(r.db.QueryRow(ctx,
		`SELECT id, occurrence_id, attendee_id, status, waitlist_position, note, created_at, updated_at
	   	 FROM attendance
	   	 WHERE occurrence_id = $1 AND status = 'waitlist'
	   	 ORDER BY waitlist_position
	   	 LIMIT 1`,
		occurrenceID,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return a, nil
}

// UpdateStatus transitions a record to the given status, clearing its
// waitlist position and stamping the update time.
//
// Returns:
//   - error: repository.ErrNotFound if the record is not found.
func (r *AttendanceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AttendanceStatus) error {
	const op = "postgres.AttendanceRepo.UpdateStatus"

	ct, err := r.db.Exec(ctx,
		`UPDATE attendance
	   	 SET status = $2, waitlist_position = NULL, updated_at = now()
	   	 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// ListByOccurrence lists every record for an occurrence ordered by
// status, waitlist position and creation time, so confirmed records come
// back in arrival order and waitlisted ones in promotion order.
func (r *AttendanceRepo) ListByOccurrence(ctx context.Context, occurrenceID int64) ([]domain.Attendance, error) {
	const op = "postgres.AttendanceRepo.ListByOccurrence"

	rows, err := r.db.Query(ctx,
		`SELECT id, occurrence_id, attendee_id, status, waitlist_position, note, created_at, updated_at
	   	 FROM attendance
	   	 WHERE occurrence_id = $1
	   	 ORDER BY status, COALESCE(waitlist_position, 0), created_at`,
		occurrenceID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		var status string

		if err := rows.Scan(
			&a.ID,
			&a.OccurrenceID,
			&a.AttendeeID,
			&status,
			&a.WaitlistPosition,
			&a.Note,
			&a.Created,
			&a.Updated,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		a.Status = domain.AttendanceStatus(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListByAttendee lists an attendee's records across occurrences, most
// recent occurrence first.
func (r *AttendanceRepo) ListByAttendee(ctx context.Context, attendeeID int64, limit, offset int) ([]domain.AttendanceDetail, error) {
	const op = "postgres.AttendanceRepo.ListByAttendee"

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.occurrence_id, a.attendee_id, a.status, a.waitlist_position, a.note, a.created_at, a.updated_at,
	        	o.id, o.event_id, e.title, o.starts_at, o.ends_at, o.capacity, o.status, o.rsvp_enabled, o.created_at, o.updated_at
	   	 FROM attendance a
	   	 JOIN occurrences o ON o.id = a.occurrence_id
	   	 JOIN events e ON e.id = o.event_id
	   	 WHERE a.attendee_id = $1
	   	 ORDER BY o.starts_at DESC
	   	 LIMIT $2 OFFSET $3`,
		attendeeID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.AttendanceDetail
	for rows.Next() {
		var d domain.AttendanceDetail
		var aStatus, oStatus string

		if err := rows.Scan(
			&d.Attendance.ID,
			&d.Attendance.OccurrenceID,
			&d.Attendance.AttendeeID,
			&aStatus,
			&d.Attendance.WaitlistPosition,
			&d.Attendance.Note,
			&d.Attendance.Created,
			&d.Attendance.Updated,
			&d.Occurrence.ID,
			&d.Occurrence.EventID,
			&d.Occurrence.EventTitle,
			&d.Occurrence.Starts,
			&d.Occurrence.Ends,
			&d.Occurrence.Capacity,
			&oStatus,
			&d.Occurrence.RSVPEnabled,
			&d.Occurrence.Created,
			&d.Occurrence.Updated,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		d.Attendance.Status = domain.AttendanceStatus(aStatus)
		d.Occurrence.Status = domain.OccurrenceStatus(oStatus)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (*domain.Attendance, error) {
	var a domain.Attendance
	var status string

	if err := row.Scan(
		&a.ID,
		&a.OccurrenceID,
		&a.AttendeeID,
		&status,
		&a.WaitlistPosition,
		&a.Note,
		&a.Created,
		&a.Updated,
	); err != nil {
		return nil, err
	}

	a.Status = domain.AttendanceStatus(status)

	return &a, nil
}
