package postgres

import (
	"context"
	"fmt"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

type CatalogRepo struct {
	db DB
}

// CreateVenue inserts a venue and returns its generated ID.
func (r *CatalogRepo) CreateVenue(ctx context.Context, name, address string) (int64, error) {
	const op = "postgres.CatalogRepo.CreateVenue"

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO venues (name, address)
	   	 VALUES ($1, $2)
	   	 RETURNING id`,
		name, address,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// GetVenue retrieves a venue by its ID.
//
// Returns:
//   - *domain.Venue: the venue when found.
//   - error: repository.ErrNotFound if the venue is not found.
func (r *CatalogRepo) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	const op = "postgres.CatalogRepo.GetVenue"

	var v domain.Venue
	err := r.db.QueryRow(ctx,
		`SELECT id, name, address, created_at
	   	 FROM venues WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.Address, &v.Created)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &v, nil
}

// CreateEvent inserts an event and returns its generated ID.
//
// Returns:
//   - int64: the event ID when successful.
//   - error: repository.ErrNotFound if the venue does not exist.
func (r *CatalogRepo) CreateEvent(ctx context.Context, venueID int64, title, description string) (int64, error) {
	const op = "postgres.CatalogRepo.CreateEvent"

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO events (venue_id, title, description)
	   	 VALUES ($1, $2, $3)
	   	 RETURNING id`,
		venueID, title, description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// GetEvent retrieves an event by its ID.
//
// Returns:
//   - *domain.Event: the event when found.
//   - error: repository.ErrNotFound if the event is not found.
func (r *CatalogRepo) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	const op = "postgres.CatalogRepo.GetEvent"

	var e domain.Event
	err := r.db.QueryRow(ctx,
		`SELECT id, venue_id, title, description, created_at
	   	 FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.VenueID, &e.Title, &e.Description, &e.Created)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &e, nil
}

// CreateOccurrence inserts an occurrence of an event and returns its
// generated ID. Timestamps are assigned by the database.
func (r *CatalogRepo) CreateOccurrence(ctx context.Context, o *domain.Occurrence) (int64, error) {
	const op = "postgres.CatalogRepo.CreateOccurrence"

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO occurrences (event_id, starts_at, ends_at, capacity, status, rsvp_enabled)
	   	 VALUES ($1, $2, $3, $4, $5, $6)
	   	 RETURNING id`,
		o.EventID, o.Starts, o.Ends, o.Capacity, o.Status, o.RSVPEnabled,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// GetOccurrence retrieves an occurrence by its ID, including the title of
// its parent event.
//
// Returns:
//   - *domain.Occurrence: the occurrence when found.
//   - error: repository.ErrNotFound if the occurrence is not found.
func (r *CatalogRepo) GetOccurrence(ctx context.Context, id int64) (*domain.Occurrence, error) {
	const op = "postgres.CatalogRepo.GetOccurrence"

	var o domain.Occurrence
	var status string

	err := r.db.QueryRow(ctx,
		`SELECT o.id, o.event_id, e.title, o.starts_at, o.ends_at,
	        	o.capacity, o.status, o.rsvp_enabled, o.created_at, o.updated_at
	   	 FROM occurrences o
	   	 JOIN events e ON e.id = o.event_id
	   	 WHERE o.id = $1`,
		id,
	).Scan(
		&o.ID,
		&o.EventID,
		&o.EventTitle,
		&o.Starts,
		&o.Ends,
		&o.Capacity,
		&status,
		&o.RSVPEnabled,
		&o.Created,
		&o.Updated,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	o.Status = domain.OccurrenceStatus(status)

	return &o, nil
}

// ListOccurrences lists occurrences matching the filter, soonest first.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - f: filter; nil fields are ignored, Limit <= 0 falls back to 50.
//
// Returns:
//   - []domain.Occurrence: matching occurrences.
func (r *CatalogRepo) ListOccurrences(ctx context.Context, f repository.OccurrenceFilter) ([]domain.Occurrence, error) {
	const op = "postgres.CatalogRepo.ListOccurrences"

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT o.id, o.event_id, e.title, o.starts_at, o.ends_at,
	        	o.capacity, o.status, o.rsvp_enabled, o.created_at, o.updated_at
	   	 FROM occurrences o
	   	 JOIN events e ON e.id = o.event_id
	   	 WHERE ($1::bigint IS NULL OR o.event_id = $1)
	     	AND ($2::timestamptz IS NULL OR o.starts_at >= $2)
	   	 ORDER BY o.starts_at
	   	 LIMIT $3 OFFSET $4`,
		f.EventID, f.From, limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Occurrence
	for rows.Next() {
		var o domain.Occurrence
		var status string

		if err := rows.Scan(
			&o.ID,
			&o.EventID,
			&o.EventTitle,
			&o.Starts,
			&o.Ends,
			&o.Capacity,
			&status,
			&o.RSVPEnabled,
			&o.Created,
			&o.Updated,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		o.Status = domain.OccurrenceStatus(status)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// SetOccurrenceStatus updates the lifecycle status of an occurrence.
//
// Returns:
//   - error: repository.ErrNotFound if the occurrence is not found.
func (r *CatalogRepo) SetOccurrenceStatus(ctx context.Context, id int64, status domain.OccurrenceStatus) error {
	const op = "postgres.CatalogRepo.SetOccurrenceStatus"

	ct, err := r.db.Exec(ctx,
		`UPDATE occurrences
	   	 SET status = $2, updated_at = now()
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
