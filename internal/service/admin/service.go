package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	redisrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/uow"
)

// Service covers the catalog side: venues, events, scheduling occurrences
// and the CSV tooling around them.
type Service struct {
	store  repository.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.OccurrencesPubSub
	uow    *uow.UoW
}

func New(store repository.Store, cache *redisrepo.Cache, pubsub *redisrepo.OccurrencesPubSub) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
	}
}

// CreateVenue creates a venue record and returns its ID.
//
// Returns:
//   - int64: the created venue ID.
//   - error: admin.ErrVenueConflict if a venue with the same name exists.
func (s *Service) CreateVenue(ctx context.Context, name, address string) (int64, error) {
	const op = "service.admin.CreateVenue"

	id, err := s.store.Catalog().CreateVenue(ctx, name, address)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrVenueConflict)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// CreateEvent creates an event under a venue and returns its ID.
//
// Returns:
//   - int64: the created event ID.
//   - error: admin.ErrVenueNotFound if the venue does not exist.
func (s *Service) CreateEvent(ctx context.Context, venueID int64, title, description string) (int64, error) {
	const op = "service.admin.CreateEvent"

	var id int64

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		if _, err := tx.Catalog().GetVenue(ctx, venueID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrVenueNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		var err error
		id, err = tx.Catalog().CreateEvent(ctx, venueID, title, description)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})

	return id, err
}

// ScheduleOccurrence adds one occurrence of an event. New occurrences
// start out active. A nil capacity means unlimited seats.
//
// Returns:
//   - *domain.Occurrence: the created occurrence.
//   - error: admin.ErrEventNotFound, admin.ErrInvalidSchedule or
//     admin.ErrInvalidCapacity.
func (s *Service) ScheduleOccurrence(
	ctx context.Context,
	eventID int64,
	starts, ends time.Time,
	capacity *int,
	rsvpEnabled bool,
) (*domain.Occurrence, error) {
	const op = "service.admin.ScheduleOccurrence"

	if !ends.After(starts) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSchedule)
	}

	if capacity != nil && *capacity < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCapacity)
	}

	var created *domain.Occurrence

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		if _, err := tx.Catalog().GetEvent(ctx, eventID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrEventNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		id, err := tx.Catalog().CreateOccurrence(ctx, &domain.Occurrence{
			EventID:     eventID,
			Starts:      starts,
			Ends:        ends,
			Capacity:    capacity,
			Status:      domain.OccurrenceActive,
			RSVPEnabled: rsvpEnabled,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		created, err = tx.Catalog().GetOccurrence(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// SetOccurrenceStatus moves an occurrence through its lifecycle. Anything
// but active stops new RSVPs; existing records are left untouched.
//
// Returns:
//   - error: admin.ErrOccurrenceNotFound or admin.ErrBadStatus.
func (s *Service) SetOccurrenceStatus(ctx context.Context, id int64, status domain.OccurrenceStatus) error {
	const op = "service.admin.SetOccurrenceStatus"

	switch status {
	case domain.OccurrenceActive, domain.OccurrenceCancelled, domain.OccurrenceCompleted:
	default:
		return fmt.Errorf("%s: %w", op, ErrBadStatus)
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		if err := tx.Catalog().SetOccurrenceStatus(ctx, id, status); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrOccurrenceNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateOccurrence(ctx, id)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishOccurrenceChanged(ctx, id)
			}
		})

		return nil
	})

	return err
}
