package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	redisrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/redis"
)

type Config struct {
	SummaryTTL      time.Duration
	AvailabilityTTL time.Duration
	DefaultPage     int
	MaxPage         int
}

// Service serves the public, read-only side: occurrence discovery,
// availability counts and the attendee's own lists. Hot reads go through
// the cache when one is configured; with a nil cache every read falls
// through to the store.
type Service struct {
	store repository.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store repository.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = 60 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 50
	}

	if cfg.MaxPage <= 0 {
		cfg.MaxPage = 200
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

func cached[T any](
	ctx context.Context,
	s *Service,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if s.cache == nil {
		return loader(ctx)
	}

	return redisrepo.GetOrSetJSON(ctx, s.cache, key, ttl, loader)
}

// GetOccurrence retrieves one occurrence, through the cache.
//
// Returns:
//   - *domain.Occurrence: the occurrence.
//   - error: query.ErrOccurrenceNotFound if it does not exist.
func (s *Service) GetOccurrence(ctx context.Context, id int64) (*domain.Occurrence, error) {
	const op = "service.query.GetOccurrence"

	occ, err := cached(
		ctx,
		s,
		redisrepo.KeyOccurrenceSummary(id),
		s.cfg.SummaryTTL,
		func(ctx context.Context) (domain.Occurrence, error) {
			o, err := s.store.Catalog().GetOccurrence(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Occurrence{}, ErrOccurrenceNotFound
				}

				return domain.Occurrence{}, err
			}

			return *o, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &occ, nil
}

// Availability retrieves the seat counts for an occurrence, through the
// cache. Counts may lag a recent RSVP by up to the availability TTL; the
// write path invalidates on commit to keep the window short.
//
// Returns:
//   - *domain.OccurrenceCounts: confirmed/waitlist/cancelled counts plus
//     capacity and spots left (nil when unlimited).
//   - error: query.ErrOccurrenceNotFound if the occurrence does not exist.
func (s *Service) Availability(ctx context.Context, occurrenceID int64) (*domain.OccurrenceCounts, error) {
	const op = "service.query.Availability"

	counts, err := cached(
		ctx,
		s,
		redisrepo.KeyOccurrenceCounts(occurrenceID),
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.OccurrenceCounts, error) {
			occ, err := s.store.Catalog().GetOccurrence(ctx, occurrenceID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.OccurrenceCounts{}, ErrOccurrenceNotFound
				}

				return domain.OccurrenceCounts{}, err
			}

			var out domain.OccurrenceCounts
			for status, dst := range map[domain.AttendanceStatus]*int{
				domain.AttendanceConfirmed: &out.Confirmed,
				domain.AttendanceWaitlist:  &out.Waitlist,
				domain.AttendanceCancelled: &out.Cancelled,
			} {
				n, err := s.store.Attendance().CountByStatus(ctx, occurrenceID, status)
				if err != nil {
					return domain.OccurrenceCounts{}, err
				}
				*dst = n
			}

			out.Capacity = occ.Capacity
			if occ.Capacity != nil {
				left := *occ.Capacity - out.Confirmed
				if left < 0 {
					left = 0
				}
				out.SpotsLeft = &left
			}

			return out, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &counts, nil
}

// GetEvent retrieves an event by its ID.
//
// Returns:
//   - *domain.Event: the event.
//   - error: query.ErrEventNotFound if the event does not exist.
func (s *Service) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	const op = "service.query.GetEvent"

	e, err := s.store.Catalog().GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// ListUpcoming lists occurrences starting at or after from, soonest
// first. A nil eventID lists across every event; a zero from means now.
func (s *Service) ListUpcoming(
	ctx context.Context,
	eventID *int64,
	from time.Time,
	limit, offset int,
) ([]domain.Occurrence, error) {
	const op = "service.query.ListUpcoming"

	if from.IsZero() {
		from = time.Now().UTC()
	}

	limit = s.clampPage(limit)

	out, err := s.store.Catalog().ListOccurrences(ctx, repository.OccurrenceFilter{
		EventID: eventID,
		From:    &from,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// MyRSVPs lists the attendee's own records across occurrences, most
// recent occurrence first.
func (s *Service) MyRSVPs(ctx context.Context, attendeeID int64, limit, offset int) ([]domain.AttendanceDetail, error) {
	const op = "service.query.MyRSVPs"

	limit = s.clampPage(limit)

	out, err := s.store.Attendance().ListByAttendee(ctx, attendeeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) clampPage(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		return s.cfg.MaxPage
	}

	return limit
}
