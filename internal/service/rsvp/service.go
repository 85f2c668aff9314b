package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	redisrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/uow"
)

// Notifier announces a promotion to the attendee who just came off the
// waitlist. Delivery is best-effort: the service logs failures and never
// lets them affect the operation that triggered the notice.
type Notifier interface {
	NotifyPromoted(ctx context.Context, attendeeID int64, occ domain.Occurrence) error
}

type Config struct {
	MaxNoteLen int
}

// Service decides whether an attendance request is seated or waitlisted,
// and on cancellation of a confirmed seat promotes the longest-waiting
// attendee. Every mutation runs inside the store's transaction so the
// count-then-insert and cancel-then-promote sequences are isolated.
type Service struct {
	store    repository.Store
	cache    *redisrepo.Cache
	pubsub   *redisrepo.OccurrencesPubSub
	limiter  *redisrepo.SlidingWindowLimiter
	notifier Notifier
	logger   *slog.Logger
	uow      *uow.UoW
	cfg      Config
}

// New builds the service. cache, pubsub, limiter and notifier may be nil;
// the corresponding side effects are skipped.
func New(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.OccurrencesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	notifier Notifier,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.MaxNoteLen <= 0 {
		cfg.MaxNoteLen = 500
	}

	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
		uow:      uow.NewUoW(store),
		cfg:      cfg,
	}
}

// RequestAttendance registers an attendee for an occurrence. The record
// comes back confirmed while confirmed seats remain (capacity nil means
// unlimited), otherwise waitlisted at the next position after the current
// maximum.
//
// Parameters:
//   - ctx: request-scoped context.
//   - occurrenceID, attendeeID: who wants to attend what.
//   - note: optional free-text note for the host.
//   - rlKey: rate-limit key, usually the caller's identity; empty skips
//     the limiter.
//
// Returns:
//   - *domain.Attendance: the created record.
//   - error: rsvp.ErrOccurrenceNotFound, rsvp.ErrRSVPNotAllowed,
//     rsvp.ErrRSVPClosed, rsvp.ErrAlreadyRegistered, rsvp.ErrNoteTooLong
//     or rsvp.RateLimitedError, checked in that order.
func (s *Service) RequestAttendance(
	ctx context.Context,
	occurrenceID, attendeeID int64,
	note string,
	rlKey string,
) (*domain.Attendance, error) {
	const op = "service.rsvp.RequestAttendance"

	if len(note) > s.cfg.MaxNoteLen {
		return nil, fmt.Errorf("%s:%w", op, ErrNoteTooLong)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w", op, RateLimitedError{RetryAfter: retry})
		}
	}

	var created *domain.Attendance

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx repository.Store,
		after func(uow.AfterCommit),
	) error {
		occ, err := tx.Catalog().GetOccurrence(ctx, occurrenceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrOccurrenceNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if !occ.RSVPEnabled {
			return fmt.Errorf("%s:%w", op, ErrRSVPNotAllowed)
		}

		if occ.Status != domain.OccurrenceActive {
			return fmt.Errorf("%s:%w", op, ErrRSVPClosed)
		}

		if _, err := tx.Attendance().GetActive(ctx, occurrenceID, attendeeID); err == nil {
			return fmt.Errorf("%s:%w", op, ErrAlreadyRegistered)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, err)
		}

		now := time.Now().UTC()
		rec := &domain.Attendance{
			ID:           uuid.New(),
			OccurrenceID: occurrenceID,
			AttendeeID:   attendeeID,
			Status:       domain.AttendanceConfirmed,
			Note:         note,
			Created:      now,
			Updated:      now,
		}

		if occ.Capacity != nil {
			confirmed, err := tx.Attendance().CountByStatus(ctx, occurrenceID, domain.AttendanceConfirmed)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			if confirmed >= *occ.Capacity {
				maxPos, err := tx.Attendance().MaxWaitlistPosition(ctx, occurrenceID)
				if err != nil {
					return fmt.Errorf("%s:%w", op, err)
				}

				pos := maxPos + 1
				rec.Status = domain.AttendanceWaitlist
				rec.WaitlistPosition = &pos
			}
		}

		if err := tx.Attendance().Insert(ctx, rec); err != nil {
			// the partial unique index catches a duplicate that raced
			// past the GetActive check
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrAlreadyRegistered)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		created = rec

		after(func(ctx context.Context) {
			s.invalidate(ctx, occurrenceID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// CancelAttendance cancels the caller's active record. Cancelling a
// confirmed seat frees it, and the longest-waiting waitlisted attendee, if
// any, is promoted into it within the same transaction. At most one
// promotion happens per cancellation. The promotion notice goes out after
// commit and its failure only gets logged.
//
// Parameters:
//   - ctx: request-scoped context.
//   - occurrenceID, attendeeID: whose record on what to cancel.
//
// Returns:
//   - *domain.Attendance: the cancelled record.
//   - error: rsvp.ErrOccurrenceNotFound if the occurrence does not exist,
//     rsvp.ErrAttendanceNotFound if there is nothing active to cancel.
func (s *Service) CancelAttendance(ctx context.Context, occurrenceID, attendeeID int64) (*domain.Attendance, error) {
	const op = "service.rsvp.CancelAttendance"

	var cancelled *domain.Attendance

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx repository.Store,
		after func(uow.AfterCommit),
	) error {
		occ, err := tx.Catalog().GetOccurrence(ctx, occurrenceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrOccurrenceNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		rec, err := tx.Attendance().GetActive(ctx, occurrenceID, attendeeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrAttendanceNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		wasConfirmed := rec.Status == domain.AttendanceConfirmed

		if err := tx.Attendance().UpdateStatus(ctx, rec.ID, domain.AttendanceCancelled); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		rec.Status = domain.AttendanceCancelled
		rec.WaitlistPosition = nil
		rec.Updated = time.Now().UTC()
		cancelled = rec

		if wasConfirmed {
			next, err := tx.Attendance().NextWaitlisted(ctx, occurrenceID)
			switch {
			case err == nil:
				if err := tx.Attendance().UpdateStatus(ctx, next.ID, domain.AttendanceConfirmed); err != nil {
					return fmt.Errorf("%s:%w", op, err)
				}

				promoted := next.AttendeeID
				after(func(ctx context.Context) {
					s.notifyPromoted(ctx, promoted, *occ)
				})
			case errors.Is(err, repository.ErrNotFound):
				// empty waitlist, the seat simply stays open
			default:
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		after(func(ctx context.Context) {
			s.invalidate(ctx, occurrenceID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// Roster returns every record for the occurrence partitioned by status.
// Waitlisted entries come back in promotion order. Reads go straight to
// the store, never through the cache, so hosts always see the live list.
//
// Returns:
//   - *domain.AttendanceRoster: the partitioned roster with counts.
//   - error: rsvp.ErrOccurrenceNotFound if the occurrence does not exist.
func (s *Service) Roster(ctx context.Context, occurrenceID int64) (*domain.AttendanceRoster, error) {
	const op = "service.rsvp.Roster"

	occ, err := s.store.Catalog().GetOccurrence(ctx, occurrenceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrOccurrenceNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	recs, err := s.store.Attendance().ListByOccurrence(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return buildRoster(*occ, recs), nil
}

func buildRoster(occ domain.Occurrence, recs []domain.Attendance) *domain.AttendanceRoster {
	roster := &domain.AttendanceRoster{Occurrence: occ}

	for _, rec := range recs {
		switch rec.Status {
		case domain.AttendanceConfirmed:
			roster.Confirmed = append(roster.Confirmed, rec)
		case domain.AttendanceWaitlist:
			roster.Waitlist = append(roster.Waitlist, rec)
		case domain.AttendanceCancelled:
			roster.Cancelled = append(roster.Cancelled, rec)
		}
	}

	roster.Counts = domain.OccurrenceCounts{
		Confirmed: len(roster.Confirmed),
		Waitlist:  len(roster.Waitlist),
		Cancelled: len(roster.Cancelled),
		Capacity:  occ.Capacity,
	}

	if occ.Capacity != nil {
		left := *occ.Capacity - roster.Counts.Confirmed
		if left < 0 {
			left = 0
		}
		roster.Counts.SpotsLeft = &left
	}

	return roster
}

func (s *Service) invalidate(ctx context.Context, occurrenceID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateOccurrence(ctx, occurrenceID)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishOccurrenceChanged(ctx, occurrenceID)
	}
}

func (s *Service) notifyPromoted(ctx context.Context, attendeeID int64, occ domain.Occurrence) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.NotifyPromoted(ctx, attendeeID, occ); err != nil {
		s.logger.Warn("promotion notice failed",
			"attendee_id", attendeeID, "occurrence_id", occ.ID, "error", err)
	}
}
