package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

func intp(v int) *int { return &v }

func seedEvent(t *testing.T, s *Store) int64 {
	t.Helper()

	ctx := context.Background()
	venueID, err := s.Catalog().CreateVenue(ctx, "Syntax Physic Opera", "554 S Broadway")
	if err != nil {
		t.Fatalf("CreateVenue() error = %v", err)
	}
	eventID, err := s.Catalog().CreateEvent(ctx, venueID, "Open Mic Night", "")
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	return eventID
}

func seedOccurrence(t *testing.T, s *Store, eventID int64, starts time.Time) int64 {
	t.Helper()

	id, err := s.Catalog().CreateOccurrence(context.Background(), &domain.Occurrence{
		EventID:     eventID,
		Starts:      starts,
		Ends:        starts.Add(2 * time.Hour),
		Status:      domain.OccurrenceActive,
		RSVPEnabled: true,
	})
	if err != nil {
		t.Fatalf("CreateOccurrence() error = %v", err)
	}

	return id
}

func newAttendance(occurrenceID, attendeeID int64, status domain.AttendanceStatus, pos *int) *domain.Attendance {
	now := time.Now().UTC()
	return &domain.Attendance{
		ID:               uuid.New(),
		OccurrenceID:     occurrenceID,
		AttendeeID:       attendeeID,
		Status:           status,
		WaitlistPosition: pos,
		Created:          now,
		Updated:          now,
	}
}

func TestRunTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		s := NewStore()

		var venueID int64
		err := s.RunTx(ctx, func(ctx context.Context, tx repository.Store) error {
			var err error
			venueID, err = tx.Catalog().CreateVenue(ctx, "Lost Lake", "3602 E Colfax Ave")
			return err
		})
		if err != nil {
			t.Fatalf("RunTx() error = %v", err)
		}

		if _, err := s.Catalog().GetVenue(ctx, venueID); err != nil {
			t.Errorf("GetVenue() after commit error = %v", err)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		s := NewStore()
		boom := errors.New("boom")

		var venueID int64
		err := s.RunTx(ctx, func(ctx context.Context, tx repository.Store) error {
			var err error
			venueID, err = tx.Catalog().CreateVenue(ctx, "Lost Lake", "3602 E Colfax Ave")
			if err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("RunTx() error = %v, want boom", err)
		}

		if _, err := s.Catalog().GetVenue(ctx, venueID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("GetVenue() after rollback error = %v, want ErrNotFound", err)
		}
	})

	t.Run("nested call reuses the transaction", func(t *testing.T) {
		s := NewStore()

		err := s.RunTx(ctx, func(ctx context.Context, tx repository.Store) error {
			return tx.RunTx(ctx, func(ctx context.Context, inner repository.Store) error {
				_, err := inner.Catalog().CreateVenue(ctx, "Hi-Dive", "7 S Broadway")
				return err
			})
		})
		if err != nil {
			t.Fatalf("nested RunTx() error = %v", err)
		}
	})
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate venue name", func(t *testing.T) {
		s := NewStore()

		if _, err := s.Catalog().CreateVenue(ctx, "Mercury Cafe", ""); err != nil {
			t.Fatalf("CreateVenue() error = %v", err)
		}
		if _, err := s.Catalog().CreateVenue(ctx, "Mercury Cafe", "elsewhere"); !errors.Is(err, repository.ErrConflict) {
			t.Errorf("duplicate CreateVenue() error = %v, want ErrConflict", err)
		}
	})

	t.Run("event requires an existing venue", func(t *testing.T) {
		s := NewStore()

		if _, err := s.Catalog().CreateEvent(ctx, 42, "Ghost Event", ""); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("CreateEvent() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("occurrence requires an existing event", func(t *testing.T) {
		s := NewStore()

		_, err := s.Catalog().CreateOccurrence(ctx, &domain.Occurrence{EventID: 42})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("CreateOccurrence() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("get occurrence joins the event title", func(t *testing.T) {
		s := NewStore()
		eventID := seedEvent(t, s)
		occID := seedOccurrence(t, s, eventID, time.Now().UTC().Add(time.Hour))

		occ, err := s.Catalog().GetOccurrence(ctx, occID)
		if err != nil {
			t.Fatalf("GetOccurrence() error = %v", err)
		}
		if occ.EventTitle != "Open Mic Night" {
			t.Errorf("EventTitle = %q, want %q", occ.EventTitle, "Open Mic Night")
		}
	})
}

func TestListOccurrences(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	eventID := seedEvent(t, s)

	base := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	var ids []int64
	for day := 0; day < 5; day++ {
		ids = append(ids, seedOccurrence(t, s, eventID, base.AddDate(0, 0, day)))
	}

	otherEvent := seedEventNamed(t, s, "Showcase")
	seedOccurrence(t, s, otherEvent, base.AddDate(0, 0, 1))

	t.Run("filters by event and sorts by start", func(t *testing.T) {
		list, err := s.Catalog().ListOccurrences(ctx, repository.OccurrenceFilter{EventID: &eventID})
		if err != nil {
			t.Fatalf("ListOccurrences() error = %v", err)
		}
		if len(list) != 5 {
			t.Fatalf("len = %d, want 5", len(list))
		}
		for i, occ := range list {
			if occ.ID != ids[i] {
				t.Errorf("list[%d].ID = %d, want %d (sorted by start)", i, occ.ID, ids[i])
			}
		}
	})

	t.Run("filters by lower bound", func(t *testing.T) {
		from := base.AddDate(0, 0, 3)
		list, err := s.Catalog().ListOccurrences(ctx, repository.OccurrenceFilter{EventID: &eventID, From: &from})
		if err != nil {
			t.Fatalf("ListOccurrences() error = %v", err)
		}
		if len(list) != 2 {
			t.Errorf("len = %d, want 2", len(list))
		}
	})

	t.Run("paginates", func(t *testing.T) {
		list, err := s.Catalog().ListOccurrences(ctx, repository.OccurrenceFilter{EventID: &eventID, Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("ListOccurrences() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("len = %d, want 2", len(list))
		}
		if list[0].ID != ids[2] {
			t.Errorf("page start = %d, want %d", list[0].ID, ids[2])
		}

		empty, err := s.Catalog().ListOccurrences(ctx, repository.OccurrenceFilter{EventID: &eventID, Offset: 99})
		if err != nil {
			t.Fatalf("ListOccurrences() error = %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("len = %d, want 0 past the end", len(empty))
		}
	})
}

func seedEventNamed(t *testing.T, s *Store, title string) int64 {
	t.Helper()

	ctx := context.Background()
	venueID, err := s.Catalog().CreateVenue(ctx, title+" venue", "")
	if err != nil {
		t.Fatalf("CreateVenue() error = %v", err)
	}
	eventID, err := s.Catalog().CreateEvent(ctx, venueID, title, "")
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	return eventID
}

func TestAttendanceInsert(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	eventID := seedEvent(t, s)
	occID := seedOccurrence(t, s, eventID, time.Now().UTC().Add(time.Hour))

	t.Run("rejects a second active record per attendee", func(t *testing.T) {
		if err := s.Attendance().Insert(ctx, newAttendance(occID, 1, domain.AttendanceConfirmed, nil)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Attendance().Insert(ctx, newAttendance(occID, 1, domain.AttendanceWaitlist, intp(1))); !errors.Is(err, repository.ErrConflict) {
			t.Errorf("duplicate Insert() error = %v, want ErrConflict", err)
		}
	})

	t.Run("rejects a taken waitlist position", func(t *testing.T) {
		if err := s.Attendance().Insert(ctx, newAttendance(occID, 2, domain.AttendanceWaitlist, intp(7))); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Attendance().Insert(ctx, newAttendance(occID, 3, domain.AttendanceWaitlist, intp(7))); !errors.Is(err, repository.ErrConflict) {
			t.Errorf("taken position Insert() error = %v, want ErrConflict", err)
		}
	})

	t.Run("cancelled records do not block a new one", func(t *testing.T) {
		if err := s.Attendance().Insert(ctx, newAttendance(occID, 4, domain.AttendanceCancelled, nil)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Attendance().Insert(ctx, newAttendance(occID, 4, domain.AttendanceConfirmed, nil)); err != nil {
			t.Errorf("Insert() after cancelled error = %v, want nil", err)
		}
	})
}

func TestAttendanceQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	eventID := seedEvent(t, s)
	occID := seedOccurrence(t, s, eventID, time.Now().UTC().Add(time.Hour))

	mustInsert := func(a *domain.Attendance) {
		t.Helper()
		if err := s.Attendance().Insert(ctx, a); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	mustInsert(newAttendance(occID, 1, domain.AttendanceConfirmed, nil))
	mustInsert(newAttendance(occID, 2, domain.AttendanceWaitlist, intp(3)))
	mustInsert(newAttendance(occID, 3, domain.AttendanceWaitlist, intp(1)))
	mustInsert(newAttendance(occID, 4, domain.AttendanceCancelled, nil))

	t.Run("counts by status", func(t *testing.T) {
		n, err := s.Attendance().CountByStatus(ctx, occID, domain.AttendanceWaitlist)
		if err != nil {
			t.Fatalf("CountByStatus() error = %v", err)
		}
		if n != 2 {
			t.Errorf("waitlist count = %d, want 2", n)
		}
	})

	t.Run("max waitlist position", func(t *testing.T) {
		max, err := s.Attendance().MaxWaitlistPosition(ctx, occID)
		if err != nil {
			t.Fatalf("MaxWaitlistPosition() error = %v", err)
		}
		if max != 3 {
			t.Errorf("max = %d, want 3", max)
		}
	})

	t.Run("next waitlisted is the smallest position", func(t *testing.T) {
		next, err := s.Attendance().NextWaitlisted(ctx, occID)
		if err != nil {
			t.Fatalf("NextWaitlisted() error = %v", err)
		}
		if next.AttendeeID != 3 {
			t.Errorf("next attendee = %d, want 3", next.AttendeeID)
		}
	})

	t.Run("get active skips cancelled", func(t *testing.T) {
		if _, err := s.Attendance().GetActive(ctx, occID, 4); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("GetActive(cancelled attendee) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update status clears the position", func(t *testing.T) {
		next, err := s.Attendance().NextWaitlisted(ctx, occID)
		if err != nil {
			t.Fatalf("NextWaitlisted() error = %v", err)
		}
		if err := s.Attendance().UpdateStatus(ctx, next.ID, domain.AttendanceConfirmed); err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}

		rec, err := s.Attendance().GetActive(ctx, occID, next.AttendeeID)
		if err != nil {
			t.Fatalf("GetActive() error = %v", err)
		}
		if rec.Status != domain.AttendanceConfirmed || rec.WaitlistPosition != nil {
			t.Errorf("record = %+v, want confirmed with nil position", rec)
		}
	})

	t.Run("update status of unknown record", func(t *testing.T) {
		if err := s.Attendance().UpdateStatus(ctx, uuid.New(), domain.AttendanceCancelled); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("UpdateStatus() error = %v, want ErrNotFound", err)
		}
	})
}

func TestInviteGuards(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	newInvite := func(t *testing.T, s *Store) *domain.HostInvite {
		t.Helper()
		inv := &domain.HostInvite{
			ID:        uuid.New(),
			EventID:   1,
			TokenHash: uuid.NewString(),
			CreatedBy: 1,
			Created:   now,
		}
		if err := s.Invites().Create(ctx, inv); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return inv
	}

	t.Run("mark used only once", func(t *testing.T) {
		s := NewStore()
		inv := newInvite(t, s)

		if err := s.Invites().MarkUsed(ctx, inv.ID, 7, now); err != nil {
			t.Fatalf("MarkUsed() error = %v", err)
		}
		if err := s.Invites().MarkUsed(ctx, inv.ID, 8, now); !errors.Is(err, repository.ErrConflict) {
			t.Errorf("second MarkUsed() error = %v, want ErrConflict", err)
		}
	})

	t.Run("mark used after revoke", func(t *testing.T) {
		s := NewStore()
		inv := newInvite(t, s)

		if err := s.Invites().Revoke(ctx, inv.ID, now); err != nil {
			t.Fatalf("Revoke() error = %v", err)
		}
		if err := s.Invites().MarkUsed(ctx, inv.ID, 7, now); !errors.Is(err, repository.ErrConflict) {
			t.Errorf("MarkUsed() after revoke error = %v, want ErrConflict", err)
		}
	})

	t.Run("revoke twice", func(t *testing.T) {
		s := NewStore()
		inv := newInvite(t, s)

		if err := s.Invites().Revoke(ctx, inv.ID, now); err != nil {
			t.Fatalf("Revoke() error = %v", err)
		}
		if err := s.Invites().Revoke(ctx, inv.ID, now); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("second Revoke() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("lookup by token hash", func(t *testing.T) {
		s := NewStore()
		inv := newInvite(t, s)

		got, err := s.Invites().GetByTokenHash(ctx, inv.TokenHash)
		if err != nil {
			t.Fatalf("GetByTokenHash() error = %v", err)
		}
		if got.ID != inv.ID {
			t.Errorf("ID = %s, want %s", got.ID, inv.ID)
		}

		if _, err := s.Invites().GetByTokenHash(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("unknown hash error = %v, want ErrNotFound", err)
		}
	})

	t.Run("grant and check host role", func(t *testing.T) {
		s := NewStore()

		ok, err := s.Invites().IsHost(ctx, 1, 7)
		if err != nil || ok {
			t.Fatalf("IsHost() before grant = %v, %v; want false, nil", ok, err)
		}

		if err := s.Invites().GrantHost(ctx, 1, 7); err != nil {
			t.Fatalf("GrantHost() error = %v", err)
		}

		ok, err = s.Invites().IsHost(ctx, 1, 7)
		if err != nil || !ok {
			t.Errorf("IsHost() after grant = %v, %v; want true, nil", ok, err)
		}
	})
}
