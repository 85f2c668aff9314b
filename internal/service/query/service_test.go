package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/memory"
)

func intp(v int) *int { return &v }

func newTestService(t *testing.T, cfg Config) (*Service, *memory.Store, int64) {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()

	venueID, err := store.Catalog().CreateVenue(ctx, "Ophelia's", "1215 20th St")
	if err != nil {
		t.Fatalf("CreateVenue() error = %v", err)
	}
	eventID, err := store.Catalog().CreateEvent(ctx, venueID, "In The Round", "")
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	return New(store, nil, cfg), store, eventID
}

func addOccurrence(t *testing.T, store *memory.Store, eventID int64, starts time.Time, capacity *int) int64 {
	t.Helper()

	id, err := store.Catalog().CreateOccurrence(context.Background(), &domain.Occurrence{
		EventID:     eventID,
		Starts:      starts,
		Ends:        starts.Add(2 * time.Hour),
		Capacity:    capacity,
		Status:      domain.OccurrenceActive,
		RSVPEnabled: true,
	})
	if err != nil {
		t.Fatalf("CreateOccurrence() error = %v", err)
	}

	return id
}

func addAttendance(t *testing.T, store *memory.Store, occurrenceID, attendeeID int64, status domain.AttendanceStatus, pos *int) {
	t.Helper()

	now := time.Now().UTC()
	err := store.Attendance().Insert(context.Background(), &domain.Attendance{
		ID:               uuid.New(),
		OccurrenceID:     occurrenceID,
		AttendeeID:       attendeeID,
		Status:           status,
		WaitlistPosition: pos,
		Created:          now,
		Updated:          now,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}

func TestGetOccurrence(t *testing.T) {
	ctx := context.Background()
	svc, store, eventID := newTestService(t, Config{})

	occID := addOccurrence(t, store, eventID, time.Now().UTC().Add(time.Hour), nil)

	occ, err := svc.GetOccurrence(ctx, occID)
	if err != nil {
		t.Fatalf("GetOccurrence() error = %v", err)
	}
	if occ.EventTitle != "In The Round" {
		t.Errorf("EventTitle = %q, want %q", occ.EventTitle, "In The Round")
	}

	if _, err := svc.GetOccurrence(ctx, 9999); !errors.Is(err, ErrOccurrenceNotFound) {
		t.Errorf("unknown id error = %v, want ErrOccurrenceNotFound", err)
	}
}

func TestGetEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, eventID := newTestService(t, Config{})

	e, err := svc.GetEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if e.Title != "In The Round" {
		t.Errorf("Title = %q, want %q", e.Title, "In The Round")
	}

	if _, err := svc.GetEvent(ctx, 9999); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("unknown id error = %v, want ErrEventNotFound", err)
	}
}

func TestAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("counts per status with spots left", func(t *testing.T) {
		svc, store, eventID := newTestService(t, Config{})
		occID := addOccurrence(t, store, eventID, time.Now().UTC().Add(time.Hour), intp(3))

		addAttendance(t, store, occID, 1, domain.AttendanceConfirmed, nil)
		addAttendance(t, store, occID, 2, domain.AttendanceWaitlist, intp(1))
		addAttendance(t, store, occID, 3, domain.AttendanceCancelled, nil)

		counts, err := svc.Availability(ctx, occID)
		if err != nil {
			t.Fatalf("Availability() error = %v", err)
		}

		if counts.Confirmed != 1 || counts.Waitlist != 1 || counts.Cancelled != 1 {
			t.Errorf("counts = %+v, want 1/1/1", counts)
		}
		if counts.SpotsLeft == nil || *counts.SpotsLeft != 2 {
			t.Errorf("SpotsLeft = %v, want 2", counts.SpotsLeft)
		}
	})

	t.Run("unlimited capacity has nil spots left", func(t *testing.T) {
		svc, store, eventID := newTestService(t, Config{})
		occID := addOccurrence(t, store, eventID, time.Now().UTC().Add(time.Hour), nil)

		counts, err := svc.Availability(ctx, occID)
		if err != nil {
			t.Fatalf("Availability() error = %v", err)
		}
		if counts.SpotsLeft != nil || counts.Capacity != nil {
			t.Errorf("counts = %+v, want nil capacity and spots", counts)
		}
	})

	t.Run("full room reports zero spots", func(t *testing.T) {
		svc, store, eventID := newTestService(t, Config{})
		occID := addOccurrence(t, store, eventID, time.Now().UTC().Add(time.Hour), intp(1))

		addAttendance(t, store, occID, 1, domain.AttendanceConfirmed, nil)

		counts, err := svc.Availability(ctx, occID)
		if err != nil {
			t.Fatalf("Availability() error = %v", err)
		}
		if counts.SpotsLeft == nil || *counts.SpotsLeft != 0 {
			t.Errorf("SpotsLeft = %v, want 0", counts.SpotsLeft)
		}
	})

	t.Run("unknown occurrence", func(t *testing.T) {
		svc, _, _ := newTestService(t, Config{})

		if _, err := svc.Availability(ctx, 9999); !errors.Is(err, ErrOccurrenceNotFound) {
			t.Errorf("error = %v, want ErrOccurrenceNotFound", err)
		}
	})
}

func TestListUpcoming(t *testing.T) {
	ctx := context.Background()

	t.Run("zero from means now", func(t *testing.T) {
		svc, store, eventID := newTestService(t, Config{})

		addOccurrence(t, store, eventID, time.Now().UTC().Add(-24*time.Hour), nil)
		future := addOccurrence(t, store, eventID, time.Now().UTC().Add(24*time.Hour), nil)

		list, err := svc.ListUpcoming(ctx, nil, time.Time{}, 0, 0)
		if err != nil {
			t.Fatalf("ListUpcoming() error = %v", err)
		}
		if len(list) != 1 || list[0].ID != future {
			t.Errorf("list = %v, want only the future occurrence", list)
		}
	})

	t.Run("explicit from reaches back", func(t *testing.T) {
		svc, store, eventID := newTestService(t, Config{})

		addOccurrence(t, store, eventID, time.Now().UTC().Add(-24*time.Hour), nil)
		addOccurrence(t, store, eventID, time.Now().UTC().Add(24*time.Hour), nil)

		list, err := svc.ListUpcoming(ctx, nil, time.Now().UTC().Add(-48*time.Hour), 0, 0)
		if err != nil {
			t.Fatalf("ListUpcoming() error = %v", err)
		}
		if len(list) != 2 {
			t.Errorf("len = %d, want 2", len(list))
		}
	})

	t.Run("clamps the page size", func(t *testing.T) {
		svc, store, eventID := newTestService(t, Config{MaxPage: 2})

		for day := 1; day <= 3; day++ {
			addOccurrence(t, store, eventID, time.Now().UTC().AddDate(0, 0, day), nil)
		}

		list, err := svc.ListUpcoming(ctx, nil, time.Time{}, 99, 0)
		if err != nil {
			t.Fatalf("ListUpcoming() error = %v", err)
		}
		if len(list) != 2 {
			t.Errorf("len = %d, want the max page of 2", len(list))
		}
	})

	t.Run("filters by event", func(t *testing.T) {
		svc, store, eventID := newTestService(t, Config{})

		otherVenue, err := store.Catalog().CreateVenue(ctx, "Larimer Lounge", "")
		if err != nil {
			t.Fatalf("CreateVenue() error = %v", err)
		}
		otherEvent, err := store.Catalog().CreateEvent(ctx, otherVenue, "Other Night", "")
		if err != nil {
			t.Fatalf("CreateEvent() error = %v", err)
		}

		want := addOccurrence(t, store, eventID, time.Now().UTC().Add(24*time.Hour), nil)
		addOccurrence(t, store, otherEvent, time.Now().UTC().Add(24*time.Hour), nil)

		list, err := svc.ListUpcoming(ctx, &eventID, time.Time{}, 0, 0)
		if err != nil {
			t.Fatalf("ListUpcoming() error = %v", err)
		}
		if len(list) != 1 || list[0].ID != want {
			t.Errorf("list = %v, want only the filtered event's occurrence", list)
		}
	})
}

func TestMyRSVPs(t *testing.T) {
	ctx := context.Background()
	svc, store, eventID := newTestService(t, Config{})

	near := addOccurrence(t, store, eventID, time.Now().UTC().Add(24*time.Hour), nil)
	far := addOccurrence(t, store, eventID, time.Now().UTC().Add(72*time.Hour), nil)

	addAttendance(t, store, near, 7, domain.AttendanceConfirmed, nil)
	addAttendance(t, store, far, 7, domain.AttendanceWaitlist, intp(1))
	addAttendance(t, store, near, 8, domain.AttendanceConfirmed, nil)

	list, err := svc.MyRSVPs(ctx, 7, 0, 0)
	if err != nil {
		t.Fatalf("MyRSVPs() error = %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Occurrence.ID != far || list[1].Occurrence.ID != near {
		t.Errorf("order = [%d %d], want most recent occurrence first", list[0].Occurrence.ID, list[1].Occurrence.ID)
	}
	if list[0].Attendance.AttendeeID != 7 {
		t.Errorf("AttendeeID = %d, want 7", list[0].Attendance.AttendeeID)
	}
}
