package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

const importHeader = "starts_at,ends_at,capacity,rsvp_enabled\n"

func countOccurrences(t *testing.T, svc *Service, eventID int64) int {
	t.Helper()

	list, err := svc.store.Catalog().ListOccurrences(context.Background(), repository.OccurrenceFilter{EventID: &eventID})
	if err != nil {
		t.Fatalf("ListOccurrences() error = %v", err)
	}

	return len(list)
}

func TestImportOccurrences(t *testing.T) {
	ctx := context.Background()

	t.Run("preview writes nothing", func(t *testing.T) {
		svc, _ := newTestService(t)
		eventID := seedEvent(t, svc)

		in := importHeader +
			"2026-10-06T19:00:00Z,2026-10-06T21:00:00Z,12,true\n" +
			"2026-10-13T19:00:00Z,2026-10-13T21:00:00Z,,\n"

		result, err := svc.ImportOccurrences(ctx, eventID, strings.NewReader(in), false)
		if err != nil {
			t.Fatalf("ImportOccurrences() error = %v", err)
		}

		if result.Applied {
			t.Error("Applied = true, want false for a preview")
		}
		if result.New != 2 {
			t.Errorf("New = %d, want 2", result.New)
		}
		if len(result.Created) != 0 {
			t.Errorf("Created = %v, want empty in a preview", result.Created)
		}
		if got := countOccurrences(t, svc, eventID); got != 0 {
			t.Errorf("occurrence count after preview = %d, want 0", got)
		}
	})

	t.Run("apply creates the new rows", func(t *testing.T) {
		svc, _ := newTestService(t)
		eventID := seedEvent(t, svc)

		in := importHeader +
			"2026-10-06T19:00:00Z,2026-10-06T21:00:00Z,12,true\n" +
			"2026-10-13T19:00:00Z,2026-10-13T21:00:00Z,,false\n"

		result, err := svc.ImportOccurrences(ctx, eventID, strings.NewReader(in), true)
		if err != nil {
			t.Fatalf("ImportOccurrences() error = %v", err)
		}

		if !result.Applied || len(result.Created) != 2 {
			t.Fatalf("result = %+v, want 2 created occurrences", result)
		}

		first, err := svc.store.Catalog().GetOccurrence(ctx, result.Created[0])
		if err != nil {
			t.Fatalf("GetOccurrence() error = %v", err)
		}
		if first.Capacity == nil || *first.Capacity != 12 || !first.RSVPEnabled {
			t.Errorf("first row = %+v, want capacity 12 and rsvps on", first)
		}

		second, err := svc.store.Catalog().GetOccurrence(ctx, result.Created[1])
		if err != nil {
			t.Fatalf("GetOccurrence() error = %v", err)
		}
		if second.Capacity != nil {
			t.Errorf("second row capacity = %v, want nil for an empty field", *second.Capacity)
		}
		if second.RSVPEnabled {
			t.Error("second row RSVPEnabled = true, want false")
		}
	})

	t.Run("empty rsvp_enabled defaults to true", func(t *testing.T) {
		svc, _ := newTestService(t)
		eventID := seedEvent(t, svc)

		in := importHeader + "2026-10-06T19:00:00Z,2026-10-06T21:00:00Z,,\n"

		result, err := svc.ImportOccurrences(ctx, eventID, strings.NewReader(in), true)
		if err != nil {
			t.Fatalf("ImportOccurrences() error = %v", err)
		}

		occ, err := svc.store.Catalog().GetOccurrence(ctx, result.Created[0])
		if err != nil {
			t.Fatalf("GetOccurrence() error = %v", err)
		}
		if !occ.RSVPEnabled {
			t.Error("RSVPEnabled = false, want true when the field is empty")
		}
	})

	t.Run("skips start times already on the calendar", func(t *testing.T) {
		svc, _ := newTestService(t)
		eventID := seedEvent(t, svc)

		starts := time.Date(2026, 10, 6, 19, 0, 0, 0, time.UTC)
		if _, err := svc.ScheduleOccurrence(ctx, eventID, starts, starts.Add(time.Hour), nil, true); err != nil {
			t.Fatalf("ScheduleOccurrence() error = %v", err)
		}

		in := importHeader +
			"2026-10-06T19:00:00Z,2026-10-06T21:00:00Z,,\n" +
			"2026-10-13T19:00:00Z,2026-10-13T21:00:00Z,,\n"

		result, err := svc.ImportOccurrences(ctx, eventID, strings.NewReader(in), false)
		if err != nil {
			t.Fatalf("ImportOccurrences() error = %v", err)
		}

		if result.New != 1 {
			t.Errorf("New = %d, want 1", result.New)
		}
		if len(result.Duplicates) != 1 || result.Duplicates[0].Line != 1 {
			t.Errorf("Duplicates = %+v, want line 1", result.Duplicates)
		}
	})

	t.Run("skips repeated start times within the file", func(t *testing.T) {
		svc, _ := newTestService(t)
		eventID := seedEvent(t, svc)

		in := importHeader +
			"2026-10-06T19:00:00Z,2026-10-06T21:00:00Z,,\n" +
			"2026-10-06T19:00:00Z,2026-10-06T22:00:00Z,,\n"

		result, err := svc.ImportOccurrences(ctx, eventID, strings.NewReader(in), false)
		if err != nil {
			t.Fatalf("ImportOccurrences() error = %v", err)
		}

		if result.New != 1 || len(result.Duplicates) != 1 || result.Duplicates[0].Line != 2 {
			t.Errorf("result = %+v, want the second row flagged as duplicate", result)
		}
	})

	t.Run("collects invalid rows with line numbers", func(t *testing.T) {
		svc, _ := newTestService(t)
		eventID := seedEvent(t, svc)

		in := importHeader +
			"not-a-time,2026-10-06T21:00:00Z,,\n" +
			"2026-10-07T19:00:00Z,2026-10-07T18:00:00Z,,\n" +
			"2026-10-08T19:00:00Z,2026-10-08T21:00:00Z,-5,\n" +
			"2026-10-09T19:00:00Z,2026-10-09T21:00:00Z,,maybe\n" +
			"2026-10-10T19:00:00Z,2026-10-10T21:00:00Z,20,true\n"

		result, err := svc.ImportOccurrences(ctx, eventID, strings.NewReader(in), false)
		if err != nil {
			t.Fatalf("ImportOccurrences() error = %v", err)
		}

		if result.New != 1 {
			t.Errorf("New = %d, want 1 (only the last row is valid)", result.New)
		}
		if len(result.Invalid) != 4 {
			t.Fatalf("Invalid = %+v, want 4 entries", result.Invalid)
		}

		wantReasons := map[int]string{
			1: "bad starts_at",
			2: "ends_at must be after starts_at",
			3: "bad capacity",
			4: "bad rsvp_enabled",
		}
		for _, issue := range result.Invalid {
			want, ok := wantReasons[issue.Line]
			if !ok {
				t.Errorf("unexpected invalid line %d: %s", issue.Line, issue.Reason)
				continue
			}
			if !strings.Contains(issue.Reason, want) {
				t.Errorf("line %d reason = %q, want it to mention %q", issue.Line, issue.Reason, want)
			}
		}
	})

	t.Run("rejects a bad header", func(t *testing.T) {
		svc, _ := newTestService(t)
		eventID := seedEvent(t, svc)

		for _, in := range []string{
			"starts,ends,capacity,rsvp_enabled\n",
			"starts_at,ends_at,capacity\n",
			"",
		} {
			if _, err := svc.ImportOccurrences(ctx, eventID, strings.NewReader(in), false); !errors.Is(err, ErrBadImportHeader) {
				t.Errorf("header %q: error = %v, want ErrBadImportHeader", strings.TrimSpace(in), err)
			}
		}
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		svc, _ := newTestService(t)

		if _, err := svc.ImportOccurrences(ctx, 9999, strings.NewReader(importHeader), false); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("error = %v, want ErrEventNotFound", err)
		}
	})
}

func TestExportRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("writes confirmed, then waitlist, then cancelled", func(t *testing.T) {
		svc, store := newTestService(t)
		eventID := seedEvent(t, svc)

		starts := time.Date(2026, 10, 6, 19, 0, 0, 0, time.UTC)
		occ, err := svc.ScheduleOccurrence(ctx, eventID, starts, starts.Add(time.Hour), intp(1), true)
		if err != nil {
			t.Fatalf("ScheduleOccurrence() error = %v", err)
		}

		now := time.Now().UTC()
		pos := 1
		records := []*domain.Attendance{
			{ID: uuid.New(), OccurrenceID: occ.ID, AttendeeID: 30, Status: domain.AttendanceCancelled, Created: now, Updated: now},
			{ID: uuid.New(), OccurrenceID: occ.ID, AttendeeID: 20, Status: domain.AttendanceWaitlist, WaitlistPosition: &pos, Note: "running late", Created: now, Updated: now},
			{ID: uuid.New(), OccurrenceID: occ.ID, AttendeeID: 10, Status: domain.AttendanceConfirmed, Created: now, Updated: now},
		}
		for _, rec := range records {
			if err := store.Attendance().Insert(ctx, rec); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
		}

		var buf bytes.Buffer
		if err := svc.ExportRoster(ctx, occ.ID, &buf); err != nil {
			t.Fatalf("ExportRoster() error = %v", err)
		}

		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("reading exported csv: %v", err)
		}
		if len(rows) != 4 {
			t.Fatalf("row count = %d, want header plus 3 records", len(rows))
		}

		if got, want := strings.Join(rows[0], ","), "attendee_id,status,waitlist_position,note,created_at,updated_at"; got != want {
			t.Errorf("header = %q, want %q", got, want)
		}

		wantOrder := []struct {
			attendee string
			status   string
			pos      string
		}{
			{"10", "confirmed", ""},
			{"20", "waitlist", "1"},
			{"30", "cancelled", ""},
		}
		for i, want := range wantOrder {
			row := rows[i+1]
			if row[0] != want.attendee || row[1] != want.status || row[2] != want.pos {
				t.Errorf("row %d = %v, want %s/%s/%q", i+1, row, want.attendee, want.status, want.pos)
			}
		}

		if rows[2][3] != "running late" {
			t.Errorf("waitlist note = %q, want %q", rows[2][3], "running late")
		}
	})

	t.Run("rejects unknown occurrence", func(t *testing.T) {
		svc, _ := newTestService(t)

		var buf bytes.Buffer
		if err := svc.ExportRoster(ctx, 9999, &buf); !errors.Is(err, ErrOccurrenceNotFound) {
			t.Errorf("error = %v, want ErrOccurrenceNotFound", err)
		}
	})
}
