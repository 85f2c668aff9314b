package admin

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/uow"
)

// importScanLimit bounds how many existing occurrences the import loads
// for duplicate detection.
const importScanLimit = 10000

// ImportIssue reports why an import row was skipped. Line 1 is the first
// data row after the header.
type ImportIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Applied    bool          `json:"applied"`
	New        int           `json:"new"`
	Created    []int64       `json:"created,omitempty"`
	Duplicates []ImportIssue `json:"duplicates,omitempty"`
	Invalid    []ImportIssue `json:"invalid,omitempty"`
}

type importRow struct {
	line        int
	starts      time.Time
	ends        time.Time
	capacity    *int
	rsvpEnabled bool
}

// ImportOccurrences bulk-loads occurrences for an event from CSV with
// columns starts_at,ends_at,capacity,rsvp_enabled (RFC 3339 times, empty
// capacity = unlimited, empty rsvp_enabled = true). Rows matching an
// existing occurrence's start time, or an earlier row's, count as
// duplicates. With apply false nothing is written and the result is a
// preview; with apply true all new rows are created in one transaction.
//
// Returns:
//   - *ImportResult: partition of the file into new / duplicate / invalid.
//   - error: admin.ErrEventNotFound or admin.ErrBadImportHeader.
func (s *Service) ImportOccurrences(ctx context.Context, eventID int64, r io.Reader, apply bool) (*ImportResult, error) {
	const op = "service.admin.ImportOccurrences"

	if _, err := s.store.Catalog().GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, result, err := parseImport(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.store.Catalog().ListOccurrences(ctx, repository.OccurrenceFilter{
		EventID: &eventID,
		Limit:   importScanLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[int64]bool, len(existing))
	for _, occ := range existing {
		seen[occ.Starts.Unix()] = true
	}

	var fresh []importRow
	for _, row := range rows {
		if seen[row.starts.Unix()] {
			result.Duplicates = append(result.Duplicates, ImportIssue{
				Line:   row.line,
				Reason: fmt.Sprintf("occurrence already starts at %s", row.starts.Format(time.RFC3339)),
			})
			continue
		}

		seen[row.starts.Unix()] = true
		fresh = append(fresh, row)
	}

	result.New = len(fresh)

	if !apply {
		return result, nil
	}

	result.Applied = true

	err = s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		for _, row := range fresh {
			id, err := tx.Catalog().CreateOccurrence(ctx, &domain.Occurrence{
				EventID:     eventID,
				Starts:      row.starts,
				Ends:        row.ends,
				Capacity:    row.capacity,
				Status:      domain.OccurrenceActive,
				RSVPEnabled: row.rsvpEnabled,
			})
			if err != nil {
				return fmt.Errorf("%s: line %d: %w", op, row.line, err)
			}

			result.Created = append(result.Created, id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func parseImport(r io.Reader) ([]importRow, *ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, ErrBadImportHeader
	}

	want := []string{"starts_at", "ends_at", "capacity", "rsvp_enabled"}
	if len(header) != len(want) {
		return nil, nil, ErrBadImportHeader
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), want[i]) {
			return nil, nil, ErrBadImportHeader
		}
	}

	result := &ImportResult{}

	var rows []importRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Invalid = append(result.Invalid, ImportIssue{Line: line, Reason: err.Error()})
			continue
		}

		row, reason := parseImportRow(line, rec)
		if reason != "" {
			result.Invalid = append(result.Invalid, ImportIssue{Line: line, Reason: reason})
			continue
		}

		rows = append(rows, row)
	}

	return rows, result, nil
}

func parseImportRow(line int, rec []string) (importRow, string) {
	row := importRow{line: line, rsvpEnabled: true}

	starts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[0]))
	if err != nil {
		return row, "bad starts_at: " + err.Error()
	}
	row.starts = starts.UTC()

	ends, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[1]))
	if err != nil {
		return row, "bad ends_at: " + err.Error()
	}
	row.ends = ends.UTC()

	if !row.ends.After(row.starts) {
		return row, "ends_at must be after starts_at"
	}

	if v := strings.TrimSpace(rec[2]); v != "" {
		capVal, err := strconv.Atoi(v)
		if err != nil || capVal < 0 {
			return row, "bad capacity: must be a non-negative integer"
		}
		row.capacity = &capVal
	}

	if v := strings.TrimSpace(rec[3]); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return row, "bad rsvp_enabled: must be true or false"
		}
		row.rsvpEnabled = enabled
	}

	return row, ""
}

// ExportRoster streams the occurrence's attendance as CSV, confirmed
// first, then waitlist in promotion order, then cancelled.
//
// Returns:
//   - error: admin.ErrOccurrenceNotFound if the occurrence does not exist.
func (s *Service) ExportRoster(ctx context.Context, occurrenceID int64, w io.Writer) error {
	const op = "service.admin.ExportRoster"

	if _, err := s.store.Catalog().GetOccurrence(ctx, occurrenceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrOccurrenceNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	recs, err := s.store.Attendance().ListByOccurrence(ctx, occurrenceID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"attendee_id", "status", "waitlist_position", "note", "created_at", "updated_at"}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// the store orders by status text, the export wants confirmed on top
	for _, status := range []domain.AttendanceStatus{
		domain.AttendanceConfirmed,
		domain.AttendanceWaitlist,
		domain.AttendanceCancelled,
	} {
		for _, rec := range recs {
			if rec.Status != status {
				continue
			}

			pos := ""
			if rec.WaitlistPosition != nil {
				pos = strconv.Itoa(*rec.WaitlistPosition)
			}

			if err := cw.Write([]string{
				strconv.FormatInt(rec.AttendeeID, 10),
				string(rec.Status),
				pos,
				rec.Note,
				rec.Created.Format(time.RFC3339),
				rec.Updated.Format(time.RFC3339),
			}); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
