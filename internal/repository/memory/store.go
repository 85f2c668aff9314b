package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

// Store implements repository.Store on in-process maps, used by tests and
// single-node deployments. One mutex serializes every operation, so each
// call and each RunTx body observes and produces a consistent state, the
// same guarantee the postgres store gets from serializable transactions.
// RunTx snapshots state up front and restores it when fn fails.
type Store struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
}

type hostKey struct {
	eventID int64
	userID  int64
}

type state struct {
	venues        map[int64]domain.Venue
	events        map[int64]domain.Event
	occurrences   map[int64]domain.Occurrence
	attendance    map[uuid.UUID]domain.Attendance
	invites       map[uuid.UUID]domain.HostInvite
	hosts         map[hostKey]struct{}
	notifications map[uuid.UUID]domain.Notification

	venueSeq      int64
	eventSeq      int64
	occurrenceSeq int64
}

func NewStore() *Store {
	return &Store{
		mu: &sync.Mutex{},
		st: &state{
			venues:        make(map[int64]domain.Venue),
			events:        make(map[int64]domain.Event),
			occurrences:   make(map[int64]domain.Occurrence),
			attendance:    make(map[uuid.UUID]domain.Attendance),
			invites:       make(map[uuid.UUID]domain.HostInvite),
			hosts:         make(map[hostKey]struct{}),
			notifications: make(map[uuid.UUID]domain.Notification),
		},
	}
}

// clone takes a snapshot. Stored values are never mutated in place, every
// write replaces the whole value, so a shallow clone per map is a
// complete snapshot.
func (st *state) clone() *state {
	cp := *st
	cp.venues = maps.Clone(st.venues)
	cp.events = maps.Clone(st.events)
	cp.occurrences = maps.Clone(st.occurrences)
	cp.attendance = maps.Clone(st.attendance)
	cp.invites = maps.Clone(st.invites)
	cp.hosts = maps.Clone(st.hosts)
	cp.notifications = maps.Clone(st.notifications)
	return &cp
}

func (s *Store) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *Store) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func (s *Store) Catalog() repository.CatalogRepo            { return &catalogRepo{s: s} }
func (s *Store) Attendance() repository.AttendanceRepo      { return &attendanceRepo{s: s} }
func (s *Store) Invites() repository.InviteRepo             { return &inviteRepo{s: s} }
func (s *Store) Notifications() repository.NotificationRepo { return &notificationRepo{s: s} }

func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.clone()

	if err := fn(ctx, &Store{mu: s.mu, st: s.st, inTx: true}); err != nil {
		*s.st = *snap
		return err
	}

	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneOccurrence(o domain.Occurrence) domain.Occurrence {
	o.Capacity = clonePtr(o.Capacity)
	return o
}

func cloneAttendance(a domain.Attendance) domain.Attendance {
	a.WaitlistPosition = clonePtr(a.WaitlistPosition)
	return a
}

func cloneInvite(inv domain.HostInvite) domain.HostInvite {
	inv.Email = clonePtr(inv.Email)
	inv.ExpiresAt = clonePtr(inv.ExpiresAt)
	inv.RevokedAt = clonePtr(inv.RevokedAt)
	inv.UsedAt = clonePtr(inv.UsedAt)
	inv.UsedBy = clonePtr(inv.UsedBy)
	return inv
}

func cloneNotification(n domain.Notification) domain.Notification {
	n.ReadAt = clonePtr(n.ReadAt)
	return n
}

type catalogRepo struct {
	s *Store
}

func (r *catalogRepo) CreateVenue(ctx context.Context, name, address string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	for _, v := range st.venues {
		if v.Name == name {
			return 0, repository.ErrConflict
		}
	}

	st.venueSeq++
	st.venues[st.venueSeq] = domain.Venue{
		ID:      st.venueSeq,
		Name:    name,
		Address: address,
		Created: time.Now().UTC(),
	}

	return st.venueSeq, nil
}

func (r *catalogRepo) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	r.s.lock()
	defer r.s.unlock()

	v, ok := r.s.st.venues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &v, nil
}

func (r *catalogRepo) CreateEvent(ctx context.Context, venueID int64, title, description string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	if _, ok := st.venues[venueID]; !ok {
		return 0, repository.ErrNotFound
	}

	st.eventSeq++
	st.events[st.eventSeq] = domain.Event{
		ID:          st.eventSeq,
		VenueID:     venueID,
		Title:       title,
		Description: description,
		Created:     time.Now().UTC(),
	}

	return st.eventSeq, nil
}

func (r *catalogRepo) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	r.s.lock()
	defer r.s.unlock()

	e, ok := r.s.st.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &e, nil
}

func (r *catalogRepo) CreateOccurrence(ctx context.Context, o *domain.Occurrence) (int64, error) {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	if _, ok := st.events[o.EventID]; !ok {
		return 0, repository.ErrNotFound
	}

	now := time.Now().UTC()

	st.occurrenceSeq++
	cp := cloneOccurrence(*o)
	cp.ID = st.occurrenceSeq
	cp.Created = now
	cp.Updated = now
	st.occurrences[cp.ID] = cp

	return cp.ID, nil
}

func (r *catalogRepo) GetOccurrence(ctx context.Context, id int64) (*domain.Occurrence, error) {
	r.s.lock()
	defer r.s.unlock()

	return r.s.st.getOccurrence(id)
}

// getOccurrence expects the store lock to be held.
func (st *state) getOccurrence(id int64) (*domain.Occurrence, error) {
	o, ok := st.occurrences[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	o = cloneOccurrence(o)
	o.EventTitle = st.events[o.EventID].Title

	return &o, nil
}

func (r *catalogRepo) ListOccurrences(ctx context.Context, f repository.OccurrenceFilter) ([]domain.Occurrence, error) {
	r.s.lock()
	defer r.s.unlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	st := r.s.st

	var all []domain.Occurrence
	for _, o := range st.occurrences {
		if f.EventID != nil && o.EventID != *f.EventID {
			continue
		}
		if f.From != nil && o.Starts.Before(*f.From) {
			continue
		}

		o = cloneOccurrence(o)
		o.EventTitle = st.events[o.EventID].Title
		all = append(all, o)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Starts.Before(all[j].Starts) })

	if f.Offset >= len(all) {
		return nil, nil
	}
	all = all[f.Offset:]
	if len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (r *catalogRepo) SetOccurrenceStatus(ctx context.Context, id int64, status domain.OccurrenceStatus) error {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	o, ok := st.occurrences[id]
	if !ok {
		return repository.ErrNotFound
	}

	o = cloneOccurrence(o)
	o.Status = status
	o.Updated = time.Now().UTC()
	st.occurrences[id] = o

	return nil
}

type attendanceRepo struct {
	s *Store
}

func (r *attendanceRepo) Insert(ctx context.Context, a *domain.Attendance) error {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	for _, ex := range st.attendance {
		if ex.OccurrenceID != a.OccurrenceID {
			continue
		}
		if ex.AttendeeID == a.AttendeeID && ex.Status != domain.AttendanceCancelled {
			return repository.ErrConflict
		}
		if a.Status == domain.AttendanceWaitlist && ex.Status == domain.AttendanceWaitlist &&
			ex.WaitlistPosition != nil && a.WaitlistPosition != nil &&
			*ex.WaitlistPosition == *a.WaitlistPosition {
			return repository.ErrConflict
		}
	}

	st.attendance[a.ID] = cloneAttendance(*a)

	return nil
}

func (r *attendanceRepo) GetActive(ctx context.Context, occurrenceID, attendeeID int64) (*domain.Attendance, error) {
	r.s.lock()
	defer r.s.unlock()

	for _, a := range r.s.st.attendance {
		if a.OccurrenceID == occurrenceID && a.AttendeeID == attendeeID && a.Status != domain.AttendanceCancelled {
			a = cloneAttendance(a)
			return &a, nil
		}
	}

	return nil, repository.ErrNotFound
}

func (r *attendanceRepo) CountByStatus(ctx context.Context, occurrenceID int64, status domain.AttendanceStatus) (int, error) {
	r.s.lock()
	defer r.s.unlock()

	var n int
	for _, a := range r.s.st.attendance {
		if a.OccurrenceID == occurrenceID && a.Status == status {
			n++
		}
	}

	return n, nil
}

func (r *attendanceRepo) MaxWaitlistPosition(ctx context.Context, occurrenceID int64) (int, error) {
	r.s.lock()
	defer r.s.unlock()

	var max int
	for _, a := range r.s.st.attendance {
		if a.OccurrenceID == occurrenceID && a.Status == domain.AttendanceWaitlist &&
			a.WaitlistPosition != nil && *a.WaitlistPosition > max {
			max = *a.WaitlistPosition
		}
	}

	return max, nil
}

func (r *attendanceRepo) NextWaitlisted(ctx context.Context, occurrenceID int64) (*domain.Attendance, error) {
	r.s.lock()
	defer r.s.unlock()

	var next *domain.Attendance
	for _, a := range r.s.st.attendance {
		if a.OccurrenceID != occurrenceID || a.Status != domain.AttendanceWaitlist || a.WaitlistPosition == nil {
			continue
		}
		if next == nil || *a.WaitlistPosition < *next.WaitlistPosition {
			a = cloneAttendance(a)
			next = &a
		}
	}

	if next == nil {
		return nil, repository.ErrNotFound
	}

	return next, nil
}

func (r *attendanceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AttendanceStatus) error {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	a, ok := st.attendance[id]
	if !ok {
		return repository.ErrNotFound
	}

	a = cloneAttendance(a)
	a.Status = status
	a.WaitlistPosition = nil
	a.Updated = time.Now().UTC()
	st.attendance[id] = a

	return nil
}

func (r *attendanceRepo) ListByOccurrence(ctx context.Context, occurrenceID int64) ([]domain.Attendance, error) {
	r.s.lock()
	defer r.s.unlock()

	var out []domain.Attendance
	for _, a := range r.s.st.attendance {
		if a.OccurrenceID == occurrenceID {
			out = append(out, cloneAttendance(a))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return strings.Compare(string(out[i].Status), string(out[j].Status)) < 0
		}
		pi, pj := 0, 0
		if out[i].WaitlistPosition != nil {
			pi = *out[i].WaitlistPosition
		}
		if out[j].WaitlistPosition != nil {
			pj = *out[j].WaitlistPosition
		}
		if pi != pj {
			return pi < pj
		}
		return out[i].Created.Before(out[j].Created)
	})

	return out, nil
}

func (r *attendanceRepo) ListByAttendee(ctx context.Context, attendeeID int64, limit, offset int) ([]domain.AttendanceDetail, error) {
	r.s.lock()
	defer r.s.unlock()

	if limit <= 0 {
		limit = 50
	}

	st := r.s.st

	var out []domain.AttendanceDetail
	for _, a := range st.attendance {
		if a.AttendeeID != attendeeID {
			continue
		}

		occ, err := st.getOccurrence(a.OccurrenceID)
		if err != nil {
			return nil, err
		}

		out = append(out, domain.AttendanceDetail{
			Attendance: cloneAttendance(a),
			Occurrence: *occ,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Occurrence.Starts.After(out[j].Occurrence.Starts)
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

type inviteRepo struct {
	s *Store
}

func (r *inviteRepo) Create(ctx context.Context, inv *domain.HostInvite) error {
	r.s.lock()
	defer r.s.unlock()

	r.s.st.invites[inv.ID] = cloneInvite(*inv)

	return nil
}

func (r *inviteRepo) Get(ctx context.Context, id uuid.UUID) (*domain.HostInvite, error) {
	r.s.lock()
	defer r.s.unlock()

	inv, ok := r.s.st.invites[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	inv = cloneInvite(inv)

	return &inv, nil
}

func (r *inviteRepo) GetByTokenHash(ctx context.Context, hash string) (*domain.HostInvite, error) {
	r.s.lock()
	defer r.s.unlock()

	for _, inv := range r.s.st.invites {
		if inv.TokenHash == hash {
			inv = cloneInvite(inv)
			return &inv, nil
		}
	}

	return nil, repository.ErrNotFound
}

func (r *inviteRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.HostInvite, error) {
	r.s.lock()
	defer r.s.unlock()

	var out []domain.HostInvite
	for _, inv := range r.s.st.invites {
		if inv.EventID == eventID {
			out = append(out, cloneInvite(inv))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })

	return out, nil
}

func (r *inviteRepo) MarkUsed(ctx context.Context, id uuid.UUID, usedBy int64, at time.Time) error {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	inv, ok := st.invites[id]
	if !ok || inv.UsedAt != nil || inv.RevokedAt != nil {
		return repository.ErrConflict
	}

	inv = cloneInvite(inv)
	inv.UsedAt = &at
	inv.UsedBy = &usedBy
	st.invites[id] = inv

	return nil
}

func (r *inviteRepo) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	inv, ok := st.invites[id]
	if !ok || inv.RevokedAt != nil {
		return repository.ErrNotFound
	}

	inv = cloneInvite(inv)
	inv.RevokedAt = &at
	st.invites[id] = inv

	return nil
}

func (r *inviteRepo) GrantHost(ctx context.Context, eventID, userID int64) error {
	r.s.lock()
	defer r.s.unlock()

	r.s.st.hosts[hostKey{eventID: eventID, userID: userID}] = struct{}{}

	return nil
}

func (r *inviteRepo) IsHost(ctx context.Context, eventID, userID int64) (bool, error) {
	r.s.lock()
	defer r.s.unlock()

	_, ok := r.s.st.hosts[hostKey{eventID: eventID, userID: userID}]

	return ok, nil
}

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	r.s.lock()
	defer r.s.unlock()

	r.s.st.notifications[n.ID] = cloneNotification(*n)

	return nil
}

func (r *notificationRepo) ListByAttendee(ctx context.Context, attendeeID int64, limit int) ([]domain.Notification, error) {
	r.s.lock()
	defer r.s.unlock()

	if limit <= 0 {
		limit = 50
	}

	var out []domain.Notification
	for _, n := range r.s.st.notifications {
		if n.AttendeeID == attendeeID {
			out = append(out, cloneNotification(n))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID, attendeeID int64, at time.Time) error {
	r.s.lock()
	defer r.s.unlock()

	st := r.s.st
	n, ok := st.notifications[id]
	if !ok || n.AttendeeID != attendeeID || n.ReadAt != nil {
		return repository.ErrNotFound
	}

	n = cloneNotification(n)
	n.ReadAt = &at
	st.notifications[id] = n

	return nil
}
