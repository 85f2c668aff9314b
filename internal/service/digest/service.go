package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/mail"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

type Config struct {
	// Lookahead is how far ahead of now the digest window reaches.
	Lookahead time.Duration
	Recipient string
	Subject   string
}

// Service mails a plain-text digest of upcoming occurrences to the
// organizers' list.
type Service struct {
	store  repository.Store
	sender mail.Sender
	logger *slog.Logger
	cfg    Config
}

// New builds the digest service. sender may be nil, in which case digests
// are composed but never sent.
func New(store repository.Store, sender mail.Sender, logger *slog.Logger, cfg Config) *Service {
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 7 * 24 * time.Hour
	}
	if cfg.Subject == "" {
		cfg.Subject = "Upcoming at the Collective"
	}

	return &Service{
		store:  store,
		sender: sender,
		logger: logger,
		cfg:    cfg,
	}
}

// Run sends a digest every interval until ctx is cancelled. Send failures
// are logged and the loop keeps going.
func (s *Service) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.SendDigest(ctx); err != nil {
				s.logger.Error("digest send failed", "error", err)
			}
		}
	}
}

// SendDigest composes and mails the digest for the configured window. It
// is a no-op when the window holds no active occurrences or when no
// sender or recipient is configured.
func (s *Service) SendDigest(ctx context.Context) error {
	const op = "service.digest.SendDigest"

	now := time.Now().UTC()
	until := now.Add(s.cfg.Lookahead)

	list, err := s.store.Catalog().ListOccurrences(ctx, repository.OccurrenceFilter{From: &now})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var upcoming []domain.Occurrence
	for _, occ := range list {
		if occ.Status != domain.OccurrenceActive || occ.Starts.After(until) {
			continue
		}
		upcoming = append(upcoming, occ)
	}

	if len(upcoming) == 0 {
		return nil
	}
	if s.sender == nil || s.cfg.Recipient == "" {
		s.logger.Info("digest composed but mail is not configured", "occurrences", len(upcoming))
		return nil
	}

	body := Compose(upcoming, now, until)

	if err := s.sender.Send(ctx, s.cfg.Recipient, s.cfg.Subject, body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("digest sent", "recipient", s.cfg.Recipient, "occurrences", len(upcoming))

	return nil
}

// Compose renders the digest body: one bullet per occurrence with start
// time, title and seat availability.
func Compose(upcoming []domain.Occurrence, from, until time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Coming up between %s and %s:\n\n",
		from.Format("Jan 2"), until.Format("Jan 2"))

	for _, occ := range upcoming {
		fmt.Fprintf(&b, "  * %s  %s", occ.Starts.Format("Mon Jan 2, 3:04 PM"), occ.EventTitle)

		switch {
		case occ.Capacity == nil:
			b.WriteString("  (open attendance)")
		default:
			fmt.Fprintf(&b, "  (capacity %d)", *occ.Capacity)
		}

		b.WriteString("\n")
	}

	b.WriteString("\nSee the full calendar on the site.\n")

	return b.String()
}
