package invites

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/uow"
)

const tokenBytes = 16

// Service issues and redeems host invites. An invite carries a one-time
// token whose SHA-256 hash is the only thing stored; claiming it grants
// the host role on the invite's event.
type Service struct {
	store repository.Store
	uow   *uow.UoW
}

func New(store repository.Store) *Service {
	return &Service{
		store: store,
		uow:   uow.NewUoW(store),
	}
}

// CreateInvite mints an invite for the event. The returned token is shown
// exactly once; only its hash survives. email, when non-nil, restricts
// who may claim. ttl of zero means the invite never expires.
//
// Returns:
//   - string: the raw claim token.
//   - *domain.HostInvite: the stored record.
//   - error: invites.ErrEventNotFound when the event does not exist.
func (s *Service) CreateInvite(ctx context.Context, eventID, createdBy int64, email *string, ttl time.Duration) (string, *domain.HostInvite, error) {
	const op = "service.invites.CreateInvite"

	if _, err := s.store.Catalog().GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("%s:%w", op, ErrEventNotFound)
		}

		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	token, err := newToken()
	if err != nil {
		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	var expires *time.Time
	if ttl > 0 {
		t := time.Now().UTC().Add(ttl)
		expires = &t
	}

	inv := &domain.HostInvite{
		ID:        uuid.New(),
		EventID:   eventID,
		TokenHash: hashToken(token),
		Email:     email,
		ExpiresAt: expires,
		CreatedBy: createdBy,
		Created:   time.Now().UTC(),
	}

	if err := s.store.Invites().Create(ctx, inv); err != nil {
		return "", nil, fmt.Errorf("%s:%w", op, err)
	}

	return token, inv, nil
}

// ClaimInvite redeems a token for userID and grants the host role on the
// invite's event. The mark-used write is guarded so two concurrent claims
// of the same token cannot both succeed.
//
// Returns:
//   - *domain.HostInvite: the claimed record.
//   - error: invites.ErrInviteNotFound, ErrInviteRevoked, ErrInviteExpired,
//     ErrInviteUsed or ErrEmailMismatch.
func (s *Service) ClaimInvite(ctx context.Context, token string, userID int64, email string) (*domain.HostInvite, error) {
	const op = "service.invites.ClaimInvite"

	hash := hashToken(token)
	now := time.Now().UTC()

	var inv *domain.HostInvite

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Store, after func(uow.AfterCommit)) error {
		var err error

		inv, err = tx.Invites().GetByTokenHash(ctx, hash)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrInviteNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		switch {
		case inv.RevokedAt != nil:
			return fmt.Errorf("%s:%w", op, ErrInviteRevoked)
		case inv.ExpiresAt != nil && inv.ExpiresAt.Before(now):
			return fmt.Errorf("%s:%w", op, ErrInviteExpired)
		case inv.UsedAt != nil:
			return fmt.Errorf("%s:%w", op, ErrInviteUsed)
		case inv.Email != nil && !strings.EqualFold(*inv.Email, email):
			return fmt.Errorf("%s:%w", op, ErrEmailMismatch)
		}

		if err := tx.Invites().MarkUsed(ctx, inv.ID, userID, now); err != nil {
			// the guarded update lost a race with another claim
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrInviteUsed)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if err := tx.Invites().GrantHost(ctx, inv.EventID, userID); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		inv.UsedAt = &now
		inv.UsedBy = &userID

		return nil
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// RevokeInvite withdraws an unclaimed invite. Revoking an already-revoked
// invite is a no-op.
//
// Returns:
//   - error: invites.ErrInviteNotFound or ErrInviteUsed.
func (s *Service) RevokeInvite(ctx context.Context, id uuid.UUID) error {
	const op = "service.invites.RevokeInvite"

	inv, err := s.store.Invites().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrInviteNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	if inv.RevokedAt != nil {
		return nil
	}
	if inv.UsedAt != nil {
		return fmt.Errorf("%s:%w", op, ErrInviteUsed)
	}

	if err := s.store.Invites().Revoke(ctx, id, time.Now().UTC()); err != nil {
		// raced with another revoke, same outcome
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// ListInvites returns every invite minted for the event, newest first.
func (s *Service) ListInvites(ctx context.Context, eventID int64) ([]domain.HostInvite, error) {
	const op = "service.invites.ListInvites"

	if _, err := s.store.Catalog().GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrEventNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	list, err := s.store.Invites().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return list, nil
}

// IsHost reports whether userID holds the host role on the event.
func (s *Service) IsHost(ctx context.Context, eventID, userID int64) (bool, error) {
	const op = "service.invites.IsHost"

	ok, err := s.store.Invites().IsHost(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, err)
	}

	return ok, nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
