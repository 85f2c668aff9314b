package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

type InviteRepo struct {
	db DB
}

const inviteColumns = `id, event_id, token_hash, email, expires_at, created_by, created_at, revoked_at, used_at, used_by`

// Create persists a host invite. Only the hash of the invite token is
// stored, never the token itself.
func (r *InviteRepo) Create(ctx context.Context, inv *domain.HostInvite) error {
	const op = "postgres.InviteRepo.Create"

	_, err := r.db.Exec(ctx,
		`INSERT INTO host_invites (id, event_id, token_hash, email, expires_at, created_by, created_at)
	   	 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.EventID, inv.TokenHash, inv.Email, inv.ExpiresAt, inv.CreatedBy, inv.Created,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Get retrieves an invite by its ID.
//
// Returns:
//   - *domain.HostInvite: the invite when found.
//   - error: repository.ErrNotFound if the invite is not found.
func (r *InviteRepo) Get(ctx context.Context, id uuid.UUID) (*domain.HostInvite, error) {
	const op = "postgres.InviteRepo.Get"

	inv, err := scanInvite(r.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM host_invites WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return inv, nil
}

// GetByTokenHash retrieves an invite by the hash of its token.
//
// Returns:
//   - *domain.HostInvite: the invite when found.
//   - error: repository.ErrNotFound if no invite matches the hash.
func (r *InviteRepo) GetByTokenHash(ctx context.Context, hash string) (*domain.HostInvite, error) {
	const op = "postgres.InviteRepo.GetByTokenHash"

	inv, err := scanInvite(r.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM host_invites WHERE token_hash = $1`,
		hash,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return inv, nil
}

// ListByEvent lists the invites issued for an event, newest first.
func (r *InviteRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.HostInvite, error) {
	const op = "postgres.InviteRepo.ListByEvent"

	rows, err := r.db.Query(ctx,
		`SELECT `+inviteColumns+`
	   	 FROM host_invites
	   	 WHERE event_id = $1
	   	 ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.HostInvite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// MarkUsed claims an invite. The guarded UPDATE makes the claim
// exactly-once: a second caller finds used_at already set and gets
// repository.ErrConflict.
func (r *InviteRepo) MarkUsed(ctx context.Context, id uuid.UUID, usedBy int64, at time.Time) error {
	const op = "postgres.InviteRepo.MarkUsed"

	ct, err := r.db.Exec(ctx,
		`UPDATE host_invites
	   	 SET used_at = $2, used_by = $3
	   	 WHERE id = $1 AND used_at IS NULL AND revoked_at IS NULL`,
		id, at, usedBy,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrConflict)
	}

	return nil
}

// Revoke withdraws an unused invite.
//
// Returns:
//   - error: repository.ErrNotFound if the invite is missing or already
//     revoked.
func (r *InviteRepo) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "postgres.InviteRepo.Revoke"

	ct, err := r.db.Exec(ctx,
		`UPDATE host_invites
	   	 SET revoked_at = $2
	   	 WHERE id = $1 AND revoked_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// GrantHost records a user as host of an event. Granting twice is a no-op.
func (r *InviteRepo) GrantHost(ctx context.Context, eventID, userID int64) error {
	const op = "postgres.InviteRepo.GrantHost"

	_, err := r.db.Exec(ctx,
		`INSERT INTO event_hosts (event_id, user_id)
	   	 VALUES ($1, $2)
	   	 ON CONFLICT DO NOTHING`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// IsHost reports whether a user hosts an event.
func (r *InviteRepo) IsHost(ctx context.Context, eventID, userID int64) (bool, error) {
	const op = "postgres.InviteRepo.IsHost"

	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
	       	SELECT 1 FROM event_hosts WHERE event_id = $1 AND user_id = $2
	   	 )`,
		eventID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return ok, nil
}

func scanInvite(row rowScanner) (*domain.HostInvite, error) {
	var inv domain.HostInvite

	if err := row.Scan(
		&inv.ID,
		&inv.EventID,
		&inv.TokenHash,
		&inv.Email,
		&inv.ExpiresAt,
		&inv.CreatedBy,
		&inv.Created,
		&inv.RevokedAt,
		&inv.UsedAt,
		&inv.UsedBy,
	); err != nil {
		return nil, err
	}

	return &inv, nil
}
