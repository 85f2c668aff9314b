package invites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/memory"
)

func strp(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *memory.Store, int64) {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()

	venueID, err := store.Catalog().CreateVenue(ctx, "Skylark Lounge", "140 S Broadway")
	if err != nil {
		t.Fatalf("CreateVenue() error = %v", err)
	}
	eventID, err := store.Catalog().CreateEvent(ctx, venueID, "Songwriter Showcase", "")
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	return New(store), store, eventID
}

func TestCreateInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the token once and stores only its hash", func(t *testing.T) {
		svc, store, eventID := newTestService(t)

		token, inv, err := svc.CreateInvite(ctx, eventID, 1, nil, 0)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}
		if token == "" {
			t.Fatal("token is empty")
		}
		if inv.TokenHash == token {
			t.Error("token stored in the clear")
		}
		if inv.ExpiresAt != nil {
			t.Errorf("ExpiresAt = %v, want nil for ttl 0", inv.ExpiresAt)
		}

		stored, err := store.Invites().Get(ctx, inv.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if stored.TokenHash != hashToken(token) {
			t.Error("stored hash does not match the issued token")
		}
	})

	t.Run("sets an expiry from the ttl", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		before := time.Now().UTC()
		_, inv, err := svc.CreateInvite(ctx, eventID, 1, nil, 48*time.Hour)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}
		if inv.ExpiresAt == nil {
			t.Fatal("ExpiresAt = nil, want a deadline")
		}
		if inv.ExpiresAt.Before(before.Add(47 * time.Hour)) {
			t.Errorf("ExpiresAt = %v, want roughly 48h out", inv.ExpiresAt)
		}
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if _, _, err := svc.CreateInvite(ctx, 9999, 1, nil, 0); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("error = %v, want ErrEventNotFound", err)
		}
	})
}

func TestClaimInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("grants the host role", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		token, _, err := svc.CreateInvite(ctx, eventID, 1, nil, 0)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}

		inv, err := svc.ClaimInvite(ctx, token, 7, "sam@example.com")
		if err != nil {
			t.Fatalf("ClaimInvite() error = %v", err)
		}
		if inv.UsedAt == nil || inv.UsedBy == nil || *inv.UsedBy != 7 {
			t.Errorf("claimed invite = %+v, want UsedAt and UsedBy set", inv)
		}

		ok, err := svc.IsHost(ctx, eventID, 7)
		if err != nil {
			t.Fatalf("IsHost() error = %v", err)
		}
		if !ok {
			t.Error("IsHost() = false after claim, want true")
		}
	})

	t.Run("rejects a second claim", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		token, _, err := svc.CreateInvite(ctx, eventID, 1, nil, 0)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}

		if _, err := svc.ClaimInvite(ctx, token, 7, ""); err != nil {
			t.Fatalf("first ClaimInvite() error = %v", err)
		}
		if _, err := svc.ClaimInvite(ctx, token, 8, ""); !errors.Is(err, ErrInviteUsed) {
			t.Errorf("second ClaimInvite() error = %v, want ErrInviteUsed", err)
		}
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if _, err := svc.ClaimInvite(ctx, "no-such-token", 7, ""); !errors.Is(err, ErrInviteNotFound) {
			t.Errorf("error = %v, want ErrInviteNotFound", err)
		}
	})

	t.Run("rejects revoked invite", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		token, inv, err := svc.CreateInvite(ctx, eventID, 1, nil, 0)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}
		if err := svc.RevokeInvite(ctx, inv.ID); err != nil {
			t.Fatalf("RevokeInvite() error = %v", err)
		}

		if _, err := svc.ClaimInvite(ctx, token, 7, ""); !errors.Is(err, ErrInviteRevoked) {
			t.Errorf("error = %v, want ErrInviteRevoked", err)
		}
	})

	t.Run("rejects expired invite", func(t *testing.T) {
		svc, store, eventID := newTestService(t)

		// write the record directly so the deadline can sit in the past
		past := time.Now().UTC().Add(-time.Hour)
		inv := &domain.HostInvite{
			ID:        uuid.New(),
			EventID:   eventID,
			TokenHash: hashToken("stale-token"),
			ExpiresAt: &past,
			CreatedBy: 1,
			Created:   past.Add(-time.Hour),
		}
		if err := store.Invites().Create(ctx, inv); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if _, err := svc.ClaimInvite(ctx, "stale-token", 7, ""); !errors.Is(err, ErrInviteExpired) {
			t.Errorf("error = %v, want ErrInviteExpired", err)
		}
	})

	t.Run("enforces the email restriction case-insensitively", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		token, _, err := svc.CreateInvite(ctx, eventID, 1, strp("Host@Example.com"), 0)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}

		if _, err := svc.ClaimInvite(ctx, token, 7, "someone-else@example.com"); !errors.Is(err, ErrEmailMismatch) {
			t.Errorf("mismatched email error = %v, want ErrEmailMismatch", err)
		}

		if _, err := svc.ClaimInvite(ctx, token, 7, "HOST@EXAMPLE.COM"); err != nil {
			t.Errorf("matching email error = %v, want nil", err)
		}
	})
}

func TestRevokeInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		_, inv, err := svc.CreateInvite(ctx, eventID, 1, nil, 0)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}

		if err := svc.RevokeInvite(ctx, inv.ID); err != nil {
			t.Fatalf("first RevokeInvite() error = %v", err)
		}
		if err := svc.RevokeInvite(ctx, inv.ID); err != nil {
			t.Errorf("second RevokeInvite() error = %v, want nil", err)
		}
	})

	t.Run("cannot revoke a claimed invite", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		token, inv, err := svc.CreateInvite(ctx, eventID, 1, nil, 0)
		if err != nil {
			t.Fatalf("CreateInvite() error = %v", err)
		}
		if _, err := svc.ClaimInvite(ctx, token, 7, ""); err != nil {
			t.Fatalf("ClaimInvite() error = %v", err)
		}

		if err := svc.RevokeInvite(ctx, inv.ID); !errors.Is(err, ErrInviteUsed) {
			t.Errorf("error = %v, want ErrInviteUsed", err)
		}
	})

	t.Run("unknown invite", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if err := svc.RevokeInvite(ctx, uuid.New()); !errors.Is(err, ErrInviteNotFound) {
			t.Errorf("error = %v, want ErrInviteNotFound", err)
		}
	})
}

func TestListInvites(t *testing.T) {
	ctx := context.Background()

	t.Run("lists all invites for the event", func(t *testing.T) {
		svc, _, eventID := newTestService(t)

		for i := 0; i < 3; i++ {
			if _, _, err := svc.CreateInvite(ctx, eventID, 1, nil, 0); err != nil {
				t.Fatalf("CreateInvite() error = %v", err)
			}
		}

		list, err := svc.ListInvites(ctx, eventID)
		if err != nil {
			t.Fatalf("ListInvites() error = %v", err)
		}
		if len(list) != 3 {
			t.Errorf("len = %d, want 3", len(list))
		}
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if _, err := svc.ListInvites(ctx, 9999); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("error = %v, want ErrEventNotFound", err)
		}
	})
}
