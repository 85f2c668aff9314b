package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/memory"
)

// doubleRunStore runs the transaction body twice, the way a store retrying
// a serialization failure would, and commits only the second attempt.
type doubleRunStore struct {
	repository.Store
}

func (s *doubleRunStore) RunTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if err := fn(ctx, s); err != nil {
		return err
	}
	return fn(ctx, s)
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("hooks fire after commit in order", func(t *testing.T) {
		u := NewUoW(memory.NewStore())

		var seq []string
		err := u.Do(ctx, func(ctx context.Context, tx repository.Store, after func(AfterCommit)) error {
			after(func(ctx context.Context) { seq = append(seq, "first") })
			after(func(ctx context.Context) { seq = append(seq, "second") })
			seq = append(seq, "body")
			return nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}

		want := []string{"body", "first", "second"}
		if len(seq) != len(want) {
			t.Fatalf("seq = %v, want %v", seq, want)
		}
		for i := range want {
			if seq[i] != want[i] {
				t.Fatalf("seq = %v, want %v", seq, want)
			}
		}
	})

	t.Run("failed transaction drops its hooks", func(t *testing.T) {
		u := NewUoW(memory.NewStore())
		boom := errors.New("boom")

		fired := false
		err := u.Do(ctx, func(ctx context.Context, tx repository.Store, after func(AfterCommit)) error {
			after(func(ctx context.Context) { fired = true })
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Do() error = %v, want boom", err)
		}
		if fired {
			t.Error("hook fired even though the transaction failed")
		}
	})

	t.Run("only the committed attempt's hooks fire", func(t *testing.T) {
		u := NewUoW(&doubleRunStore{})

		fires := 0
		err := u.Do(ctx, func(ctx context.Context, tx repository.Store, after func(AfterCommit)) error {
			after(func(ctx context.Context) { fires++ })
			return nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}

		if fires != 1 {
			t.Errorf("hook fired %d times, want 1", fires)
		}
	})
}
