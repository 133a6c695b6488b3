package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryGetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v; want ErrNotFound", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Get(ctx, "k"); err != nil || got != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after remove = %v", err)
	}
}

func TestUpdateCommitsAllWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "gone", "x")

	err := s.Update(ctx, func(tx Tx) error {
		if err := tx.Set(ctx, "a", "1"); err != nil {
			return err
		}
		if err := tx.Remove(ctx, "gone"); err != nil {
			return err
		}
		if v, err := tx.Get(ctx, "a"); err != nil || v != "1" {
			t.Errorf("read own write = %q, %v", v, err)
		}
		if _, err := tx.Get(ctx, "gone"); !errors.Is(err, ErrNotFound) {
			t.Errorf("read own remove = %v", err)
		}
		return tx.Set(ctx, "b", "2")
	})
	if err != nil {
		t.Fatal(err)
	}
	for k, want := range map[string]string{"a": "1", "b": "2"} {
		if got, _ := s.Get(ctx, k); got != want {
			t.Errorf("%s = %q; want %q", k, got, want)
		}
	}
	if _, err := s.Get(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("gone still present")
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "balance", "100")
	boom := errors.New("boom")

	err := s.Update(ctx, func(tx Tx) error {
		_ = tx.Set(ctx, "balance", "0")
		_ = tx.Set(ctx, "reservation", "paid")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update = %v; want boom", err)
	}
	if got, _ := s.Get(ctx, "balance"); got != "100" {
		t.Errorf("balance = %q; want 100", got)
	}
	if _, err := s.Get(ctx, "reservation"); !errors.Is(err, ErrNotFound) {
		t.Errorf("reservation written despite rollback")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var out []int
	found, err := GetJSON(ctx, s, "nums", &out)
	if err != nil || found {
		t.Fatalf("GetJSON missing = %v, %v", found, err)
	}
	if err := SetJSON(ctx, s, "nums", []int{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	found, err = GetJSON(ctx, s, "nums", &out)
	if err != nil || !found || len(out) != 3 {
		t.Fatalf("GetJSON = %v, %v, %v", out, found, err)
	}

	_ = s.Set(ctx, "broken", "{")
	if _, err := GetJSON(ctx, s, "broken", &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	unlock, err := l.Lock(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Lock(ctx, "u1"); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Lock = %v; want ErrLocked", err)
	}
	if _, err := l.Lock(ctx, "u2"); err != nil {
		t.Fatalf("other key: %v", err)
	}
	unlock()
	if _, err := l.Lock(ctx, "u1"); err != nil {
		t.Fatalf("Lock after unlock: %v", err)
	}
}

func TestLockWaitBlocksUntilReleased(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	unlock, err := l.Lock(ctx, "users")
	if err != nil {
		t.Fatal(err)
	}
	acquired := make(chan struct{})
	go func() {
		release, err := LockWait(ctx, l, "users")
		if err != nil {
			t.Error(err)
			close(acquired)
			return
		}
		release()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("LockWait returned while the lock was held")
	case <-time.After(30 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("LockWait did not acquire after release")
	}
}

func TestLockWaitHonoursContext(t *testing.T) {
	l := NewLocalLocker()
	if _, err := l.Lock(context.Background(), "users"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := LockWait(ctx, l, "users"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("LockWait = %v; want deadline exceeded", err)
	}
}
