package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/gateway"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

type stubProcessor struct {
	err   error
	calls int
}

func (p *stubProcessor) ProcessPayment(_ context.Context, req gateway.Request) (*gateway.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &gateway.Result{
		TransactionID:   "TXN_1",
		ReferenceNumber: "261015000001",
		GatewayID:       req.GatewayID,
		Amount:          req.Amount,
		Fee:             1000,
		FinalAmount:     req.Amount + 1000,
	}, nil
}

type recordingNotifier struct {
	kinds []string
}

func (n *recordingNotifier) Notify(_ context.Context, _, kind, _, _ string) {
	n.kinds = append(n.kinds, kind)
}

func newTestLedger(p PaymentProcessor, n Notifier) (*Ledger, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return New(s, store.NewLocalLocker(), p, n, logger.Discard()), s
}

func TestBalanceDefaultsToZero(t *testing.T) {
	l, _ := newTestLedger(&stubProcessor{}, nil)
	got, err := l.Balance(context.Background(), "u1")
	if err != nil || got != 0 {
		t.Fatalf("Balance = %d, %v", got, err)
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(&stubProcessor{}, nil)

	for _, id := range []string{"a", "b", "c"} {
		if err := l.AppendTransaction(ctx, models.Transaction{ID: id, UserID: "u1"}); err != nil {
			t.Fatal(err)
		}
	}
	txs, err := l.Transactions(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 3 || txs[0].ID != "c" || txs[2].ID != "a" {
		t.Fatalf("order = %+v", txs)
	}
}

func TestDebitAllowsNegativeBalance(t *testing.T) {
	ctx := context.Background()
	l, s := newTestLedger(&stubProcessor{}, nil)
	if err := l.SetBalance(ctx, "u1", 1000); err != nil {
		t.Fatal(err)
	}
	err := s.Update(ctx, func(tx store.Tx) error {
		_, err := l.Debit(ctx, tx, Entry{UserID: "u1", Amount: 5000, Category: models.CategoryMeal})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := l.Balance(ctx, "u1"); got != -4000 {
		t.Fatalf("balance = %d; want -4000", got)
	}
}

func TestRechargeCreditsOnce(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	l, _ := newTestLedger(&stubProcessor{}, n)
	if err := l.SetBalance(ctx, "u1", 10000); err != nil {
		t.Fatal(err)
	}

	credit, res, err := l.Recharge(ctx, "u1", 50000, "zarinpal")
	if err != nil {
		t.Fatalf("Recharge: %v", err)
	}
	if res.FinalAmount != 51000 {
		t.Errorf("final amount = %d", res.FinalAmount)
	}
	if credit.Type != models.TransactionCredit || credit.Amount != 50000 || credit.Category != models.CategoryRecharge {
		t.Errorf("credit = %+v", credit)
	}
	if got, _ := l.Balance(ctx, "u1"); got != 60000 {
		t.Errorf("balance = %d; want 60000", got)
	}
	txs, _ := l.Transactions(ctx, "u1")
	if len(txs) != 1 {
		t.Errorf("transactions = %d; want 1", len(txs))
	}
	if len(n.kinds) != 1 || n.kinds[0] != "wallet.recharged" {
		t.Errorf("notifications = %v", n.kinds)
	}
}

func TestRechargeFailureLeavesWalletAlone(t *testing.T) {
	ctx := context.Background()
	p := &stubProcessor{err: &apperrors.PaymentError{Kind: gateway.ErrCardBlocked, GatewayID: "zarinpal"}}
	l, _ := newTestLedger(p, nil)
	if err := l.SetBalance(ctx, "u1", 10000); err != nil {
		t.Fatal(err)
	}

	_, _, err := l.Recharge(ctx, "u1", 50000, "zarinpal")
	var pe *apperrors.PaymentError
	if !errors.As(err, &pe) || pe.Kind != gateway.ErrCardBlocked {
		t.Fatalf("expected card-blocked, got %v", err)
	}
	if got, _ := l.Balance(ctx, "u1"); got != 10000 {
		t.Errorf("balance = %d; want 10000", got)
	}
	if txs, _ := l.Transactions(ctx, "u1"); len(txs) != 0 {
		t.Errorf("transactions = %d; want 0", len(txs))
	}
}

func TestRechargeRejectsConcurrentWalletAction(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	locker := store.NewLocalLocker()
	p := &stubProcessor{}
	l := New(s, locker, p, nil, logger.Discard())

	unlock, err := locker.Lock(ctx, store.UserLockName("u1"))
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	_, _, err = l.Recharge(ctx, "u1", 50000, "zarinpal")
	var ce *apperrors.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if p.calls != 0 {
		t.Errorf("gateway called %d times", p.calls)
	}
}
