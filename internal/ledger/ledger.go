// Package ledger keeps each user's credit balance and the append-only list of
// wallet transactions.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/gateway"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req gateway.Request) (*gateway.Result, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message string)
}

// Entry describes a balance movement before it gets an id and a date.
type Entry struct {
	UserID        string
	Amount        int64
	Description   string
	Category      string
	ReservationID string
}

type Ledger struct {
	store    store.Store
	locker   store.Locker
	payments PaymentProcessor
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

func New(s store.Store, locker store.Locker, payments PaymentProcessor, notifier Notifier, log *logger.Logger) *Ledger {
	return &Ledger{
		store:    s,
		locker:   locker,
		payments: payments,
		notifier: notifier,
		log:      log.WithComponent("ledger"),
		now:      time.Now,
	}
}

func (l *Ledger) Balance(ctx context.Context, userID string) (int64, error) {
	return BalanceIn(ctx, l.store, userID)
}

// SetBalance overwrites the balance. Sufficiency checks are the caller's job.
func (l *Ledger) SetBalance(ctx context.Context, userID string, value int64) error {
	return SetBalanceIn(ctx, l.store, userID, value)
}

func (l *Ledger) AppendTransaction(ctx context.Context, tx models.Transaction) error {
	return l.store.Update(ctx, func(stx store.Tx) error {
		return AppendTransactionIn(ctx, stx, tx)
	})
}

// Transactions returns the user's ledger, newest first.
func (l *Ledger) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if _, err := store.GetJSON(ctx, l.store, store.TransactionsKey(userID), &txs); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// Debit subtracts e.Amount inside tx and records the matching debit entry.
func (l *Ledger) Debit(ctx context.Context, tx store.Tx, e Entry) (*models.Transaction, error) {
	return l.move(ctx, tx, models.TransactionDebit, e)
}

// Credit adds e.Amount inside tx and records the matching credit entry.
func (l *Ledger) Credit(ctx context.Context, tx store.Tx, e Entry) (*models.Transaction, error) {
	return l.move(ctx, tx, models.TransactionCredit, e)
}

func (l *Ledger) move(ctx context.Context, tx store.Tx, typ models.TransactionType, e Entry) (*models.Transaction, error) {
	balance, err := BalanceIn(ctx, tx, e.UserID)
	if err != nil {
		return nil, err
	}
	if typ == models.TransactionDebit {
		balance -= e.Amount
	} else {
		balance += e.Amount
	}
	if err := SetBalanceIn(ctx, tx, e.UserID, balance); err != nil {
		return nil, err
	}

	entry := models.Transaction{
		ID:                   uuid.NewString(),
		UserID:               e.UserID,
		Type:                 typ,
		Amount:               e.Amount,
		Date:                 l.now(),
		Description:          e.Description,
		Category:             e.Category,
		RelatedReservationID: e.ReservationID,
		Status:               "completed",
	}
	if err := AppendTransactionIn(ctx, tx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Recharge charges amount through the gateway and credits the wallet on
// success. A failed charge leaves balance and ledger untouched.
func (l *Ledger) Recharge(ctx context.Context, userID string, amount int64, gatewayID string) (*models.Transaction, *gateway.Result, error) {
	unlock, err := l.locker.Lock(ctx, store.UserLockName(userID))
	if errors.Is(err, store.ErrLocked) {
		return nil, nil, &apperrors.ConflictError{Resource: "wallet"}
	}
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	res, err := l.payments.ProcessPayment(ctx, gateway.Request{
		GatewayID:   gatewayID,
		Amount:      amount,
		UserID:      userID,
		Description: "wallet recharge",
	})
	if err != nil {
		l.log.Warn("Recharge failed", "user_id", userID, "amount", amount, "error", err)
		return nil, nil, err
	}

	var credit *models.Transaction
	err = l.store.Update(ctx, func(tx store.Tx) error {
		credit, err = l.Credit(ctx, tx, Entry{
			UserID:      userID,
			Amount:      amount,
			Description: fmt.Sprintf("Wallet recharge via %s (ref %s)", res.GatewayID, res.ReferenceNumber),
			Category:    models.CategoryRecharge,
		})
		return err
	})
	if err != nil {
		l.log.Error("Recharge charged but not credited", "user_id", userID, "transaction_id", res.TransactionID, "error", err)
		return nil, nil, fmt.Errorf("credit wallet: %w", err)
	}

	l.log.Info("Wallet recharged", "user_id", userID, "amount", amount)
	if l.notifier != nil {
		l.notifier.Notify(ctx, userID, "wallet.recharged", "Wallet recharged",
			fmt.Sprintf("%d toman was added to your wallet.", amount))
	}
	return credit, res, nil
}

func BalanceIn(ctx context.Context, tx store.Tx, userID string) (int64, error) {
	raw, err := tx.Get(ctx, store.BalanceKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse balance %q: %w", raw, err)
	}
	return v, nil
}

func SetBalanceIn(ctx context.Context, tx store.Tx, userID string, value int64) error {
	return tx.Set(ctx, store.BalanceKey(userID), strconv.FormatInt(value, 10))
}

// AppendTransactionIn prepends t to the user's ledger.
func AppendTransactionIn(ctx context.Context, tx store.Tx, t models.Transaction) error {
	var txs []models.Transaction
	if _, err := store.GetJSON(ctx, tx, store.TransactionsKey(t.UserID), &txs); err != nil {
		return err
	}
	txs = append([]models.Transaction{t}, txs...)
	return store.SetJSON(ctx, tx, store.TransactionsKey(t.UserID), txs)
}
