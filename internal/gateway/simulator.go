// Package gateway emulates an external payment processor: it validates a
// request, waits the gateway's processing time and settles the payment with a
// random outcome. No network call is made.
package gateway

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

const (
	MinAmount int64 = 10000
	MaxAmount int64 = 200000
)

const (
	ErrInsufficientFunds  = "insufficient-funds"
	ErrCardBlocked        = "card-blocked"
	ErrGatewayTimeout     = "gateway-timeout"
	ErrInvalidTransaction = "invalid-transaction"
	ErrDailyLimitExceeded = "daily-limit-exceeded"
)

var ErrorKinds = []string{
	ErrInsufficientFunds,
	ErrCardBlocked,
	ErrGatewayTimeout,
	ErrInvalidTransaction,
	ErrDailyLimitExceeded,
}

type Request struct {
	GatewayID   string `json:"gateway_id"`
	Amount      int64  `json:"amount"`
	UserID      string `json:"user_id"`
	Description string `json:"description"`
}

type Result struct {
	TransactionID   string    `json:"transaction_id"`
	ReferenceNumber string    `json:"reference_number"`
	GatewayID       string    `json:"gateway_id"`
	Amount          int64     `json:"amount"`
	Fee             int64     `json:"fee"`
	FinalAmount     int64     `json:"final_amount"`
	CompletedAt     time.Time `json:"completed_at"`
}

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Random is the subset of *rand.Rand the simulator draws from.
type Random interface {
	IntN(n int) int
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int   { return rand.IntN(n) }
func (globalRandom) Float64() float64 { return rand.Float64() }

type Option func(*Simulator)

func WithRandom(r Random) Option {
	return func(s *Simulator) { s.rand = r }
}

func WithSleep(fn func(time.Duration)) Option {
	return func(s *Simulator) { s.sleep = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func WithGateways(gateways []models.PaymentGateway) Option {
	return func(s *Simulator) { s.setGateways(gateways) }
}

type Simulator struct {
	store    store.Store
	log      *logger.Logger
	gateways map[string]models.PaymentGateway
	order    []string
	rand     Random
	sleep    func(time.Duration)
	now      func() time.Time
}

func New(s store.Store, log *logger.Logger, opts ...Option) *Simulator {
	sim := &Simulator{
		store: s,
		log:   log.WithComponent("payment_gateway"),
		rand:  globalRandom{},
		sleep: time.Sleep,
		now:   time.Now,
	}
	sim.setGateways(DefaultGateways())
	for _, opt := range opts {
		opt(sim)
	}
	return sim
}

func (s *Simulator) setGateways(gateways []models.PaymentGateway) {
	s.gateways = make(map[string]models.PaymentGateway, len(gateways))
	s.order = s.order[:0]
	for _, g := range gateways {
		s.gateways[g.ID] = g
		s.order = append(s.order, g.ID)
	}
}

func (s *Simulator) Gateways() []models.PaymentGateway {
	out := make([]models.PaymentGateway, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.gateways[id])
	}
	return out
}

func (s *Simulator) Gateway(id string) (models.PaymentGateway, bool) {
	g, ok := s.gateways[id]
	return g, ok
}

// ValidateRequest checks every constraint and reports all that fail.
func (s *Simulator) ValidateRequest(req Request) ValidationResult {
	var errs []string
	if req.Amount < MinAmount {
		errs = append(errs, fmt.Sprintf("amount must be at least %d", MinAmount))
	}
	if req.Amount > MaxAmount {
		errs = append(errs, fmt.Sprintf("amount must not exceed %d", MaxAmount))
	}
	g, ok := s.gateways[req.GatewayID]
	switch {
	case req.GatewayID == "":
		errs = append(errs, "gateway is required")
	case !ok:
		errs = append(errs, fmt.Sprintf("gateway %q does not exist", req.GatewayID))
	case !g.Active:
		errs = append(errs, fmt.Sprintf("gateway %q is not active", req.GatewayID))
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ProcessPayment settles req after the gateway's processing time. Once
// started it always runs to completion; ctx only scopes the store writes.
func (s *Simulator) ProcessPayment(ctx context.Context, req Request) (*Result, error) {
	if v := s.ValidateRequest(req); !v.Valid {
		return nil, apperrors.NewValidation(apperrors.KindInvalidPayment, v.Errors...)
	}
	g := s.gateways[req.GatewayID]

	status := models.PaymentStatus{
		TransactionID: "TXN_" + uuid.NewString(),
		GatewayID:     g.ID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Status:        models.PaymentPending,
		CreatedAt:     s.now(),
	}
	if err := store.SetJSON(ctx, s.store, store.PaymentStatusKey(status.TransactionID), status); err != nil {
		return nil, fmt.Errorf("record pending payment: %w", err)
	}
	s.log.Info("Payment started", "transaction_id", status.TransactionID, "gateway", g.ID, "amount", req.Amount)

	s.sleep(g.Delay())

	completed := s.now()
	status.CompletedAt = &completed

	roll := s.rand.Float64() * 100
	if roll > g.SuccessRate {
		status.Status = models.PaymentFailed
		status.ErrorKind = ErrorKinds[s.rand.IntN(len(ErrorKinds))]
		if err := store.SetJSON(ctx, s.store, store.PaymentStatusKey(status.TransactionID), status); err != nil {
			s.log.Error("Failed to record payment failure", "transaction_id", status.TransactionID, "error", err)
		}
		s.log.Warn("Payment failed", "transaction_id", status.TransactionID, "kind", status.ErrorKind)
		return nil, &apperrors.PaymentError{Kind: status.ErrorKind, GatewayID: g.ID, TransactionID: status.TransactionID}
	}

	status.Status = models.PaymentSuccess
	status.ReferenceNumber = completed.Format("060102") + fmt.Sprintf("%06d", s.rand.IntN(1000000))
	if err := store.SetJSON(ctx, s.store, store.PaymentStatusKey(status.TransactionID), status); err != nil {
		return nil, fmt.Errorf("record payment success: %w", err)
	}
	s.log.Info("Payment succeeded", "transaction_id", status.TransactionID, "reference", status.ReferenceNumber)

	return &Result{
		TransactionID:   status.TransactionID,
		ReferenceNumber: status.ReferenceNumber,
		GatewayID:       g.ID,
		Amount:          req.Amount,
		Fee:             g.Fee,
		FinalAmount:     req.Amount + g.Fee,
		CompletedAt:     completed,
	}, nil
}

func (s *Simulator) Status(ctx context.Context, transactionID string) (*models.PaymentStatus, error) {
	var status models.PaymentStatus
	found, err := store.GetJSON(ctx, s.store, store.PaymentStatusKey(transactionID), &status)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFound(apperrors.KindPaymentMissing, transactionID)
	}
	return &status, nil
}
