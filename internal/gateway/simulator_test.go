package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

// fixedRandom returns the same draws every time.
type fixedRandom struct {
	float float64
	n     int
}

func (r fixedRandom) IntN(n int) int   { return r.n % n }
func (r fixedRandom) Float64() float64 { return r.float }

func newTestSimulator(r Random, slept *time.Duration) (*Simulator, *store.MemoryStore) {
	s := store.NewMemoryStore()
	clock := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	sim := New(s, logger.Discard(),
		WithRandom(r),
		WithSleep(func(d time.Duration) {
			if slept != nil {
				*slept += d
			}
		}),
		WithClock(func() time.Time { return clock }),
	)
	return sim, s
}

func TestProcessPaymentSuccess(t *testing.T) {
	var slept time.Duration
	sim, _ := newTestSimulator(fixedRandom{float: 0.10, n: 123456}, &slept)
	ctx := context.Background()

	res, err := sim.ProcessPayment(ctx, Request{GatewayID: "zarinpal", Amount: 45000, UserID: "u1"})
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if res.Fee != 1000 || res.FinalAmount != 46000 {
		t.Fatalf("fee/final = %d/%d; want 1000/46000", res.Fee, res.FinalAmount)
	}
	if !strings.HasPrefix(res.TransactionID, "TXN_") {
		t.Errorf("transaction id %q", res.TransactionID)
	}
	if res.ReferenceNumber != "261015123456" {
		t.Errorf("reference = %q", res.ReferenceNumber)
	}
	if slept != 2*time.Second {
		t.Errorf("slept %v; want 2s", slept)
	}

	status, err := sim.Status(ctx, res.TransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.PaymentSuccess || status.CompletedAt == nil {
		t.Fatalf("status = %+v", status)
	}
}

func TestProcessPaymentFailure(t *testing.T) {
	sim, _ := newTestSimulator(fixedRandom{float: 0.99, n: 2}, nil)
	ctx := context.Background()

	_, err := sim.ProcessPayment(ctx, Request{GatewayID: "zarinpal", Amount: 45000, UserID: "u1"})
	var pe *apperrors.PaymentError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PaymentError, got %v", err)
	}
	if pe.Kind != ErrGatewayTimeout {
		t.Errorf("kind = %q; want %q", pe.Kind, ErrGatewayTimeout)
	}

	status, err := sim.Status(ctx, pe.TransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.PaymentFailed || status.ErrorKind != ErrGatewayTimeout || status.CompletedAt == nil {
		t.Fatalf("status = %+v", status)
	}
}

func TestValidateRequestBelowMinimum(t *testing.T) {
	sim, _ := newTestSimulator(fixedRandom{}, nil)
	v := sim.ValidateRequest(Request{GatewayID: "zarinpal", Amount: 5000})
	if v.Valid {
		t.Fatal("expected invalid request")
	}
	if len(v.Errors) != 1 || !strings.Contains(v.Errors[0], "at least 10000") {
		t.Fatalf("errors = %v", v.Errors)
	}
}

func TestValidateRequestListsAllViolations(t *testing.T) {
	sim, _ := newTestSimulator(fixedRandom{}, nil)

	v := sim.ValidateRequest(Request{GatewayID: "parsian", Amount: 250000})
	if v.Valid || len(v.Errors) != 2 {
		t.Fatalf("errors = %v; want amount and inactive gateway", v.Errors)
	}

	v = sim.ValidateRequest(Request{GatewayID: "nope", Amount: 1})
	if v.Valid || len(v.Errors) != 2 {
		t.Fatalf("errors = %v; want amount and unknown gateway", v.Errors)
	}
}

func TestInvalidRequestRecordsNothing(t *testing.T) {
	sim, s := newTestSimulator(fixedRandom{}, nil)
	_, err := sim.ProcessPayment(context.Background(), Request{GatewayID: "zarinpal", Amount: 5000})
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) || ve.Kind != apperrors.KindInvalidPayment {
		t.Fatalf("expected invalid-payment-request, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("store has %d keys; want 0", s.Len())
	}
}

func TestStatusNotFound(t *testing.T) {
	sim, _ := newTestSimulator(fixedRandom{}, nil)
	_, err := sim.Status(context.Background(), "TXN_missing")
	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestGatewayProcessingTimeIsMilliseconds(t *testing.T) {
	sim, _ := newTestSimulator(fixedRandom{}, nil)
	g, ok := sim.Gateway("zarinpal")
	if !ok {
		t.Fatal("zarinpal missing")
	}
	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"processingTime":2000`) {
		t.Errorf("json = %s", raw)
	}
	if g.Delay() != 2*time.Second {
		t.Errorf("delay = %v", g.Delay())
	}
}
