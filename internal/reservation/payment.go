package reservation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/discount"
	"github.com/farellandr/mealpass/internal/gateway"
	"github.com/farellandr/mealpass/internal/ledger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

const (
	pickupCodeMin      = 10000
	pickupCodeMax      = 99999
	pickupCodeAttempts = 32
)

var errPickupCodesExhausted = fmt.Errorf("no free pickup code after %d attempts", pickupCodeAttempts)

// PickupRef points a pickup code back at the reservation it claims.
type PickupRef struct {
	UserID        string          `json:"userId"`
	Date          string          `json:"date"`
	Meal          models.MealType `json:"meal"`
	ReservationID string          `json:"reservationId"`
}

type PaymentOutcome struct {
	Reservation *models.MealReservation `json:"reservation"`
	Transaction *models.Transaction     `json:"transaction,omitempty"`
	Gateway     *gateway.Result         `json:"gateway,omitempty"`
}

// PayReservation charges a staged slot and marks it paid. All checks and the
// gateway call happen before anything is written; the ledger debit, the
// reservation and its pickup code are then committed in one store update.
func (m *Manager) PayReservation(ctx context.Context, userID, date string, meal models.MealType, method models.PaymentMethod, gatewayID string) (*PaymentOutcome, error) {
	if err := validateSlotRef(date, meal); err != nil {
		return nil, err
	}
	if method != models.MethodWallet && method != models.MethodGateway {
		return nil, apperrors.NewValidation(apperrors.KindInvalidInput,
			fmt.Sprintf("payment method %q must be wallet or gateway", method))
	}

	unlock, err := m.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	slot, err := loadSlot(ctx, m.store, userID, date, meal)
	if err != nil {
		return nil, err
	}
	if err := requireStaged(slot); err != nil {
		return nil, err
	}
	if slot.Locked() {
		return nil, apperrors.NewValidation(apperrors.KindSlotLocked,
			fmt.Sprintf("%s on %s is already %s", meal, date, slot.Status))
	}

	food, err := m.catalog.Food(ctx, slot.FoodName)
	if err != nil {
		return nil, err
	}
	originalPrice := food.Price
	finalPrice := originalPrice
	if slot.DiscountAmount != nil {
		finalPrice = discount.Apply(originalPrice, *slot.DiscountAmount)
	}

	var charged *gateway.Result
	switch method {
	case models.MethodWallet:
		balance, err := ledger.BalanceIn(ctx, m.store, userID)
		if err != nil {
			return nil, err
		}
		if balance < finalPrice {
			return nil, &apperrors.InsufficientFundsError{Balance: balance, Required: finalPrice}
		}
	case models.MethodGateway:
		charged, err = m.payments.ProcessPayment(ctx, gateway.Request{
			GatewayID:   gatewayID,
			Amount:      finalPrice,
			UserID:      userID,
			Description: fmt.Sprintf("%s %s %s", food.Name.En, meal, date),
		})
		if err != nil {
			m.log.Warn("Gateway payment failed", "user_id", userID, "date", date, "meal", meal, "error", err)
			return nil, err
		}
	}

	outcome := &PaymentOutcome{Gateway: charged}
	err = m.store.Update(ctx, func(tx store.Tx) error {
		current, err := loadSlot(ctx, tx, userID, date, meal)
		if err != nil {
			return err
		}
		if current == nil || current.ID != slot.ID || current.Locked() {
			return apperrors.NewValidation(apperrors.KindSlotLocked, "slot changed while paying")
		}

		code, err := m.newPickupCode(ctx, tx)
		if err != nil {
			return err
		}
		paidAt := m.now()
		current.OriginalPrice = originalPrice
		current.Price = finalPrice
		current.FaramushiCode = code
		current.Status = models.StatusPaid
		current.Confirmed = true
		current.Paid = true
		current.PaymentMethod = method
		current.PaymentDate = &paidAt
		if charged != nil {
			current.GatewayTransactionID = charged.TransactionID
		}

		if method == models.MethodWallet {
			debit, err := m.ledger.Debit(ctx, tx, ledger.Entry{
				UserID:        userID,
				Amount:        finalPrice,
				Description:   fmt.Sprintf("Meal reservation: %s (%s, %s)", current.FoodName, meal, date),
				Category:      models.CategoryMeal,
				ReservationID: current.ID,
			})
			if err != nil {
				return err
			}
			outcome.Transaction = debit
		}

		ref := PickupRef{UserID: userID, Date: date, Meal: meal, ReservationID: current.ID}
		if err := store.SetJSON(ctx, tx, store.PickupCodeKey(code), ref); err != nil {
			return err
		}
		outcome.Reservation = current
		return saveSlot(ctx, tx, current)
	})
	if err != nil {
		if charged != nil {
			m.log.Error("Gateway charged but reservation not recorded",
				"user_id", userID, "transaction_id", charged.TransactionID, "error", err)
		}
		return nil, err
	}

	m.log.Info("Reservation paid", "user_id", userID, "date", date, "meal", meal,
		"method", method, "amount", finalPrice, "reservation_id", outcome.Reservation.ID)
	m.notify(ctx, userID, "reservation.paid", "Reservation paid",
		fmt.Sprintf("%s for %s on %s is reserved. Pickup code: %s",
			outcome.Reservation.FoodName, meal, date, outcome.Reservation.FaramushiCode))
	return outcome, nil
}

// newPickupCode draws a five-digit code that no outstanding reservation holds.
func (m *Manager) newPickupCode(ctx context.Context, tx store.Tx) (string, error) {
	for i := 0; i < pickupCodeAttempts; i++ {
		code := strconv.Itoa(pickupCodeMin + m.rand.IntN(pickupCodeMax-pickupCodeMin))
		var ref PickupRef
		taken, err := store.GetJSON(ctx, tx, store.PickupCodeKey(code), &ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errPickupCodesExhausted
}
