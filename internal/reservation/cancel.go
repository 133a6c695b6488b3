package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/ledger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

type CancelOutcome struct {
	Cancelled *models.MealReservation `json:"cancelled,omitempty"`
	Refund    *models.Transaction     `json:"refund,omitempty"`
}

// CancelReservation empties a slot whatever state it is in, short of a meal
// already picked up. Wallet payments are refunded only under RefundWallet.
func (m *Manager) CancelReservation(ctx context.Context, userID, date string, meal models.MealType) (*CancelOutcome, error) {
	if err := validateSlotRef(date, meal); err != nil {
		return nil, err
	}
	unlock, err := m.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	outcome := &CancelOutcome{}
	wasPaid := false
	err = m.store.Update(ctx, func(tx store.Tx) error {
		slot, err := loadSlot(ctx, tx, userID, date, meal)
		if err != nil || slot == nil {
			return err
		}
		if slot.Status == models.StatusCompleted {
			return apperrors.NewValidation(apperrors.KindTerminal,
				fmt.Sprintf("%s on %s was already picked up", meal, date))
		}

		wasPaid = slot.Paid
		if slot.Paid && slot.PaymentMethod == models.MethodWallet && m.refund == RefundWallet {
			refund, err := m.ledger.Credit(ctx, tx, ledger.Entry{
				UserID:        userID,
				Amount:        slot.Price,
				Description:   fmt.Sprintf("Refund: %s (%s, %s)", slot.FoodName, meal, date),
				Category:      models.CategoryRefund,
				ReservationID: slot.ID,
			})
			if err != nil {
				return err
			}
			outcome.Refund = refund
		}
		if slot.FaramushiCode != "" {
			if err := tx.Remove(ctx, store.PickupCodeKey(slot.FaramushiCode)); err != nil {
				return err
			}
		}

		slot.Status = models.StatusCancelled
		slot.FaramushiCode = ""
		slot.Confirmed = false
		slot.Paid = false
		outcome.Cancelled = slot
		return saveSlot(ctx, tx, slot)
	})
	if err != nil {
		return nil, err
	}

	if outcome.Cancelled != nil {
		m.log.Info("Reservation cancelled", "user_id", userID, "date", date, "meal", meal,
			"was_paid", wasPaid, "refunded", outcome.Refund != nil)
		if wasPaid {
			m.notify(ctx, userID, "reservation.cancelled", "Reservation cancelled",
				fmt.Sprintf("Your %s reservation for %s was cancelled.", meal, date))
		}
	}
	return outcome, nil
}

// RedeemPickup completes the paid reservation holding code. It is called at
// the counter when the meal is handed over.
func (m *Manager) RedeemPickup(ctx context.Context, code string) (*models.MealReservation, error) {
	return m.RedeemTicket(ctx, code, "")
}

// RedeemTicket is RedeemPickup for a scanned QR code, which also names the
// reservation. A code that now belongs to another reservation is rejected.
func (m *Manager) RedeemTicket(ctx context.Context, code, reservationID string) (*models.MealReservation, error) {
	var ref PickupRef
	found, err := store.GetJSON(ctx, m.store, store.PickupCodeKey(code), &ref)
	if err != nil {
		return nil, err
	}
	if !found || (reservationID != "" && ref.ReservationID != reservationID) {
		return nil, apperrors.NewNotFound(apperrors.KindPickupMissing, code)
	}

	unlock, err := m.lockUser(ctx, ref.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *models.MealReservation
	err = m.store.Update(ctx, func(tx store.Tx) error {
		slot, err := loadSlot(ctx, tx, ref.UserID, ref.Date, ref.Meal)
		if err != nil {
			return err
		}
		if slot == nil || slot.ID != ref.ReservationID || slot.FaramushiCode != code {
			return apperrors.NewNotFound(apperrors.KindReservationMissing, ref.ReservationID)
		}
		if slot.Status != models.StatusPaid {
			return apperrors.NewValidation(apperrors.KindTerminal,
				fmt.Sprintf("reservation is %s", slot.Status))
		}
		if err := tx.Remove(ctx, store.PickupCodeKey(code)); err != nil {
			return err
		}
		slot.Status = models.StatusCompleted
		out = slot
		return saveSlot(ctx, tx, slot)
	})
	if err != nil {
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			m.log.Warn("Stale pickup code", "code", code, "reservation_id", ref.ReservationID)
		}
		return nil, err
	}
	m.log.Info("Pickup redeemed", "user_id", ref.UserID, "reservation_id", out.ID)
	m.notify(ctx, ref.UserID, "reservation.completed", "Enjoy your meal",
		fmt.Sprintf("%s was picked up.", out.FoodName))
	return out, nil
}
