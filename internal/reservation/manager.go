// Package reservation drives a user's meal slots from selection through
// payment, cancellation and pickup, keeping the wallet ledger, the
// reservation list and the weekly schedule in step.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/discount"
	"github.com/farellandr/mealpass/internal/gateway"
	"github.com/farellandr/mealpass/internal/ledger"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

const (
	FieldFood       = "food"
	FieldRestaurant = "restaurant"
)

const dateLayout = "2006-01-02"

type RefundPolicy string

const (
	RefundNone   RefundPolicy = "none"
	RefundWallet RefundPolicy = "wallet"
)

func ParseRefundPolicy(s string) (RefundPolicy, error) {
	switch RefundPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RefundNone:
		return RefundNone, nil
	case RefundWallet:
		return RefundWallet, nil
	}
	return "", fmt.Errorf("unknown refund policy %q", s)
}

type Catalog interface {
	Food(ctx context.Context, ref string) (*models.FoodItem, error)
	Restaurant(ctx context.Context, ref string) (*models.Restaurant, error)
}

type Discounts interface {
	Lookup(code string) (int, bool)
}

type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req gateway.Request) (*gateway.Result, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message string)
}

type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

type Deps struct {
	Store     store.Store
	Locker    store.Locker
	Catalog   Catalog
	Discounts Discounts
	Payments  PaymentProcessor
	Ledger    *ledger.Ledger
	Notifier  Notifier
	Logger    *logger.Logger
	Refund    RefundPolicy
}

type Manager struct {
	store     store.Store
	locker    store.Locker
	catalog   Catalog
	discounts Discounts
	payments  PaymentProcessor
	ledger    *ledger.Ledger
	notifier  Notifier
	log       *logger.Logger
	refund    RefundPolicy
	rand      Random
	now       func() time.Time
}

type Option func(*Manager)

func WithRandom(r Random) Option {
	return func(m *Manager) { m.rand = r }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(d Deps, opts ...Option) *Manager {
	refund := d.Refund
	if refund == "" {
		refund = RefundNone
	}
	m := &Manager{
		store:     d.Store,
		locker:    d.Locker,
		catalog:   d.Catalog,
		discounts: d.Discounts,
		payments:  d.Payments,
		ledger:    d.Ledger,
		notifier:  d.Notifier,
		log:       d.Logger.WithComponent("reservation_manager"),
		refund:    refund,
		rand:      globalRandom{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Quote is the price of a staged slot, ready to be paid.
type Quote struct {
	Reservation    *models.MealReservation `json:"reservation"`
	OriginalPrice  int64                   `json:"original_price"`
	DiscountAmount int                     `json:"discount_amount"`
	FinalPrice     int64                   `json:"final_price"`
}

func (m *Manager) lockUser(ctx context.Context, userID string) (func(), error) {
	unlock, err := m.locker.Lock(ctx, store.UserLockName(userID))
	if errors.Is(err, store.ErrLocked) {
		return nil, &apperrors.ConflictError{Resource: "reservation"}
	}
	return unlock, err
}

func (m *Manager) notify(ctx context.Context, userID, kind, title, message string) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, userID, kind, title, message)
	}
}

func validateSlotRef(date string, meal models.MealType) error {
	var violations []string
	if _, err := time.Parse(dateLayout, date); err != nil {
		violations = append(violations, fmt.Sprintf("date %q must be formatted as YYYY-MM-DD", date))
	}
	if _, ok := models.ParseMeal(string(meal)); !ok {
		violations = append(violations, fmt.Sprintf("meal %q must be breakfast, lunch or dinner", meal))
	}
	if len(violations) > 0 {
		return apperrors.NewValidation(apperrors.KindInvalidInput, violations...)
	}
	return nil
}

func reprice(r *models.MealReservation) {
	if r.DiscountAmount != nil {
		r.Price = discount.Apply(r.OriginalPrice, *r.DiscountAmount)
		return
	}
	r.Price = r.OriginalPrice
}

// SelectMeal sets the food or restaurant of a slot. Any earlier confirmation
// is dropped; a paid slot has to be cancelled before it can be changed.
func (m *Manager) SelectMeal(ctx context.Context, userID, date string, meal models.MealType, field, value string) (*models.MealReservation, error) {
	if err := validateSlotRef(date, meal); err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperrors.NewValidation(apperrors.KindInvalidInput, field+" must not be empty")
	}

	var (
		food       *models.FoodItem
		restaurant *models.Restaurant
		err        error
	)
	switch field {
	case FieldFood:
		food, err = m.catalog.Food(ctx, value)
		if err != nil {
			return nil, err
		}
		var violations []string
		if !food.Available {
			violations = append(violations, fmt.Sprintf("%s is not available", food.Name.En))
		}
		if food.Category != meal {
			violations = append(violations, fmt.Sprintf("%s is served for %s, not %s", food.Name.En, food.Category, meal))
		}
		if len(violations) > 0 {
			kind := apperrors.KindFoodUnavailable
			if food.Available {
				kind = apperrors.KindMealMismatch
			}
			return nil, apperrors.NewValidation(kind, violations...)
		}
	case FieldRestaurant:
		restaurant, err = m.catalog.Restaurant(ctx, value)
		if err != nil {
			return nil, err
		}
		if _, open := restaurant.OpenFor(meal); !restaurant.Active || !open {
			return nil, apperrors.NewValidation(apperrors.KindRestaurantClosed,
				fmt.Sprintf("%s does not serve %s", restaurant.Name.En, meal))
		}
	default:
		return nil, apperrors.NewValidation(apperrors.KindInvalidInput,
			fmt.Sprintf("field %q must be %s or %s", field, FieldFood, FieldRestaurant))
	}

	unlock, err := m.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *models.MealReservation
	err = m.store.Update(ctx, func(tx store.Tx) error {
		slot, err := loadSlot(ctx, tx, userID, date, meal)
		if err != nil {
			return err
		}
		if slot != nil && slot.Locked() {
			return apperrors.NewValidation(apperrors.KindSlotLocked,
				fmt.Sprintf("%s on %s is already %s; cancel it first", meal, date, slot.Status))
		}
		if slot == nil {
			slot = &models.MealReservation{
				ID:              uuid.NewString(),
				UserID:          userID,
				Date:            date,
				Meal:            meal,
				ReservationDate: m.now(),
				Quantity:        1,
			}
		}

		if food != nil {
			slot.FoodID = food.ID
			slot.FoodName = food.Name.En
			slot.OriginalPrice = food.Price
		}
		if restaurant != nil {
			slot.RestaurantID = restaurant.ID
			slot.RestaurantName = restaurant.Name.En
		}
		slot.Status = models.StatusPending
		slot.Confirmed = false
		slot.Paid = false
		reprice(slot)

		out = slot
		return saveSlot(ctx, tx, slot)
	})
	if err != nil {
		return nil, err
	}
	m.log.Debug("Meal selected", "user_id", userID, "date", date, "meal", meal, "field", field, "value", value)
	return out, nil
}

// ConfirmReservation checks that the slot is ready for payment and returns
// its quote. Nothing is persisted; the slot is confirmed together with payment.
func (m *Manager) ConfirmReservation(ctx context.Context, userID, date string, meal models.MealType) (*Quote, error) {
	if err := validateSlotRef(date, meal); err != nil {
		return nil, err
	}
	slot, err := loadSlot(ctx, m.store, userID, date, meal)
	if err != nil {
		return nil, err
	}
	if err := requireStaged(slot); err != nil {
		return nil, err
	}
	return quoteFor(slot), nil
}

func requireStaged(slot *models.MealReservation) error {
	if slot != nil && slot.Staged() {
		return nil
	}
	var violations []string
	if slot == nil || slot.FoodID == "" {
		violations = append(violations, "food must be selected")
	}
	if slot == nil || slot.RestaurantID == "" {
		violations = append(violations, "restaurant must be selected")
	}
	return apperrors.NewValidation(apperrors.KindMissingSelection, violations...)
}

func quoteFor(slot *models.MealReservation) *Quote {
	q := &Quote{Reservation: slot, OriginalPrice: slot.OriginalPrice, FinalPrice: slot.Price}
	if slot.DiscountAmount != nil {
		q.DiscountAmount = *slot.DiscountAmount
	}
	return q
}

// ApplyDiscount attaches a discount code to the slot and re-prices it. An
// unknown code leaves the slot untouched.
func (m *Manager) ApplyDiscount(ctx context.Context, userID, date string, meal models.MealType, code string) (*models.MealReservation, error) {
	if err := validateSlotRef(date, meal); err != nil {
		return nil, err
	}
	pct, ok := m.discounts.Lookup(code)
	if !ok {
		return nil, apperrors.NewValidation(apperrors.KindInvalidDiscount,
			fmt.Sprintf("discount code %q is not valid", code))
	}

	unlock, err := m.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *models.MealReservation
	err = m.store.Update(ctx, func(tx store.Tx) error {
		slot, err := loadSlot(ctx, tx, userID, date, meal)
		if err != nil {
			return err
		}
		if slot == nil || slot.FoodID == "" {
			return apperrors.NewValidation(apperrors.KindMissingSelection, "food must be selected")
		}
		if slot.Locked() {
			return apperrors.NewValidation(apperrors.KindSlotLocked,
				fmt.Sprintf("%s on %s is already %s", meal, date, slot.Status))
		}
		slot.DiscountCode = strings.ToUpper(strings.TrimSpace(code))
		slot.DiscountAmount = &pct
		reprice(slot)
		out = slot
		return saveSlot(ctx, tx, slot)
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("Discount applied", "user_id", userID, "date", date, "meal", meal, "percent", pct)
	return out, nil
}
