package reservation

import (
	"context"
	"time"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

func loadDay(ctx context.Context, tx store.Tx, userID, date string) (*models.DayPlan, error) {
	var plan models.DayPlan
	if _, err := store.GetJSON(ctx, tx, store.WeeklyReservationsKey(userID, date), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func loadSlot(ctx context.Context, tx store.Tx, userID, date string, meal models.MealType) (*models.MealReservation, error) {
	plan, err := loadDay(ctx, tx, userID, date)
	if err != nil {
		return nil, err
	}
	return plan.Slot(meal), nil
}

func loadReservations(ctx context.Context, tx store.Tx, userID string) ([]models.MealReservation, error) {
	var list []models.MealReservation
	if _, err := store.GetJSON(ctx, tx, store.ReservationsKey(userID), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// saveSlot writes r to both the day's schedule entry and the reservation
// list, so the schedule stays a projection of the list.
func saveSlot(ctx context.Context, tx store.Tx, r *models.MealReservation) error {
	plan, err := loadDay(ctx, tx, r.UserID, r.Date)
	if err != nil {
		return err
	}
	if r.Status == models.StatusCancelled {
		plan.SetSlot(r.Meal, nil)
	} else {
		plan.SetSlot(r.Meal, r)
	}
	dayKey := store.WeeklyReservationsKey(r.UserID, r.Date)
	if plan.Empty() {
		if err := tx.Remove(ctx, dayKey); err != nil {
			return err
		}
	} else if err := store.SetJSON(ctx, tx, dayKey, plan); err != nil {
		return err
	}

	list, err := loadReservations(ctx, tx, r.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID == r.ID {
			list[i] = *r
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, *r)
	}
	return store.SetJSON(ctx, tx, store.ReservationsKey(r.UserID), list)
}

// Rebuild derives the weekly schedule from a user's reservation records.
func Rebuild(reservations []models.MealReservation) map[string]models.DayPlan {
	days := make(map[string]models.DayPlan)
	for i := range reservations {
		r := reservations[i]
		if r.Status == models.StatusCancelled {
			continue
		}
		plan := days[r.Date]
		plan.SetSlot(r.Meal, &r)
		days[r.Date] = plan
	}
	return days
}

// Slot returns the reservation occupying a slot.
func (m *Manager) Slot(ctx context.Context, userID, date string, meal models.MealType) (*models.MealReservation, error) {
	if err := validateSlotRef(date, meal); err != nil {
		return nil, err
	}
	slot, err := loadSlot(ctx, m.store, userID, date, meal)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperrors.NewNotFound(apperrors.KindReservationMissing, date+"/"+string(meal))
	}
	return slot, nil
}

func (m *Manager) Reservations(ctx context.Context, userID string) ([]models.MealReservation, error) {
	list, err := loadReservations(ctx, m.store, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.MealReservation{}
	}
	return list, nil
}

// WeeklySchedule returns seven consecutive days starting at weekStart.
func (m *Manager) WeeklySchedule(ctx context.Context, userID, weekStart string) ([]models.DaySchedule, error) {
	start, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil, apperrors.NewValidation(apperrors.KindInvalidInput, "start must be formatted as YYYY-MM-DD")
	}
	week := make([]models.DaySchedule, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		plan, err := loadDay(ctx, m.store, userID, date)
		if err != nil {
			return nil, err
		}
		week = append(week, models.DaySchedule{Date: date, Plan: *plan})
	}
	return week, nil
}
