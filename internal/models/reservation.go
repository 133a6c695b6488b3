package models

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusPaid      ReservationStatus = "paid"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodWallet  PaymentMethod = "wallet"
	MethodGateway PaymentMethod = "gateway"
)

type MealReservation struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"userId"`
	Date                 string            `json:"date"`
	Meal                 MealType          `json:"meal"`
	FoodID               string            `json:"foodId"`
	FoodName             string            `json:"foodName"`
	RestaurantID         string            `json:"restaurantId"`
	RestaurantName       string            `json:"restaurantName"`
	Price                int64             `json:"price"`
	OriginalPrice        int64             `json:"originalPrice"`
	DiscountCode         string            `json:"discountCode,omitempty"`
	DiscountAmount       *int              `json:"discountAmount,omitempty"`
	FaramushiCode        string            `json:"faramushiCode,omitempty"`
	Status               ReservationStatus `json:"status"`
	Confirmed            bool              `json:"confirmed"`
	Paid                 bool              `json:"paid"`
	PaymentMethod        PaymentMethod     `json:"paymentMethod,omitempty"`
	GatewayTransactionID string            `json:"gatewayTransactionId,omitempty"`
	PaymentDate          *time.Time        `json:"paymentDate,omitempty"`
	ReservationDate      time.Time         `json:"reservationDate"`
	Emergency            bool              `json:"emergency,omitempty"`
	Quantity             int               `json:"quantity,omitempty"`
}

// Staged reports whether both a food and a restaurant are chosen.
func (r *MealReservation) Staged() bool {
	return r.FoodID != "" && r.RestaurantID != ""
}

// Locked reports whether the slot holds a reservation that was already paid for.
func (r *MealReservation) Locked() bool {
	return r.Status == StatusPaid || r.Status == StatusCompleted
}

// DayPlan is one day of the weekly schedule grid.
type DayPlan struct {
	Breakfast *MealReservation `json:"breakfast"`
	Lunch     *MealReservation `json:"lunch"`
	Dinner    *MealReservation `json:"dinner"`
}

func (d *DayPlan) Slot(meal MealType) *MealReservation {
	switch meal {
	case Breakfast:
		return d.Breakfast
	case Lunch:
		return d.Lunch
	case Dinner:
		return d.Dinner
	}
	return nil
}

func (d *DayPlan) SetSlot(meal MealType, r *MealReservation) {
	switch meal {
	case Breakfast:
		d.Breakfast = r
	case Lunch:
		d.Lunch = r
	case Dinner:
		d.Dinner = r
	}
}

func (d *DayPlan) Empty() bool {
	return d.Breakfast == nil && d.Lunch == nil && d.Dinner == nil
}

type DaySchedule struct {
	Date string  `json:"date"`
	Plan DayPlan `json:"plan"`
}
