package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

type Settings struct {
	Language string `json:"language"`
}

type NotificationPreferences struct {
	Payments     bool `json:"payments"`
	Reservations bool `json:"reservations"`
	Wallet       bool `json:"wallet"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Payments: true, Reservations: true, Wallet: true}
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
