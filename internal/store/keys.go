package store

import "fmt"

const (
	UsersKey       = "users"
	FoodsKey       = "foods"
	RestaurantsKey = "restaurants"
)

func BalanceKey(userID string) string {
	return "balance_" + userID
}

func TransactionsKey(userID string) string {
	return "transactions_" + userID
}

func ReservationsKey(userID string) string {
	return "reservations_" + userID
}

func WeeklyReservationsKey(userID, date string) string {
	return fmt.Sprintf("weekly_reservations_%s_%s", userID, date)
}

func PaymentStatusKey(transactionID string) string {
	return "payment_status_" + transactionID
}

func PickupCodeKey(code string) string {
	return "pickup_code_" + code
}

func NotificationsKey(userID string) string {
	return "notifications_" + userID
}

func NotificationPreferencesKey(userID string) string {
	return "notification_preferences_" + userID
}

func SettingsKey(userID string) string {
	return "settings_" + userID
}

// UserLockName serialises the wallet-mutating flows of one user.
func UserLockName(userID string) string {
	return "wallet_" + userID
}

// UsersLockName guards the shared account list.
const UsersLockName = "users"

func NotificationsLockName(userID string) string {
	return "notifications_" + userID
}
