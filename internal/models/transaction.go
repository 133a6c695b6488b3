package models

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

const (
	CategoryMeal     = "meal"
	CategoryRecharge = "recharge"
	CategoryRefund   = "refund"
)

type Transaction struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"userId"`
	Type                 TransactionType `json:"type"`
	Amount               int64           `json:"amount"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	RelatedReservationID string          `json:"relatedReservationId,omitempty"`
	Status               string          `json:"status"`
}
