package models

import "time"

type PaymentGateway struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Fee         int64         `json:"fee"`
	SuccessRate float64       `json:"successRate"`
	// ProcessingTime is in milliseconds.
	ProcessingTime int64 `json:"processingTime"`
	Active         bool  `json:"active"`
}

func (g PaymentGateway) Delay() time.Duration {
	return time.Duration(g.ProcessingTime) * time.Millisecond
}

type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentSuccess PaymentState = "success"
	PaymentFailed  PaymentState = "failed"
)

type PaymentStatus struct {
	TransactionID   string       `json:"transactionId"`
	GatewayID       string       `json:"gatewayId"`
	UserID          string       `json:"userId"`
	Amount          int64        `json:"amount"`
	Status          PaymentState `json:"status"`
	ReferenceNumber string       `json:"referenceNumber,omitempty"`
	ErrorKind       string       `json:"errorKind,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty"`
}
