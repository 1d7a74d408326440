package models

import "time"

// Payment is an append-only ledger row. Exactly one of TransactionID and
// RentalID is set.
type Payment struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Reference       string        `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	TransactionID   *uint         `gorm:"index" json:"transaction_id"`
	RentalID        *uint         `gorm:"index" json:"rental_id"`
	Amount          float64       `gorm:"not null" json:"amount"`
	AmountPaidAfter float64       `gorm:"not null" json:"amount_paid_after"`
	RemainingAmount float64       `gorm:"not null" json:"remaining_amount"`
	Method          PaymentMethod `gorm:"size:20;not null" json:"method"`
	Agent           string        `gorm:"size:100" json:"agent"`
	IsCompleted     bool          `gorm:"not null;default:false" json:"is_completed"`
	PaidAt          time.Time     `gorm:"index;not null" json:"paid_at"`
	CreatedAt       time.Time     `json:"created_at"`
}
