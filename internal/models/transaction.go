package models

import "time"

type TransactionType string

const (
	TransactionSale   TransactionType = "sale"
	TransactionRental TransactionType = "rental"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction is a counter operation: a sale that takes stock out, or a
// rental charge that is not booked on the calendar.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Reference string          `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	Type      TransactionType `gorm:"size:20;not null;index" json:"type"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice float64         `gorm:"not null" json:"unit_price"`

	TotalAmount     float64       `gorm:"not null" json:"total_amount"`
	AmountPaid      float64       `gorm:"not null;default:0" json:"amount_paid"`
	RemainingAmount float64       `gorm:"not null;default:0" json:"remaining_amount"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null;index" json:"payment_status"`

	CustomerID    *uint  `gorm:"index" json:"customer_id"`
	CustomerName  string `gorm:"size:120" json:"customer_name"`
	CustomerPhone string `gorm:"size:30;index" json:"customer_phone"`
	CustomerEmail string `gorm:"size:120" json:"customer_email"`

	Status      TransactionStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedBy   string            `gorm:"size:100" json:"created_by"`
	CancelledAt *time.Time        `json:"cancelled_at"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
