package models

import "time"

type RentalStatus string

const (
	RentalActive    RentalStatus = "active"
	RentalReturned  RentalStatus = "returned"
	RentalCancelled RentalStatus = "cancelled"

	// RentalOverdue is only ever computed at read time, never stored.
	RentalOverdue RentalStatus = "overdue"
)

type Rental struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Reference string  `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`

	CustomerID    *uint  `gorm:"index" json:"customer_id"`
	CustomerName  string `gorm:"size:120;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:30;index" json:"customer_phone"`
	CustomerEmail string `gorm:"size:120" json:"customer_email"`

	// Inclusive calendar days, stored at 00:00 UTC.
	StartDate time.Time `gorm:"index;not null" json:"start_date"`
	EndDate   time.Time `gorm:"index;not null" json:"end_date"`

	TotalAmount     float64       `gorm:"not null" json:"total_amount"`
	AmountPaid      float64       `gorm:"not null;default:0" json:"amount_paid"`
	RemainingAmount float64       `gorm:"not null;default:0" json:"remaining_amount"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null;index" json:"payment_status"`

	Status RentalStatus `gorm:"size:20;not null;index" json:"status"`
	Notes  string       `gorm:"size:500" json:"notes"`

	CreatedBy   string     `gorm:"size:100" json:"created_by"`
	ReturnedAt  *time.Time `json:"returned_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CalendarEntries []CalendarEntry `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
