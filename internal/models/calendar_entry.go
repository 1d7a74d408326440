package models

import "time"

type CalendarStatus string

const (
	CalendarReserved  CalendarStatus = "reserved"
	CalendarAvailable CalendarStatus = "available"
)

// CalendarEntry marks one day of one product as held by a rental. The
// reserved uniqueness per (product_id, date) is a partial index created in
// database.Migrate.
type CalendarEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index:idx_calendar_product_date,priority:1" json:"product_id"`
	RentalID  uint           `gorm:"not null;index" json:"rental_id"`
	Date      string         `gorm:"type:varchar(10);not null;index:idx_calendar_product_date,priority:2" json:"date"` // YYYY-MM-DD
	Status    CalendarStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
