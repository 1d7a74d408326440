package models

import "time"

// Customer is identified by phone number; name and email follow the latest
// transaction that referenced it.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Phone     string    `gorm:"size:30;uniqueIndex;not null" json:"phone"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:120" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
