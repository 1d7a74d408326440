package models

import "time"

type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:150;not null;index" json:"name"`
	Category      string    `gorm:"size:80;index" json:"category"`
	Size          string    `gorm:"size:30" json:"size"`
	Color         string    `gorm:"size:40" json:"color"`
	Brand         string    `gorm:"size:80" json:"brand"`
	PurchasePrice float64   `gorm:"not null;default:0" json:"purchase_price"`
	SalePrice     float64   `gorm:"not null;default:0" json:"sale_price"`
	RentalPrice   float64   `gorm:"not null;default:0" json:"rental_price"` // per rented day
	Stock         int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	IsRentable    bool      `gorm:"not null;default:false" json:"is_rentable"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
