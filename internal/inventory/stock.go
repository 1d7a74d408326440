package inventory

import (
	"fmt"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/models"

	"gorm.io/gorm"
)

// AdjustStock moves a product's stock by delta inside the caller's
// transaction. The update is guarded in SQL so stock never goes negative,
// even with concurrent sales.
func AdjustStock(tx *gorm.DB, productID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return apperr.Store(res.Error, "adjust stock")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// tell a missing product from an empty shelf
	var p models.Product
	if err := tx.Select("id", "name", "stock").First(&p, productID).Error; err != nil {
		return apperr.Store(err, fmt.Sprintf("product %d not found", productID))
	}
	return apperr.New(apperr.KindConflict, "not enough stock for %s: %d left, %d requested", p.Name, p.Stock, -delta)
}
