package inventory

import (
	"context"
	"fmt"
	"strings"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

type ProductFilter struct {
	Query    string
	Category string
	Rentable *bool
	InStock  bool
}

func (s *Service) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if v := strings.TrimSpace(f.Query); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Rentable != nil {
		q = q.Where("is_rentable = ?", *f.Rentable)
	}
	if f.InStock {
		q = q.Where("stock > 0")
	}

	var products []models.Product
	if err := q.Order("name ASC, id ASC").Find(&products).Error; err != nil {
		return nil, apperr.Store(err, "list products")
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, apperr.Store(err, fmt.Sprintf("product %d not found", id))
	}
	return &p, nil
}

func validateProduct(p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperr.New(apperr.KindInvalidAmount, "product name is required")
	}
	for _, v := range []float64{p.PurchasePrice, p.SalePrice, p.RentalPrice} {
		if v < 0 {
			return apperr.New(apperr.KindInvalidAmount, "prices must be zero or positive")
		}
	}
	if p.Stock < 0 {
		return apperr.New(apperr.KindInvalidAmount, "stock must be zero or positive")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *models.Product, actor audit.Actor) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return apperr.Store(err, "create product")
		}
		return writeProductLog(tx, actor, p.ID, models.AuditActionCreate, "product "+p.Name+" created", nil, p)
	})
}

// ProductPatch holds the fields an update may change; nil leaves a field as is.
type ProductPatch struct {
	Name          *string
	Category      *string
	Size          *string
	Color         *string
	Brand         *string
	PurchasePrice *float64
	SalePrice     *float64
	RentalPrice   *float64
	Stock         *int
	IsRentable    *bool
}

func (patch ProductPatch) apply(p *models.Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Size != nil {
		p.Size = strings.TrimSpace(*patch.Size)
	}
	if patch.Color != nil {
		p.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.Brand != nil {
		p.Brand = strings.TrimSpace(*patch.Brand)
	}
	if patch.PurchasePrice != nil {
		p.PurchasePrice = *patch.PurchasePrice
	}
	if patch.SalePrice != nil {
		p.SalePrice = *patch.SalePrice
	}
	if patch.RentalPrice != nil {
		p.RentalPrice = *patch.RentalPrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.IsRentable != nil {
		p.IsRentable = *patch.IsRentable
	}
}

func (s *Service) Update(ctx context.Context, id uint, patch ProductPatch, actor audit.Actor) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return apperr.Store(err, fmt.Sprintf("product %d not found", id))
		}
		before := p
		patch.apply(&p)
		if err := validateProduct(&p); err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			return apperr.Store(err, "update product")
		}
		return writeProductLog(tx, actor, p.ID, models.AuditActionUpdate, "product "+p.Name+" updated", before, p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a product that no rental or sale refers to.
func (s *Service) Delete(ctx context.Context, id uint, actor audit.Actor) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, id).Error; err != nil {
			return apperr.Store(err, fmt.Sprintf("product %d not found", id))
		}
		for _, model := range []any{&models.Rental{}, &models.Transaction{}} {
			var n int64
			if err := tx.Model(model).Where("product_id = ?", id).Count(&n).Error; err != nil {
				return apperr.Store(err, "check product usage")
			}
			if n > 0 {
				return apperr.New(apperr.KindConflict, "%s has rentals or sales and cannot be deleted", p.Name)
			}
		}
		if err := tx.Delete(&p).Error; err != nil {
			return apperr.Store(err, "delete product")
		}
		return writeProductLog(tx, actor, p.ID, models.AuditActionDelete, "product "+p.Name+" deleted", p, nil)
	})
}

func writeProductLog(tx *gorm.DB, actor audit.Actor, id uint, action models.AuditAction, desc string, before, after any) error {
	if err := audit.WriteLog(tx, audit.LogOptions{
		Actor:       actor,
		EntityType:  "product",
		EntityID:    id,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	}); err != nil {
		return apperr.Store(err, "write audit log")
	}
	return nil
}
