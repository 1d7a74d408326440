package sales

import (
	"context"
	"fmt"
	"math"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/inventory"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateRequest is a counter operation. A zero UnitPrice takes the product's
// sale or rental price depending on Type.
type CreateRequest struct {
	Type       models.TransactionType
	ProductID  uint
	Quantity   int
	UnitPrice  float64
	AmountPaid float64
	Method     models.PaymentMethod
	Customer   customer.Identity
}

type Filter struct {
	Type          models.TransactionType
	Status        models.TransactionStatus
	PaymentStatus models.PaymentStatus
	CustomerID    uint
	From          *time.Time
	To            *time.Time // exclusive
	Limit         int
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (req CreateRequest) validate() error {
	if req.Type != models.TransactionSale && req.Type != models.TransactionRental {
		return apperr.New(apperr.KindInvalidAmount, "unknown transaction type %q", req.Type)
	}
	if req.Quantity < 1 {
		return apperr.New(apperr.KindInvalidAmount, "quantity must be at least 1")
	}
	for _, v := range []float64{req.UnitPrice, req.AmountPaid} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return apperr.New(apperr.KindInvalidAmount, "amounts must be zero or positive")
		}
	}
	if req.Method != "" && !req.Method.Valid() {
		return apperr.New(apperr.KindInvalidAmount, "unknown payment method %q", req.Method)
	}
	return nil
}

// Create records a sale or a counter rental. A sale takes its quantity out of
// stock in the same transaction; a counter rental books no calendar days.
func (s *Service) Create(ctx context.Context, req CreateRequest, actor audit.Actor) (*models.Transaction, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	method := req.Method
	if method == "" {
		method = models.PaymentMethodCash
	}

	var tr models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			return apperr.Store(err, fmt.Sprintf("product %d not found", req.ProductID))
		}

		unit := ledger.Round(req.UnitPrice)
		switch req.Type {
		case models.TransactionSale:
			if unit == 0 {
				unit = product.SalePrice
			}
			if err := inventory.AdjustStock(tx, product.ID, -req.Quantity); err != nil {
				return err
			}
		case models.TransactionRental:
			if !product.IsRentable {
				return apperr.New(apperr.KindNotFound, "product %d is not available for rental", product.ID)
			}
			if unit == 0 {
				unit = product.RentalPrice
			}
		}

		cust, err := customer.Upsert(tx, req.Customer)
		if err != nil {
			return err
		}

		total := ledger.Mul(unit, req.Quantity)
		paid := ledger.Round(req.AmountPaid)
		remaining, status := ledger.Derive(total, paid)

		tr = models.Transaction{
			Reference:       uuid.NewString(),
			Type:            req.Type,
			ProductID:       product.ID,
			Quantity:        req.Quantity,
			UnitPrice:       unit,
			TotalAmount:     total,
			AmountPaid:      paid,
			RemainingAmount: remaining,
			PaymentStatus:   status,
			CustomerName:    req.Customer.Name,
			CustomerPhone:   customer.NormalizePhone(req.Customer.Phone),
			CustomerEmail:   req.Customer.Email,
			Status:          models.TransactionCompleted,
			CreatedBy:       actor.Name,
		}
		if cust != nil {
			tr.CustomerID = &cust.ID
			if tr.CustomerName == "" {
				tr.CustomerName = cust.Name
			}
		}
		if err := tx.Create(&tr).Error; err != nil {
			return apperr.Store(err, "create transaction")
		}

		if paid > 0 {
			p := ledger.NewPayment(ledger.Target{Kind: ledger.KindTransaction, ID: tr.ID},
				paid, paid, remaining, status, method, actor.Name, s.now())
			if err := tx.Create(&p).Error; err != nil {
				return apperr.Store(err, "record payment")
			}
		}

		if err := audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "transaction",
			EntityID:    tr.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s of %d x %s for %.2f DA", tr.Type, tr.Quantity, product.Name, tr.TotalAmount),
			After:       tr,
		}); err != nil {
			return apperr.Store(err, "write audit log")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("transaction recorded",
		zap.Uint("transaction_id", tr.ID),
		zap.String("type", string(tr.Type)),
		zap.Float64("total", tr.TotalAmount),
		zap.String("payment_status", string(tr.PaymentStatus)))
	return &tr, nil
}

// Cancel voids a completed transaction. A cancelled sale puts its quantity
// back in stock; payments stay in the ledger.
func (s *Service) Cancel(ctx context.Context, id uint, actor audit.Actor) (*models.Transaction, error) {
	var tr models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tr, id).Error; err != nil {
			return apperr.Store(err, fmt.Sprintf("transaction %d not found", id))
		}
		if tr.Status != models.TransactionCompleted {
			return apperr.New(apperr.KindConflict, "transaction %d is already %s", tr.ID, tr.Status)
		}
		before := tr

		now := s.now()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", tr.ID, models.TransactionCompleted).
			Updates(map[string]any{"status": models.TransactionCancelled, "cancelled_at": now, "updated_at": now})
		if res.Error != nil {
			return apperr.Store(res.Error, "cancel transaction")
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.KindConflict, "transaction %d was cancelled concurrently", tr.ID)
		}
		tr.Status = models.TransactionCancelled
		tr.CancelledAt = &now
		tr.UpdatedAt = now

		if tr.Type == models.TransactionSale {
			if err := inventory.AdjustStock(tx, tr.ProductID, tr.Quantity); err != nil {
				return err
			}
		}

		if err := audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "transaction",
			EntityID:    tr.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("transaction %d cancelled", tr.ID),
			Before:      before,
			After:       tr,
		}); err != nil {
			return apperr.Store(err, "write audit log")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("transaction cancelled", zap.Uint("transaction_id", tr.ID))
	return &tr, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	var tr models.Transaction
	if err := s.db.WithContext(ctx).First(&tr, id).Error; err != nil {
		return nil, apperr.Store(err, fmt.Sprintf("transaction %d not found", id))
	}
	return &tr, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.UTC())
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var out []models.Transaction
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, apperr.Store(err, "list transactions")
	}
	return out, nil
}
