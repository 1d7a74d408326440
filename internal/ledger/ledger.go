package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Kind string

const (
	KindTransaction Kind = "transaction"
	KindRental      Kind = "rental"
)

// Target is the record a payment is applied to.
type Target struct {
	Kind Kind
	ID   uint
}

func (t Target) model() (any, error) {
	switch t.Kind {
	case KindTransaction:
		return &models.Transaction{}, nil
	case KindRental:
		return &models.Rental{}, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "unknown payment target %q", t.Kind)
}

func (t Target) column() string {
	if t.Kind == KindRental {
		return "rental_id"
	}
	return "transaction_id"
}

// Outcome is the balance after a payment. Applied is false when the target
// did not exist at write time; nothing was written in that case.
type Outcome struct {
	Applied         bool                 `json:"applied"`
	AmountPaid      float64              `json:"amount_paid"`
	RemainingAmount float64              `json:"remaining_amount"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	Payment         *models.Payment      `json:"payment,omitempty"`
}

type Ledger struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func New(db *gorm.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// ApplyPayment adds amount to the target's paid total and appends a payment
// row. The increment happens in SQL so concurrent payments on the same record
// are never lost.
func (l *Ledger) ApplyPayment(ctx context.Context, target Target, amount float64, method models.PaymentMethod, actor audit.Actor) (Outcome, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || Round(amount) <= 0 {
		return Outcome{}, apperr.New(apperr.KindInvalidAmount, "payment amount must be greater than 0")
	}
	amount = Round(amount)
	if method == "" {
		method = models.PaymentMethodCash
	}
	if !method.Valid() {
		return Outcome{}, apperr.New(apperr.KindInvalidAmount, "unknown payment method %q", method)
	}
	model, err := target.model()
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(model).Where("id = ?", target.ID).
			UpdateColumn("amount_paid", gorm.Expr("amount_paid + ?", amount))
		if res.Error != nil {
			return apperr.Store(res.Error, "increment amount paid")
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var row struct {
			TotalAmount float64
			AmountPaid  float64
		}
		if err := tx.Model(model).Select("total_amount", "amount_paid").
			Where("id = ?", target.ID).Take(&row).Error; err != nil {
			return apperr.Store(err, "read balance")
		}

		paid := Round(row.AmountPaid)
		remaining, status := Derive(row.TotalAmount, paid)
		if err := tx.Model(model).Where("id = ?", target.ID).Updates(map[string]any{
			"amount_paid":      paid,
			"remaining_amount": remaining,
			"payment_status":   status,
			"updated_at":       l.now(),
		}).Error; err != nil {
			return apperr.Store(err, "update balance")
		}

		p := NewPayment(target, amount, paid, remaining, status, method, actor.Name, l.now())
		if err := tx.Create(&p).Error; err != nil {
			return apperr.Store(err, "append payment")
		}

		if err := audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "payment",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("payment of %.2f DA on %s #%d, remaining %.2f DA", amount, target.Kind, target.ID, remaining),
			After:       p,
		}); err != nil {
			return apperr.Store(err, "write audit log")
		}

		out = Outcome{
			Applied:         true,
			AmountPaid:      paid,
			RemainingAmount: remaining,
			PaymentStatus:   status,
			Payment:         &p,
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.Applied {
		l.log.Warn("payment target not found, nothing applied",
			zap.String("kind", string(target.Kind)),
			zap.Uint("id", target.ID),
			zap.Float64("amount", amount))
	}
	return out, nil
}

// History lists the payments of a target, oldest first.
func (l *Ledger) History(ctx context.Context, target Target) ([]models.Payment, error) {
	if _, err := target.model(); err != nil {
		return nil, err
	}
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where(target.column()+" = ?", target.ID).
		Order("paid_at ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, apperr.Store(err, "list payments")
	}
	return payments, nil
}

// NewPayment builds the ledger row for a payment already reflected in the
// target's balance.
func NewPayment(target Target, amount, paidAfter, remaining float64, status models.PaymentStatus, method models.PaymentMethod, agent string, at time.Time) models.Payment {
	p := models.Payment{
		Reference:       uuid.NewString(),
		Amount:          amount,
		AmountPaidAfter: paidAfter,
		RemainingAmount: remaining,
		Method:          method,
		Agent:           agent,
		IsCompleted:     status == models.PaymentCompleted,
		PaidAt:          at,
	}
	id := target.ID
	if target.Kind == KindRental {
		p.RentalID = &id
	} else {
		p.TransactionID = &id
	}
	return p
}
