// Package receipt builds the printable view of a sale or rental: the line,
// totals, balance and every payment taken so far.
package receipt

import (
	"context"
	"fmt"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"
	"rentpos-backend/internal/rental"

	"gorm.io/gorm"
)

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Line struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"` // "item" or "day"
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

type PaymentLine struct {
	Reference string               `json:"reference"`
	Amount    float64              `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	Agent     string               `json:"agent"`
	PaidAt    time.Time            `json:"paid_at"`
}

type Receipt struct {
	Kind      ledger.Kind `json:"kind"`
	Number    string      `json:"number"`
	Reference string      `json:"reference"`
	IssuedAt  time.Time   `json:"issued_at"`
	CreatedAt time.Time   `json:"created_at"`
	CreatedBy string      `json:"created_by"`
	Status    string      `json:"status"`

	Customer Customer `json:"customer"`
	Lines    []Line   `json:"lines"`
	Period   *Period  `json:"period,omitempty"`

	TotalAmount     float64              `json:"total_amount"`
	AmountPaid      float64              `json:"amount_paid"`
	RemainingAmount float64              `json:"remaining_amount"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	Payments        []PaymentLine        `json:"payments"`
}

type Service struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

func NewService(db *gorm.DB, l *ledger.Ledger) *Service {
	return &Service{db: db, ledger: l}
}

func productLabel(p models.Product) string {
	label := p.Name
	for _, extra := range []string{p.Size, p.Color} {
		if extra != "" {
			label += " - " + extra
		}
	}
	return label
}

func (s *Service) payments(ctx context.Context, target ledger.Target) ([]PaymentLine, error) {
	history, err := s.ledger.History(ctx, target)
	if err != nil {
		return nil, err
	}
	lines := make([]PaymentLine, 0, len(history))
	for _, p := range history {
		lines = append(lines, PaymentLine{
			Reference: p.Reference,
			Amount:    p.Amount,
			Method:    p.Method,
			Agent:     p.Agent,
			PaidAt:    p.PaidAt,
		})
	}
	return lines, nil
}

// ForRental renders a rental receipt; the status shown is the one derived at now.
func (s *Service) ForRental(ctx context.Context, id uint, now time.Time) (*Receipt, error) {
	var r models.Rental
	if err := s.db.WithContext(ctx).Preload("Product").First(&r, id).Error; err != nil {
		return nil, apperr.Store(err, fmt.Sprintf("rental %d not found", id))
	}
	payments, err := s.payments(ctx, ledger.Target{Kind: ledger.KindRental, ID: r.ID})
	if err != nil {
		return nil, err
	}

	v := rental.NewView(r, now)
	unit := r.TotalAmount
	if v.Days > 0 {
		unit = ledger.Round(r.TotalAmount / float64(v.Days))
	}
	return &Receipt{
		Kind:      ledger.KindRental,
		Number:    fmt.Sprintf("LOC-%06d", r.ID),
		Reference: r.Reference,
		IssuedAt:  now,
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
		Status:    string(v.Status),
		Customer:  Customer{Name: r.CustomerName, Phone: r.CustomerPhone, Email: r.CustomerEmail},
		Lines: []Line{{
			Description: productLabel(r.Product),
			Quantity:    v.Days,
			Unit:        "day",
			UnitPrice:   unit,
			Total:       r.TotalAmount,
		}},
		Period: &Period{
			Start: calendar.Key(r.StartDate.UTC()),
			End:   calendar.Key(r.EndDate.UTC()),
			Days:  v.Days,
		},
		TotalAmount:     r.TotalAmount,
		AmountPaid:      r.AmountPaid,
		RemainingAmount: r.RemainingAmount,
		PaymentStatus:   r.PaymentStatus,
		Payments:        payments,
	}, nil
}

func (s *Service) ForTransaction(ctx context.Context, id uint, now time.Time) (*Receipt, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Preload("Product").First(&t, id).Error; err != nil {
		return nil, apperr.Store(err, fmt.Sprintf("transaction %d not found", id))
	}
	payments, err := s.payments(ctx, ledger.Target{Kind: ledger.KindTransaction, ID: t.ID})
	if err != nil {
		return nil, err
	}

	prefix, unit := "VNT", "item"
	if t.Type == models.TransactionRental {
		prefix, unit = "LOC-C", "day"
	}
	return &Receipt{
		Kind:      ledger.KindTransaction,
		Number:    fmt.Sprintf("%s-%06d", prefix, t.ID),
		Reference: t.Reference,
		IssuedAt:  now,
		CreatedAt: t.CreatedAt,
		CreatedBy: t.CreatedBy,
		Status:    string(t.Status),
		Customer:  Customer{Name: t.CustomerName, Phone: t.CustomerPhone, Email: t.CustomerEmail},
		Lines: []Line{{
			Description: productLabel(t.Product),
			Quantity:    t.Quantity,
			Unit:        unit,
			UnitPrice:   t.UnitPrice,
			Total:       t.TotalAmount,
		}},
		TotalAmount:     t.TotalAmount,
		AmountPaid:      t.AmountPaid,
		RemainingAmount: t.RemainingAmount,
		PaymentStatus:   t.PaymentStatus,
		Payments:        payments,
	}, nil
}
