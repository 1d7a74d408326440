package stats

import (
	"context"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"
	"rentpos-backend/internal/rental"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Range is [From, To).
type Range struct {
	From time.Time
	To   time.Time
}

type Summary struct {
	From string `json:"from"`
	To   string `json:"to"`

	SalesCount   int     `json:"sales_count"`
	SalesRevenue float64 `json:"sales_revenue"`

	// counter rentals and booked rentals created in the range
	RentalCount   int     `json:"rental_count"`
	RentalRevenue float64 `json:"rental_revenue"`

	ActiveRentals  int `json:"active_rentals"`
	OverdueRentals int `json:"overdue_rentals"`

	// still owed on every open record, whatever the range
	OutstandingBalance float64 `json:"outstanding_balance"`
	PaymentsReceived   float64 `json:"payments_received"`
	PaymentsCount      int     `json:"payments_count"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Summary is read-only; the counts come from one snapshot per table.
func (s *Service) Summary(ctx context.Context, rng Range, now time.Time) (Summary, error) {
	db := s.db.WithContext(ctx)
	from, to := rng.From.UTC(), rng.To.UTC()
	out := Summary{From: rng.From.Format("2006-01-02"), To: rng.To.AddDate(0, 0, -1).Format("2006-01-02")}

	var transactions []models.Transaction
	if err := db.Select("type", "total_amount").
		Where("status = ? AND created_at >= ? AND created_at < ?", models.TransactionCompleted, from, to).
		Find(&transactions).Error; err != nil {
		return out, apperr.Store(err, "read transactions")
	}
	var sales, counter []float64
	for _, t := range transactions {
		if t.Type == models.TransactionSale {
			sales = append(sales, t.TotalAmount)
		} else {
			counter = append(counter, t.TotalAmount)
		}
	}

	var booked []float64
	if err := db.Model(&models.Rental{}).
		Where("status <> ? AND created_at >= ? AND created_at < ?", models.RentalCancelled, from, to).
		Pluck("total_amount", &booked).Error; err != nil {
		return out, apperr.Store(err, "read rentals")
	}

	out.SalesCount = len(sales)
	out.SalesRevenue = ledger.Sum(sales...)
	out.RentalCount = len(counter) + len(booked)
	out.RentalRevenue = ledger.Sum(ledger.Sum(counter...), ledger.Sum(booked...))

	var active []models.Rental
	if err := db.Select("id", "status", "end_date").
		Where("status = ?", models.RentalActive).Find(&active).Error; err != nil {
		return out, apperr.Store(err, "read active rentals")
	}
	for _, r := range active {
		if rental.Classify(r, now) == models.RentalOverdue {
			out.OverdueRentals++
		} else {
			out.ActiveRentals++
		}
	}

	var owedTransactions, owedRentals []float64
	if err := db.Model(&models.Transaction{}).
		Where("status = ? AND remaining_amount > 0", models.TransactionCompleted).
		Pluck("remaining_amount", &owedTransactions).Error; err != nil {
		return out, apperr.Store(err, "read open transactions")
	}
	if err := db.Model(&models.Rental{}).
		Where("status <> ? AND remaining_amount > 0", models.RentalCancelled).
		Pluck("remaining_amount", &owedRentals).Error; err != nil {
		return out, apperr.Store(err, "read open rentals")
	}
	out.OutstandingBalance = ledger.Sum(append(owedTransactions, owedRentals...)...)

	var received []float64
	if err := db.Model(&models.Payment{}).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Pluck("amount", &received).Error; err != nil {
		return out, apperr.Store(err, "read payments")
	}
	out.PaymentsCount = len(received)
	out.PaymentsReceived = ledger.Sum(received...)

	return out, nil
}
