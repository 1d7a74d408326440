package rental

import (
	"context"
	"fmt"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/models"
)

type Filter struct {
	// Status matches the derived status, so "active" excludes overdue rentals.
	Status     models.RentalStatus
	ProductID  uint
	CustomerID uint
	Phone      string
	// From/To keep rentals whose range overlaps the window.
	From  *time.Time
	To    *time.Time
	Limit int
}

func (s *Service) Get(ctx context.Context, id uint) (View, error) {
	var r models.Rental
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return View{}, apperr.Store(err, fmt.Sprintf("rental %d not found", id))
	}
	return NewView(r, s.now()), nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]View, error) {
	now := s.now()
	today := calendar.Day(now)

	q := s.db.WithContext(ctx).Model(&models.Rental{})
	switch f.Status {
	case "":
	case models.RentalOverdue:
		q = q.Where("status = ? AND end_date < ?", models.RentalActive, today)
	case models.RentalActive:
		q = q.Where("status = ? AND end_date >= ?", models.RentalActive, today)
	case models.RentalReturned, models.RentalCancelled:
		q = q.Where("status = ?", f.Status)
	default:
		return nil, apperr.New(apperr.KindInvalidAmount, "unknown rental status %q", f.Status)
	}
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Phone != "" {
		q = q.Where("customer_phone = ?", f.Phone)
	}
	if f.From != nil {
		q = q.Where("end_date >= ?", calendar.Day(*f.From))
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", calendar.Day(*f.To))
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rentals []models.Rental
	if err := q.Order("start_date DESC, id DESC").Limit(limit).Find(&rentals).Error; err != nil {
		return nil, apperr.Store(err, "list rentals")
	}

	views := make([]View, 0, len(rentals))
	for _, r := range rentals {
		views = append(views, NewView(r, now))
	}
	return views, nil
}
