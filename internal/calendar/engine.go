package calendar

import (
	"context"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/cache"
	"rentpos-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Month lists every day of a month exactly once, either available or reserved.
// Degraded is set when the store could not be read and every day was reported
// available.
type Month struct {
	ProductID      uint     `json:"product_id"`
	Month          string   `json:"month"` // YYYY-MM
	AvailableDates []string `json:"available_dates"`
	ReservedDates  []string `json:"reserved_dates"`
	Degraded       bool     `json:"degraded"`
}

type Engine struct {
	db    *gorm.DB
	cache *cache.MonthCache
	log   *zap.Logger
}

func NewEngine(db *gorm.DB, c *cache.MonthCache, log *zap.Logger) *Engine {
	return &Engine{db: db, cache: c, log: log}
}

// RangeFree reports whether no reserved entry of the product falls within
// [start, end], both days included. It runs on whatever handle it is given,
// so a caller can use it inside its own transaction.
func RangeFree(tx *gorm.DB, productID uint, start, end time.Time) (bool, error) {
	if Day(start).After(Day(end)) {
		return false, apperr.New(apperr.KindInvalidAmount, "start date %s is after end date %s", Key(start), Key(end))
	}

	var count int64
	err := tx.Model(&models.CalendarEntry{}).
		Where("product_id = ? AND status = ? AND date BETWEEN ? AND ?",
			productID, models.CalendarReserved, Key(start), Key(end)).
		Count(&count).Error
	if err != nil {
		return false, apperr.Store(err, "read calendar")
	}
	return count == 0, nil
}

func (e *Engine) IsRangeFree(ctx context.Context, productID uint, start, end time.Time) (bool, error) {
	return RangeFree(e.db.WithContext(ctx), productID, start, end)
}

// MonthAvailability never fails: a store error yields an all-available month
// with Degraded set. Writers never rely on this read; the reserved index
// rejects double bookings regardless.
func (e *Engine) MonthAvailability(ctx context.Context, productID uint, year int, month time.Month) Month {
	var cached Month
	if e.cache.Get(ctx, productID, year, month, &cached) {
		return cached
	}

	first, last := MonthBounds(year, month)
	out := Month{
		ProductID:      productID,
		Month:          first.Format("2006-01"),
		AvailableDates: []string{},
		ReservedDates:  []string{},
	}

	var reservedKeys []string
	err := e.db.WithContext(ctx).Model(&models.CalendarEntry{}).
		Where("product_id = ? AND status = ? AND date BETWEEN ? AND ?",
			productID, models.CalendarReserved, Key(first), Key(last)).
		Pluck("date", &reservedKeys).Error
	if err != nil {
		e.log.Warn("month availability read failed, reporting all days available",
			zap.Uint("product_id", productID),
			zap.String("month", out.Month),
			zap.Error(err))
		out.Degraded = true
		reservedKeys = nil
	}

	reserved := make(map[string]bool, len(reservedKeys))
	for _, k := range reservedKeys {
		reserved[k] = true
	}
	for _, d := range Days(first, last) {
		k := Key(d)
		if reserved[k] {
			out.ReservedDates = append(out.ReservedDates, k)
		} else {
			out.AvailableDates = append(out.AvailableDates, k)
		}
	}

	if !out.Degraded {
		e.cache.Set(ctx, productID, year, month, out)
	}
	return out
}

// Invalidate drops cached months touched by [start, end].
func (e *Engine) Invalidate(ctx context.Context, productID uint, start, end time.Time) {
	for _, m := range Months(start, end) {
		e.cache.Invalidate(ctx, productID, m.Year(), m.Month())
	}
}
