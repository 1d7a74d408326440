package rental

import (
	"context"
	"fmt"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DayConflict is a day an active rental should hold but another rental has.
type DayConflict struct {
	RentalID  uint   `json:"rental_id"`
	ProductID uint   `json:"product_id"`
	Date      string `json:"date"`
	HeldBy    uint   `json:"held_by"`
}

type ReconcileReport struct {
	Scanned   int           `json:"scanned"`
	Created   int           `json:"created"`
	Released  int           `json:"released"`
	Conflicts []DayConflict `json:"conflicts"`
}

// Reconcile rebuilds calendar entries from the rental rows. Active rentals
// get back any missing day; days still reserved for closed rentals, or
// outside their rental's range, are released. Each rental is repaired in its
// own transaction so one bad row does not block the rest.
func (s *Service) Reconcile(ctx context.Context, productID *uint) (ReconcileReport, error) {
	report := ReconcileReport{Conflicts: []DayConflict{}}

	q := s.db.WithContext(ctx).Model(&models.Rental{}).Order("id ASC")
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	var rentals []models.Rental
	if err := q.Find(&rentals).Error; err != nil {
		return report, apperr.Store(err, "list rentals")
	}

	for _, r := range rentals {
		report.Scanned++
		var created, released int
		var conflicts []DayConflict
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			created, released, conflicts, err = reconcileRental(tx, r)
			return err
		})
		if err != nil {
			return report, err
		}
		report.Created += created
		report.Released += released
		report.Conflicts = append(report.Conflicts, conflicts...)
		if created+released > 0 {
			s.engine.Invalidate(ctx, r.ProductID, r.StartDate.UTC(), r.EndDate.UTC())
		}
	}

	s.log.Info("calendar reconciled",
		zap.Int("scanned", report.Scanned),
		zap.Int("created", report.Created),
		zap.Int("released", report.Released),
		zap.Int("conflicts", len(report.Conflicts)))
	return report, nil
}

func reconcileRental(tx *gorm.DB, r models.Rental) (created, released int, conflicts []DayConflict, err error) {
	var entries []models.CalendarEntry
	if err = tx.Where("rental_id = ?", r.ID).Find(&entries).Error; err != nil {
		return 0, 0, nil, apperr.Store(err, "read rental calendar")
	}

	want := map[string]bool{}
	if r.Status == models.RentalActive {
		for _, d := range calendar.Days(startDay(r), endDay(r)) {
			want[calendar.Key(d)] = true
		}
	}

	have := map[string]models.CalendarEntry{}
	for _, e := range entries {
		if e.Status == models.CalendarReserved && !want[e.Date] {
			if err = tx.Model(&models.CalendarEntry{}).Where("id = ?", e.ID).
				Update("status", models.CalendarAvailable).Error; err != nil {
				return 0, 0, nil, apperr.Store(err, "release stray day")
			}
			released++
			continue
		}
		if prev, ok := have[e.Date]; !ok || prev.Status != models.CalendarReserved {
			have[e.Date] = e
		}
	}

	for _, d := range calendar.Days(startDay(r), endDay(r)) {
		key := calendar.Key(d)
		if !want[key] {
			continue
		}
		if e, ok := have[key]; ok && e.Status == models.CalendarReserved {
			continue
		}

		var holder models.CalendarEntry
		res := tx.Where("product_id = ? AND date = ? AND status = ?", r.ProductID, key, models.CalendarReserved).
			Limit(1).Find(&holder)
		if res.Error != nil {
			return 0, 0, nil, apperr.Store(res.Error, "read day holder")
		}
		if res.RowsAffected > 0 {
			conflicts = append(conflicts, DayConflict{RentalID: r.ID, ProductID: r.ProductID, Date: key, HeldBy: holder.RentalID})
			continue
		}

		if e, ok := have[key]; ok {
			err = tx.Model(&models.CalendarEntry{}).Where("id = ?", e.ID).Update("status", models.CalendarReserved).Error
		} else {
			err = tx.Create(&models.CalendarEntry{
				ProductID: r.ProductID, RentalID: r.ID, Date: key, Status: models.CalendarReserved,
			}).Error
		}
		if err != nil {
			return 0, 0, nil, apperr.Store(err, fmt.Sprintf("restore %s for rental %d", key, r.ID))
		}
		created++
	}
	return created, released, conflicts, nil
}
