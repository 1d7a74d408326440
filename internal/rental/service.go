package rental

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommitRequest describes a rental to book. A zero TotalAmount is priced as
// the product's rental price times the number of days.
type CommitRequest struct {
	ProductID   uint
	Start       time.Time
	End         time.Time
	TotalAmount float64
	AmountPaid  float64 // deposit taken at the counter
	Method      models.PaymentMethod
	Customer    customer.Identity
	Notes       string
}

type Service struct {
	db     *gorm.DB
	engine *calendar.Engine
	log    *zap.Logger
	// local clock; overdue is judged on the shop's calendar day
	now func() time.Time
}

func NewService(db *gorm.DB, engine *calendar.Engine, log *zap.Logger) *Service {
	return &Service{db: db, engine: engine, log: log, now: time.Now}
}

func (req CommitRequest) validate() error {
	if req.Start.IsZero() || req.End.IsZero() {
		return apperr.New(apperr.KindInvalidAmount, "start and end dates are required")
	}
	if calendar.Day(req.Start).After(calendar.Day(req.End)) {
		return apperr.New(apperr.KindInvalidAmount, "start date %s is after end date %s",
			calendar.Key(req.Start), calendar.Key(req.End))
	}
	for _, v := range []float64{req.TotalAmount, req.AmountPaid} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return apperr.New(apperr.KindInvalidAmount, "amounts must be zero or positive")
		}
	}
	if req.Method != "" && !req.Method.Valid() {
		return apperr.New(apperr.KindInvalidAmount, "unknown payment method %q", req.Method)
	}
	return nil
}

// Commit books the product for every day of the range. The availability
// read, the rental row, its calendar days, the deposit and the audit row
// commit together; the reserved-day unique index rejects any overlap that
// slips past the read.
func (s *Service) Commit(ctx context.Context, req CommitRequest, actor audit.Actor) (*models.Rental, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	start, end := calendar.Day(req.Start), calendar.Day(req.End)
	days := calendar.Days(start, end)
	method := req.Method
	if method == "" {
		method = models.PaymentMethodCash
	}

	var r models.Rental
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			return apperr.Store(err, fmt.Sprintf("product %d not found", req.ProductID))
		}
		if !product.IsRentable {
			return apperr.New(apperr.KindNotFound, "product %d is not available for rental", product.ID)
		}

		free, err := calendar.RangeFree(tx, product.ID, start, end)
		if err != nil {
			return err
		}
		if !free {
			return apperr.New(apperr.KindConflict, "%s is already reserved between %s and %s",
				product.Name, calendar.Key(start), calendar.Key(end))
		}

		cust, err := customer.Upsert(tx, req.Customer)
		if err != nil {
			return err
		}

		total := ledger.Round(req.TotalAmount)
		if total == 0 {
			total = ledger.Mul(product.RentalPrice, len(days))
		}
		paid := ledger.Round(req.AmountPaid)
		remaining, status := ledger.Derive(total, paid)

		r = models.Rental{
			Reference:       uuid.NewString(),
			ProductID:       product.ID,
			CustomerName:    req.Customer.Name,
			CustomerPhone:   customer.NormalizePhone(req.Customer.Phone),
			CustomerEmail:   req.Customer.Email,
			StartDate:       start,
			EndDate:         end,
			TotalAmount:     total,
			AmountPaid:      paid,
			RemainingAmount: remaining,
			PaymentStatus:   status,
			Status:          models.RentalActive,
			Notes:           req.Notes,
			CreatedBy:       actor.Name,
		}
		if cust != nil {
			r.CustomerID = &cust.ID
			if r.CustomerName == "" {
				r.CustomerName = cust.Name
			}
		}
		if err := tx.Create(&r).Error; err != nil {
			return apperr.Store(err, "create rental")
		}

		entries := make([]models.CalendarEntry, 0, len(days))
		for _, d := range days {
			entries = append(entries, models.CalendarEntry{
				ProductID: product.ID,
				RentalID:  r.ID,
				Date:      calendar.Key(d),
				Status:    models.CalendarReserved,
			})
		}
		if err := tx.Create(&entries).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.New(apperr.KindConflict, "%s was reserved concurrently between %s and %s",
					product.Name, calendar.Key(start), calendar.Key(end))
			}
			return apperr.Store(err, "reserve calendar days")
		}

		if paid > 0 {
			p := ledger.NewPayment(ledger.Target{Kind: ledger.KindRental, ID: r.ID},
				paid, paid, remaining, status, method, actor.Name, s.now().UTC())
			if err := tx.Create(&p).Error; err != nil {
				return apperr.Store(err, "record deposit")
			}
		}

		if err := audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "rental",
			EntityID:    r.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("rental of %s from %s to %s for %s", product.Name, calendar.Key(start), calendar.Key(end), r.CustomerName),
			After:       r,
		}); err != nil {
			return apperr.Store(err, "write audit log")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.Conflict) {
			s.log.Info("rental rejected, range taken",
				zap.Uint("product_id", req.ProductID),
				zap.String("start", calendar.Key(start)),
				zap.String("end", calendar.Key(end)))
		}
		return nil, err
	}

	s.engine.Invalidate(ctx, r.ProductID, start, end)
	s.log.Info("rental committed",
		zap.Uint("rental_id", r.ID),
		zap.Uint("product_id", r.ProductID),
		zap.String("start", calendar.Key(start)),
		zap.String("end", calendar.Key(end)),
		zap.String("payment_status", string(r.PaymentStatus)))
	return &r, nil
}

func releaseDays(tx *gorm.DB, rentalID uint) (int64, error) {
	res := tx.Model(&models.CalendarEntry{}).
		Where("rental_id = ? AND status = ?", rentalID, models.CalendarReserved).
		Update("status", models.CalendarAvailable)
	if res.Error != nil {
		return 0, apperr.Store(res.Error, "release calendar days")
	}
	return res.RowsAffected, nil
}

// Release frees every day held by the rental. Releasing twice is harmless.
func (s *Service) Release(ctx context.Context, rentalID uint) error {
	var r models.Rental
	if err := s.db.WithContext(ctx).First(&r, rentalID).Error; err != nil {
		return apperr.Store(err, fmt.Sprintf("rental %d not found", rentalID))
	}
	n, err := releaseDays(s.db.WithContext(ctx), rentalID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.engine.Invalidate(ctx, r.ProductID, r.StartDate.UTC(), r.EndDate.UTC())
	}
	return nil
}

// Return closes an active rental and frees its days.
func (s *Service) Return(ctx context.Context, rentalID uint, actor audit.Actor) (*models.Rental, error) {
	return s.close(ctx, rentalID, models.RentalReturned, actor)
}

// Cancel voids an active rental and frees its days. Payments already taken
// stay in the ledger.
func (s *Service) Cancel(ctx context.Context, rentalID uint, actor audit.Actor) (*models.Rental, error) {
	return s.close(ctx, rentalID, models.RentalCancelled, actor)
}

func (s *Service) close(ctx context.Context, rentalID uint, to models.RentalStatus, actor audit.Actor) (*models.Rental, error) {
	var r models.Rental
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&r, rentalID).Error; err != nil {
			return apperr.Store(err, fmt.Sprintf("rental %d not found", rentalID))
		}
		if r.Status != models.RentalActive {
			return apperr.New(apperr.KindConflict, "rental %d is %s, only active rentals can be %s", r.ID, r.Status, to)
		}
		before := r

		now := s.now().UTC()
		updates := map[string]any{"status": to, "updated_at": now}
		if to == models.RentalReturned {
			updates["returned_at"] = now
			r.ReturnedAt = &now
		} else {
			updates["cancelled_at"] = now
			r.CancelledAt = &now
		}
		// guarded on the status so two closes racing cannot both win
		res := tx.Model(&models.Rental{}).Where("id = ? AND status = ?", r.ID, models.RentalActive).Updates(updates)
		if res.Error != nil {
			return apperr.Store(res.Error, "update rental status")
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.KindConflict, "rental %d was closed concurrently", r.ID)
		}
		r.Status = to
		r.UpdatedAt = now

		if _, err := releaseDays(tx, r.ID); err != nil {
			return err
		}

		if err := audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "rental",
			EntityID:    r.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("rental %d %s", r.ID, to),
			Before:      before,
			After:       r,
		}); err != nil {
			return apperr.Store(err, "write audit log")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.engine.Invalidate(ctx, r.ProductID, r.StartDate.UTC(), r.EndDate.UTC())
	s.log.Info("rental closed", zap.Uint("rental_id", r.ID), zap.String("status", string(to)))
	return &r, nil
}
