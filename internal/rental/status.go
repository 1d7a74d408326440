package rental

import (
	"time"

	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/models"
)

// Classify returns the status a rental shows at now. Overdue is never stored:
// an active rental whose last day is before today reads as overdue.
func Classify(r models.Rental, now time.Time) models.RentalStatus {
	if r.Status == models.RentalActive && endDay(r).Before(calendar.Day(now)) {
		return models.RentalOverdue
	}
	return r.Status
}

// View is a rental as served to clients, with its derived status.
type View struct {
	models.Rental
	Status  models.RentalStatus `json:"status"`
	Overdue bool                `json:"overdue"`
	Days    int                 `json:"days"`
}

func NewView(r models.Rental, now time.Time) View {
	status := Classify(r, now)
	return View{
		Rental:  r,
		Status:  status,
		Overdue: status == models.RentalOverdue,
		Days:    calendar.Count(startDay(r), endDay(r)),
	}
}

// Rental dates are written at 00:00 UTC; read them back in UTC whatever the
// session time zone of the store.
func startDay(r models.Rental) time.Time { return calendar.Day(r.StartDate.UTC()) }
func endDay(r models.Rental) time.Time   { return calendar.Day(r.EndDate.UTC()) }
