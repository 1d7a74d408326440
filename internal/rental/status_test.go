package rental

import (
	"testing"
	"time"

	"rentpos-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	end := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		status models.RentalStatus
		now    time.Time
		want   models.RentalStatus
	}{
		{"last day, morning", models.RentalActive, time.Date(2024, 6, 12, 8, 0, 0, 0, time.UTC), models.RentalActive},
		{"last day, late evening", models.RentalActive, time.Date(2024, 6, 12, 23, 59, 0, 0, time.UTC), models.RentalActive},
		{"day after", models.RentalActive, time.Date(2024, 6, 13, 0, 0, 1, 0, time.UTC), models.RentalOverdue},
		{"returned late stays returned", models.RentalReturned, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), models.RentalReturned},
		{"cancelled stays cancelled", models.RentalCancelled, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), models.RentalCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := models.Rental{Status: tc.status, StartDate: end.AddDate(0, 0, -2), EndDate: end}
			assert.Equal(t, tc.want, Classify(r, tc.now))
		})
	}
}

func TestClassifyUsesLocalCalendarDay(t *testing.T) {
	algiers := time.FixedZone("CET", 3600)
	r := models.Rental{Status: models.RentalActive, EndDate: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)}

	// 23:30 UTC on the 12th is already the 13th in Algiers
	now := time.Date(2024, 6, 12, 23, 30, 0, 0, time.UTC).In(algiers)
	assert.Equal(t, models.RentalOverdue, Classify(r, now))
}

func TestNewView(t *testing.T) {
	r := models.Rental{
		Status:    models.RentalActive,
		StartDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
	}
	v := NewView(r, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, models.RentalOverdue, v.Status)
	assert.True(t, v.Overdue)
	assert.Equal(t, 3, v.Days)
	assert.Equal(t, models.RentalActive, v.Rental.Status, "stored status untouched")
}
