package stats_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/database/dbtest"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"
	"rentpos-backend/internal/rental"
	"rentpos-backend/internal/sales"
	"rentpos-backend/internal/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var cashier = audit.Actor{UserID: 1, Name: "Kamel"}

func TestSummary(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	log := zap.NewNop()

	dress := models.Product{Name: "Robe", RentalPrice: 1000, IsRentable: true}
	scarf := models.Product{Name: "Foulard", SalePrice: 700, Stock: 10}
	require.NoError(t, db.Create(&dress).Error)
	require.NoError(t, db.Create(&scarf).Error)

	engine := calendar.NewEngine(db, nil, log)
	rentals := rental.NewService(db, engine, log)
	counter := sales.NewService(db, log)
	l := ledger.New(db, log)

	today := calendar.Day(time.Now())
	who := customer.Identity{Name: "Sonia"}

	// overdue, fully paid at the counter
	_, err := rentals.Commit(ctx, rental.CommitRequest{
		ProductID: dress.ID, Start: today.AddDate(0, 0, -4), End: today.AddDate(0, 0, -2),
		AmountPaid: 3000, Customer: who,
	}, cashier)
	require.NoError(t, err)
	// active, 500 of 2000 paid
	current, err := rentals.Commit(ctx, rental.CommitRequest{
		ProductID: dress.ID, Start: today, End: today.AddDate(0, 0, 1), AmountPaid: 500, Customer: who,
	}, cashier)
	require.NoError(t, err)
	// cancelled, ignored everywhere but payments
	gone, err := rentals.Commit(ctx, rental.CommitRequest{
		ProductID: dress.ID, Start: today.AddDate(0, 0, 5), End: today.AddDate(0, 0, 5), Customer: who,
	}, cashier)
	require.NoError(t, err)
	_, err = rentals.Cancel(ctx, gone.ID, cashier)
	require.NoError(t, err)

	sale, err := counter.Create(ctx, sales.CreateRequest{Type: models.TransactionSale, ProductID: scarf.ID, Quantity: 2}, cashier)
	require.NoError(t, err)
	_, err = l.ApplyPayment(ctx, ledger.Target{Kind: ledger.KindTransaction, ID: sale.ID}, 400, models.PaymentMethodCard, cashier)
	require.NoError(t, err)
	voided, err := counter.Create(ctx, sales.CreateRequest{Type: models.TransactionSale, ProductID: scarf.ID, Quantity: 1}, cashier)
	require.NoError(t, err)
	_, err = counter.Cancel(ctx, voided.ID, cashier)
	require.NoError(t, err)

	s := stats.NewService(db, log)
	rng := stats.Range{From: today.AddDate(0, 0, -1), To: today.AddDate(0, 0, 2)}
	sum, err := s.Summary(ctx, rng, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.SalesCount)
	assert.Equal(t, 1400.0, sum.SalesRevenue)
	assert.Equal(t, 2, sum.RentalCount)
	assert.Equal(t, 5000.0, sum.RentalRevenue)
	assert.Equal(t, 1, sum.ActiveRentals)
	assert.Equal(t, 1, sum.OverdueRentals)
	assert.Equal(t, 1000.0+1500.0, sum.OutstandingBalance)
	assert.Equal(t, 3, sum.PaymentsCount)
	assert.Equal(t, 3000.0+500.0+400.0, sum.PaymentsReceived)

	// the counts do not depend on the stored status being rewritten
	var stored models.Rental
	require.NoError(t, db.First(&stored, current.ID).Error)
	assert.Equal(t, models.RentalActive, stored.Status)

	empty, err := s.Summary(ctx, stats.Range{From: today.AddDate(0, 0, 10), To: today.AddDate(0, 0, 11)}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, empty.SalesCount)
	assert.Zero(t, empty.PaymentsReceived)
	assert.Equal(t, 1, empty.OverdueRentals, "rental state is not range bound")
}

func TestPaymentsChart(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC) // a Wednesday

	for _, p := range []models.Payment{
		{Reference: "a", Amount: 100, Method: models.PaymentMethodCash, PaidAt: time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)},
		{Reference: "b", Amount: 250.5, Method: models.PaymentMethodCard, PaidAt: time.Date(2024, 6, 12, 11, 0, 0, 0, time.UTC)},
		{Reference: "c", Amount: 50, Method: models.PaymentMethodTransfer, PaidAt: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)},
		{Reference: "d", Amount: 999, Method: models.PaymentMethodCash, PaidAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
	} {
		p := p
		require.NoError(t, db.Create(&p).Error)
	}

	s := stats.NewService(db, zap.NewNop())

	daily, err := s.PaymentsChart(ctx, "daily", 3, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", daily.From)
	assert.Equal(t, "2024-06-12", daily.To)
	require.Len(t, daily.Points, 3)
	assert.Equal(t, 50.0, daily.Points[0].Transfer)
	assert.Zero(t, daily.Points[1].Total)
	assert.Equal(t, 350.5, daily.Points[2].Total)
	assert.Equal(t, 400.5, daily.GrandTotals.Total)

	weekly, err := s.PaymentsChart(ctx, "weekly", 1, now)
	require.NoError(t, err)
	require.Len(t, weekly.Points, 1)
	assert.Equal(t, "2024-06-10", weekly.Points[0].Label, "weeks start on monday")
	assert.Equal(t, 400.5, weekly.Points[0].Total)

	monthly, err := s.PaymentsChart(ctx, "monthly", 2, now)
	require.NoError(t, err)
	require.Len(t, monthly.Points, 2)
	assert.Equal(t, 999.0, monthly.Points[0].Cash)
	assert.Equal(t, 1399.5, monthly.GrandTotals.Total)

	fallback, err := s.PaymentsChart(ctx, "hourly", 0, now)
	require.NoError(t, err)
	assert.Equal(t, "daily", fallback.Period)
	assert.Len(t, fallback.Points, 7)
}

func TestStatsHandlers(t *testing.T) {
	db := dbtest.New(t)
	s := stats.NewService(db, zap.NewNop())
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop())})
	app.Get("/api/stats/summary", stats.SummaryHandler(s))
	app.Get("/api/stats/payments-chart", stats.PaymentsChartHandler(s))

	for path, status := range map[string]int{
		"/api/stats/summary":                               fiber.StatusOK,
		"/api/stats/summary?from=2024-06-01&to=2024-06-30": fiber.StatusOK,
		"/api/stats/summary?from=2024-06-30&to=2024-06-01": fiber.StatusBadRequest,
		"/api/stats/summary?from=june":                     fiber.StatusBadRequest,
		"/api/stats/payments-chart?period=weekly&count=4":  fiber.StatusOK,
		"/api/stats/payments-chart?count=-1":               fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
