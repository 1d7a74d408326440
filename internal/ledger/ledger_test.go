package ledger_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/database/dbtest"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var cashier = audit.Actor{UserID: 7, Name: "Amina"}

func newSale(t *testing.T, db *gorm.DB, total float64) models.Transaction {
	t.Helper()
	p := models.Product{Name: "Caftan", SalePrice: total, Stock: 5}
	require.NoError(t, db.Create(&p).Error)
	tr := models.Transaction{
		Reference:       "tr-" + p.Name,
		Type:            models.TransactionSale,
		ProductID:       p.ID,
		Quantity:        1,
		UnitPrice:       total,
		TotalAmount:     total,
		RemainingAmount: total,
		PaymentStatus:   models.PaymentPending,
		Status:          models.TransactionCompleted,
	}
	require.NoError(t, db.Create(&tr).Error)
	return tr
}

func TestApplyPaymentWalk(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db, zap.NewNop())
	ctx := context.Background()
	tr := newSale(t, db, 500)
	target := ledger.Target{Kind: ledger.KindTransaction, ID: tr.ID}

	steps := []struct {
		amount    float64
		paid      float64
		remaining float64
		status    models.PaymentStatus
	}{
		{200, 200, 300, models.PaymentPartial},
		{300, 500, 0, models.PaymentCompleted},
		{50, 550, 0, models.PaymentCompleted},
	}
	for _, s := range steps {
		out, err := l.ApplyPayment(ctx, target, s.amount, models.PaymentMethodCash, cashier)
		require.NoError(t, err)
		require.True(t, out.Applied)
		assert.Equal(t, s.paid, out.AmountPaid)
		assert.Equal(t, s.remaining, out.RemainingAmount)
		assert.Equal(t, s.status, out.PaymentStatus)
		assert.Equal(t, s.amount, out.Payment.Amount)
		assert.Equal(t, "Amina", out.Payment.Agent)
	}

	var stored models.Transaction
	require.NoError(t, db.First(&stored, tr.ID).Error)
	assert.Equal(t, 550.0, stored.AmountPaid)
	assert.Equal(t, 0.0, stored.RemainingAmount)
	assert.Equal(t, models.PaymentCompleted, stored.PaymentStatus)

	history, err := l.History(ctx, target)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []float64{200, 500, 550}, []float64{
		history[0].AmountPaidAfter, history[1].AmountPaidAfter, history[2].AmountPaidAfter,
	})
	assert.False(t, history[0].IsCompleted)
	assert.True(t, history[1].IsCompleted)

	var audits int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("entity_type = ?", "payment").Count(&audits).Error)
	assert.Equal(t, int64(3), audits)
}

func TestApplyPaymentRejectsNonPositive(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db, zap.NewNop())
	tr := newSale(t, db, 100)

	for _, amount := range []float64{0, -10, 0.001} {
		_, err := l.ApplyPayment(context.Background(), ledger.Target{Kind: ledger.KindTransaction, ID: tr.ID}, amount, "", cashier)
		assert.ErrorIs(t, err, apperr.InvalidAmount, "amount %v", amount)
	}

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyPaymentUnknownMethod(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db, zap.NewNop())
	tr := newSale(t, db, 100)

	_, err := l.ApplyPayment(context.Background(), ledger.Target{Kind: ledger.KindTransaction, ID: tr.ID}, 10, "cheque", cashier)
	assert.ErrorIs(t, err, apperr.InvalidAmount)
}

func TestApplyPaymentMissingTargetIsNoop(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db, zap.NewNop())

	out, err := l.ApplyPayment(context.Background(), ledger.Target{Kind: ledger.KindRental, ID: 999}, 50, models.PaymentMethodCard, cashier)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Nil(t, out.Payment)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSplitPaymentsMatchSinglePayment(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db, zap.NewNop())
	ctx := context.Background()

	split := newSale(t, db, 80)
	single := models.Transaction{
		Reference: "tr-single", Type: models.TransactionSale, ProductID: split.ProductID,
		Quantity: 1, UnitPrice: 80, TotalAmount: 80, RemainingAmount: 80,
		PaymentStatus: models.PaymentPending, Status: models.TransactionCompleted,
	}
	require.NoError(t, db.Create(&single).Error)

	_, err := l.ApplyPayment(ctx, ledger.Target{Kind: ledger.KindTransaction, ID: split.ID}, 30, "", cashier)
	require.NoError(t, err)
	a, err := l.ApplyPayment(ctx, ledger.Target{Kind: ledger.KindTransaction, ID: split.ID}, 20, "", cashier)
	require.NoError(t, err)
	b, err := l.ApplyPayment(ctx, ledger.Target{Kind: ledger.KindTransaction, ID: single.ID}, 50, "", cashier)
	require.NoError(t, err)

	assert.Equal(t, b.AmountPaid, a.AmountPaid)
	assert.Equal(t, b.RemainingAmount, a.RemainingAmount)
	assert.Equal(t, b.PaymentStatus, a.PaymentStatus)
}

func TestConcurrentPaymentsAreNotLost(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db, zap.NewNop())
	tr := newSale(t, db, 100)
	target := ledger.Target{Kind: ledger.KindTransaction, ID: tr.ID}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.ApplyPayment(context.Background(), target, 10, models.PaymentMethodCash, cashier)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var stored models.Transaction
	require.NoError(t, db.First(&stored, tr.ID).Error)
	assert.Equal(t, 100.0, stored.AmountPaid)
	assert.Equal(t, 0.0, stored.RemainingAmount)
	assert.Equal(t, models.PaymentCompleted, stored.PaymentStatus)
}

func TestApplyPaymentHandler(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db, zap.NewNop())
	tr := newSale(t, db, 500)

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop())})
	app.Post("/api/transactions/:id/payments", ledger.ApplyPaymentHandler(l, ledger.KindTransaction))
	app.Get("/api/transactions/:id/payments", ledger.PaymentHistoryHandler(l, ledger.KindTransaction))

	post := func(id, body string) int {
		req := httptest.NewRequest("POST", "/api/transactions/"+id+"/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusCreated, post(itoa(tr.ID), `{"amount":200,"method":"card"}`))
	assert.Equal(t, fiber.StatusBadRequest, post(itoa(tr.ID), `{"amount":0}`))
	assert.Equal(t, fiber.StatusBadRequest, post(itoa(tr.ID), `{"amount":5,"method":"cheque"}`))
	assert.Equal(t, fiber.StatusNotFound, post("4242", `{"amount":5}`))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/transactions/"+itoa(tr.ID)+"/payments", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
