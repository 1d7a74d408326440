package ledger

import (
	"rentpos-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Round keeps two decimals, the smallest unit the shop handles.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Derive computes what is still owed and the payment status for a record.
// Remaining never goes below zero; paid is not capped, so an overpayment
// still reads as completed.
func Derive(total, paid float64) (float64, models.PaymentStatus) {
	t := decimal.NewFromFloat(total).Round(2)
	p := decimal.NewFromFloat(paid).Round(2)

	remaining := t.Sub(p)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	r, _ := remaining.Float64()

	switch {
	case remaining.IsZero():
		return r, models.PaymentCompleted
	case p.IsPositive():
		return r, models.PaymentPartial
	default:
		return r, models.PaymentPending
	}
}

// Sum adds amounts without float drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// Mul multiplies a unit price by a count.
func Mul(price float64, n int) float64 {
	f, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(n))).Round(2).Float64()
	return f
}
