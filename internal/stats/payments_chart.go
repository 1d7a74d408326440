package stats

import (
	"context"
	"sort"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"
)

type ChartPoint struct {
	Label    string  `json:"label"` // day, week start or month start
	Cash     float64 `json:"cash"`
	Card     float64 `json:"card"`
	Transfer float64 `json:"transfer"`
	Total    float64 `json:"total"`
}

type ChartResponse struct {
	Period      string       `json:"period"` // daily | weekly | monthly
	From        string       `json:"from"`
	To          string       `json:"to"`
	Points      []ChartPoint `json:"points"`
	GrandTotals ChartPoint   `json:"grand_totals"`
}

// chartWindow returns the first bucket start and the exclusive end for count
// buckets ending with the one that contains now.
func chartWindow(period string, count int, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case "weekly":
		monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
		return monday.AddDate(0, 0, -7*(count-1)), monday.AddDate(0, 0, 7)
	case "monthly":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, -(count - 1), 0), first.AddDate(0, 1, 0)
	default:
		return today.AddDate(0, 0, -(count - 1)), today.AddDate(0, 0, 1)
	}
}

func bucketOf(period string, t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case "weekly":
		return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
	case "monthly":
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return d
}

func nextBucket(period string, b time.Time) time.Time {
	switch period {
	case "weekly":
		return b.AddDate(0, 0, 7)
	case "monthly":
		return b.AddDate(0, 1, 0)
	}
	return b.AddDate(0, 0, 1)
}

// PaymentsChart totals payments received per bucket and method. Every bucket
// of the window is listed, empty ones with zeros.
func (s *Service) PaymentsChart(ctx context.Context, period string, count int, now time.Time) (ChartResponse, error) {
	switch period {
	case "daily", "weekly", "monthly":
	default:
		period = "daily"
	}
	if count <= 0 {
		count = map[string]int{"daily": 7, "weekly": 8, "monthly": 12}[period]
	}
	start, end := chartWindow(period, count, now.UTC())

	var payments []models.Payment
	if err := s.db.WithContext(ctx).Select("amount", "method", "paid_at").
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Find(&payments).Error; err != nil {
		return ChartResponse{}, apperr.Store(err, "read payments")
	}

	buckets := map[time.Time]*ChartPoint{}
	for b := start; b.Before(end); b = nextBucket(period, b) {
		buckets[b] = &ChartPoint{Label: b.Format("2006-01-02")}
	}

	for _, p := range payments {
		pt, ok := buckets[bucketOf(period, p.PaidAt.UTC())]
		if !ok {
			continue
		}
		switch p.Method {
		case models.PaymentMethodCash:
			pt.Cash = ledger.Sum(pt.Cash, p.Amount)
		case models.PaymentMethodCard:
			pt.Card = ledger.Sum(pt.Card, p.Amount)
		case models.PaymentMethodTransfer:
			pt.Transfer = ledger.Sum(pt.Transfer, p.Amount)
		}
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	resp := ChartResponse{
		Period: period,
		From:   start.Format("2006-01-02"),
		To:     end.AddDate(0, 0, -1).Format("2006-01-02"),
		Points: make([]ChartPoint, 0, len(keys)),
	}
	grand := &resp.GrandTotals
	for _, k := range keys {
		pt := buckets[k]
		pt.Total = ledger.Sum(pt.Cash, pt.Card, pt.Transfer)
		resp.Points = append(resp.Points, *pt)

		grand.Cash = ledger.Sum(grand.Cash, pt.Cash)
		grand.Card = ledger.Sum(grand.Card, pt.Card)
		grand.Transfer = ledger.Sum(grand.Transfer, pt.Transfer)
		grand.Total = ledger.Sum(grand.Total, pt.Total)
	}
	return resp, nil
}
