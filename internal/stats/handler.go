package stats

import (
	"time"

	"rentpos-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// GET /api/stats/summary?from=2024-06-01&to=2024-06-30 (defaults to the
// current month, both ends inclusive)
func SummaryHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, -1)

		var err error
		if v := c.Query("from"); v != "" {
			if from, err = httpx.ParseDate("from", v); err != nil {
				return err
			}
		}
		if v := c.Query("to"); v != "" {
			if to, err = httpx.ParseDate("to", v); err != nil {
				return err
			}
		}
		if to.Before(from) {
			return fiber.NewError(fiber.StatusBadRequest, "to must not be before from")
		}

		sum, err := s.Summary(c.UserContext(), Range{From: from, To: to.AddDate(0, 0, 1)}, now)
		if err != nil {
			return err
		}
		return c.JSON(sum)
	}
}

// GET /api/stats/payments-chart?period=daily&count=7
func PaymentsChartHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := c.QueryInt("count", 0)
		if count < 0 || count > 366 {
			return fiber.NewError(fiber.StatusBadRequest, "count must be between 1 and 366")
		}
		resp, err := s.PaymentsChart(c.UserContext(), c.Query("period", "daily"), count, time.Now())
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}
