package receipt

import (
	"time"

	"rentpos-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// GET /api/rentals/:id/receipt
func RentalReceiptHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		r, err := s.ForRental(c.UserContext(), id, time.Now())
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/transactions/:id/receipt
func TransactionReceiptHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		r, err := s.ForTransaction(c.UserContext(), id, time.Now())
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}
