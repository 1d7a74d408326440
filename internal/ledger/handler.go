package ledger

import (
	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/auth"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ApplyPaymentRequest struct {
	Amount float64              `json:"amount" validate:"gt=0"`
	Method models.PaymentMethod `json:"method" validate:"omitempty,oneof=cash card transfer"`
}

// POST /api/rentals/:id/payments and POST /api/transactions/:id/payments
func ApplyPaymentHandler(l *Ledger, kind Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body ApplyPaymentRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}

		out, err := l.ApplyPayment(c.UserContext(), Target{Kind: kind, ID: id}, body.Amount, body.Method, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		if !out.Applied {
			return apperr.New(apperr.KindNotFound, "%s %d not found", kind, id)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// GET /api/rentals/:id/payments and GET /api/transactions/:id/payments
func PaymentHistoryHandler(l *Ledger, kind Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		payments, err := l.History(c.UserContext(), Target{Kind: kind, ID: id})
		if err != nil {
			return err
		}
		return c.JSON(payments)
	}
}
