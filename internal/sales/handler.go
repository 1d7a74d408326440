package sales

import (
	"strings"

	"rentpos-backend/internal/auth"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTransactionRequest struct {
	Type          models.TransactionType `json:"type" validate:"required,oneof=sale rental"`
	ProductID     uint                   `json:"product_id" validate:"required"`
	Quantity      int                    `json:"quantity" validate:"required,gte=1"`
	UnitPrice     float64                `json:"unit_price" validate:"gte=0"`
	AmountPaid    float64                `json:"amount_paid" validate:"gte=0"`
	PaymentMethod models.PaymentMethod   `json:"payment_method" validate:"omitempty,oneof=cash card transfer"`
	CustomerName  string                 `json:"customer_name" validate:"max=120"`
	CustomerPhone string                 `json:"customer_phone" validate:"max=30"`
	CustomerEmail string                 `json:"customer_email" validate:"omitempty,email,max=120"`
}

// POST /api/transactions
func CreateTransactionHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}

		tr, err := s.Create(c.UserContext(), CreateRequest{
			Type:       body.Type,
			ProductID:  body.ProductID,
			Quantity:   body.Quantity,
			UnitPrice:  body.UnitPrice,
			AmountPaid: body.AmountPaid,
			Method:     body.PaymentMethod,
			Customer: customer.Identity{
				Name:  strings.TrimSpace(body.CustomerName),
				Phone: body.CustomerPhone,
				Email: body.CustomerEmail,
			},
		}, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(tr)
	}
}

// GET /api/transactions?type=&status=&payment_status=&customer_id=&from=&to=&limit=
// to is inclusive on the wire.
func ListTransactionsHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			Type:          models.TransactionType(c.Query("type")),
			Status:        models.TransactionStatus(c.Query("status")),
			PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
			CustomerID:    uint(c.QueryInt("customer_id")),
			Limit:         c.QueryInt("limit"),
		}
		if v := c.Query("from"); v != "" {
			d, err := httpx.ParseDate("from", v)
			if err != nil {
				return err
			}
			f.From = &d
		}
		if v := c.Query("to"); v != "" {
			d, err := httpx.ParseDate("to", v)
			if err != nil {
				return err
			}
			next := d.AddDate(0, 0, 1)
			f.To = &next
		}

		list, err := s.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// GET /api/transactions/:id
func GetTransactionHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		tr, err := s.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(tr)
	}
}

// POST /api/transactions/:id/cancel
func CancelTransactionHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		tr, err := s.Cancel(c.UserContext(), id, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.JSON(tr)
	}
}
