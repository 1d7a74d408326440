package rental

import (
	"strings"

	"rentpos-backend/internal/auth"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRentalRequest struct {
	ProductID     uint                 `json:"product_id" validate:"required"`
	StartDate     string               `json:"start_date" validate:"required"`
	EndDate       string               `json:"end_date" validate:"required"`
	TotalAmount   float64              `json:"total_amount" validate:"gte=0"`
	AmountPaid    float64              `json:"amount_paid" validate:"gte=0"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash card transfer"`
	CustomerName  string               `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string               `json:"customer_phone" validate:"max=30"`
	CustomerEmail string               `json:"customer_email" validate:"omitempty,email,max=120"`
	Notes         string               `json:"notes" validate:"max=500"`
}

// POST /api/rentals
func CreateRentalHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRentalRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		start, err := httpx.ParseDate("start_date", body.StartDate)
		if err != nil {
			return err
		}
		end, err := httpx.ParseDate("end_date", body.EndDate)
		if err != nil {
			return err
		}

		r, err := s.Commit(c.UserContext(), CommitRequest{
			ProductID:   body.ProductID,
			Start:       start,
			End:         end,
			TotalAmount: body.TotalAmount,
			AmountPaid:  body.AmountPaid,
			Method:      body.PaymentMethod,
			Customer: customer.Identity{
				Name:  strings.TrimSpace(body.CustomerName),
				Phone: body.CustomerPhone,
				Email: body.CustomerEmail,
			},
			Notes: strings.TrimSpace(body.Notes),
		}, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(NewView(*r, s.now()))
	}
}

// GET /api/rentals?status=overdue&product_id=&customer_id=&phone=&from=&to=&limit=
func ListRentalsHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			Status:     models.RentalStatus(c.Query("status")),
			ProductID:  uint(c.QueryInt("product_id")),
			CustomerID: uint(c.QueryInt("customer_id")),
			Phone:      customer.NormalizePhone(c.Query("phone")),
			Limit:      c.QueryInt("limit"),
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
			f.To = &d
		}

		views, err := s.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(views)
	}
}

// GET /api/rentals/:id
func GetRentalHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		v, err := s.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(v)
	}
}

// POST /api/rentals/:id/return
func ReturnRentalHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		r, err := s.Return(c.UserContext(), id, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.JSON(NewView(*r, s.now()))
	}
}

// POST /api/rentals/:id/cancel
func CancelRentalHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		r, err := s.Cancel(c.UserContext(), id, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.JSON(NewView(*r, s.now()))
	}
}

// POST /api/admin/calendar/reconcile?product_id=
func ReconcileCalendarHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID *uint
		if v := c.QueryInt("product_id"); v > 0 {
			id := uint(v)
			productID = &id
		}
		report, err := s.Reconcile(c.UserContext(), productID)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}
