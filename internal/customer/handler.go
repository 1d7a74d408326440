package customer

import (
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/customers?q=&limit=
func ListCustomersHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customers, err := s.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 50))
		if err != nil {
			return err
		}
		return c.JSON(customers)
	}
}

// GET /api/customers/phone/:phone
func CustomerByPhoneHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cust, err := s.FindByPhone(c.UserContext(), c.Params("phone"))
		if err != nil {
			return err
		}
		return c.JSON(cust)
	}
}

type CustomerDetailResponse struct {
	models.Customer
	Rentals      []models.Rental      `json:"rentals"`
	Transactions []models.Transaction `json:"transactions"`
}

// GET /api/customers/:id
func GetCustomerHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		cust, err := s.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		rentals, transactions, err := s.History(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(CustomerDetailResponse{Customer: *cust, Rentals: rentals, Transactions: transactions})
	}
}
