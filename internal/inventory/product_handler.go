package inventory

import (
	"strconv"
	"strings"

	"rentpos-backend/internal/auth"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,max=150"`
	Category      string  `json:"category" validate:"max=80"`
	Size          string  `json:"size" validate:"max=30"`
	Color         string  `json:"color" validate:"max=40"`
	Brand         string  `json:"brand" validate:"max=80"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	SalePrice     float64 `json:"sale_price" validate:"gte=0"`
	RentalPrice   float64 `json:"rental_price" validate:"gte=0"`
	Stock         int     `json:"stock" validate:"gte=0"`
	IsRentable    bool    `json:"is_rentable"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=150"`
	Category      *string  `json:"category" validate:"omitempty,max=80"`
	Size          *string  `json:"size" validate:"omitempty,max=30"`
	Color         *string  `json:"color" validate:"omitempty,max=40"`
	Brand         *string  `json:"brand" validate:"omitempty,max=80"`
	PurchasePrice *float64 `json:"purchase_price" validate:"omitempty,gte=0"`
	SalePrice     *float64 `json:"sale_price" validate:"omitempty,gte=0"`
	RentalPrice   *float64 `json:"rental_price" validate:"omitempty,gte=0"`
	Stock         *int     `json:"stock" validate:"omitempty,gte=0"`
	IsRentable    *bool    `json:"is_rentable"`
}

// GET /api/products?q=&category=&rentable=true&in_stock=true
func ListProductsHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := ProductFilter{
			Query:    c.Query("q"),
			Category: strings.TrimSpace(c.Query("category")),
			InStock:  c.QueryBool("in_stock"),
		}
		if v := c.Query("rentable"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "rentable must be true or false")
			}
			f.Rentable = &b
		}

		products, err := s.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(products)
	}
}

// GET /api/products/:id
func GetProductHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		p, err := s.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// POST /api/admin/products
func CreateProductHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}

		p := models.Product{
			Name:          strings.TrimSpace(body.Name),
			Category:      strings.TrimSpace(body.Category),
			Size:          strings.TrimSpace(body.Size),
			Color:         strings.TrimSpace(body.Color),
			Brand:         strings.TrimSpace(body.Brand),
			PurchasePrice: body.PurchasePrice,
			SalePrice:     body.SalePrice,
			RentalPrice:   body.RentalPrice,
			Stock:         body.Stock,
			IsRentable:    body.IsRentable,
		}
		if err := s.Create(c.UserContext(), &p, auth.ActorFrom(c)); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateProductRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}

		p, err := s.Update(c.UserContext(), id, ProductPatch{
			Name:          body.Name,
			Category:      body.Category,
			Size:          body.Size,
			Color:         body.Color,
			Brand:         body.Brand,
			PurchasePrice: body.PurchasePrice,
			SalePrice:     body.SalePrice,
			RentalPrice:   body.RentalPrice,
			Stock:         body.Stock,
			IsRentable:    body.IsRentable,
		}, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := s.Delete(c.UserContext(), id, auth.ActorFrom(c)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/admin/products/import (multipart, field "file", .xlsx only)
func ImportProductsHandler(db *gorm.DB, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload missing")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files can be imported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
		}
		defer file.Close()

		report, err := ImportProducts(c.UserContext(), db, file, auth.ActorFrom(c), log)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}
