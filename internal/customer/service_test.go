package customer_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/database/dbtest"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpsertKeyedByPhone(t *testing.T) {
	db := dbtest.New(t)

	first, err := customer.Upsert(db, customer.Identity{Name: "Yasmine", Phone: "0550 12-34-56", Email: "Yas@Example.com"})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "0550123456", first.Phone)
	assert.Equal(t, "yas@example.com", first.Email)

	// same phone, new name, no email: name follows, email kept
	second, err := customer.Upsert(db, customer.Identity{Name: "Yasmine B.", Phone: "0550123456"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Yasmine B.", second.Name)
	assert.Equal(t, "yas@example.com", second.Email)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertWithoutPhoneIsAnonymous(t *testing.T) {
	db := dbtest.New(t)

	c, err := customer.Upsert(db, customer.Identity{Name: "Walk-in", Phone: "  "})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSearchAndFind(t *testing.T) {
	db := dbtest.New(t)
	s := customer.NewService(db)
	ctx := context.Background()

	for _, id := range []customer.Identity{
		{Name: "Karim Haddad", Phone: "0661000001"},
		{Name: "Lina Mansouri", Phone: "0661000002", Email: "lina@mail.dz"},
	} {
		_, err := customer.Upsert(db, id)
		require.NoError(t, err)
	}

	found, err := s.Search(ctx, "lina", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lina Mansouri", found[0].Name)

	found, err = s.Search(ctx, "0661", 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	c, err := s.FindByPhone(ctx, "0661 000 001")
	require.NoError(t, err)
	assert.Equal(t, "Karim Haddad", c.Name)

	_, err = s.FindByPhone(ctx, "0000")
	assert.ErrorIs(t, err, apperr.NotFound)
}

func TestCustomerHandlers(t *testing.T) {
	db := dbtest.New(t)
	s := customer.NewService(db)
	c, err := customer.Upsert(db, customer.Identity{Name: "Nadia", Phone: "0770111222"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop())})
	app.Get("/api/customers", customer.ListCustomersHandler(s))
	app.Get("/api/customers/phone/:phone", customer.CustomerByPhoneHandler(s))
	app.Get("/api/customers/:id", customer.GetCustomerHandler(s))

	for path, status := range map[string]int{
		"/api/customers?q=nad":            fiber.StatusOK,
		"/api/customers/phone/0770111222": fiber.StatusOK,
		"/api/customers/phone/0123":       fiber.StatusNotFound,
		"/api/customers/" + itoa(c.ID):    fiber.StatusOK,
		"/api/customers/9999":             fiber.StatusNotFound,
		"/api/customers/abc":              fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
