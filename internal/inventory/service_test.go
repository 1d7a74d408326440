package inventory_test

import (
	"context"
	"testing"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/database/dbtest"
	"rentpos-backend/internal/inventory"
	"rentpos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var admin = audit.Actor{UserID: 1, Name: "admin"}

func TestProductLifecycle(t *testing.T) {
	db := dbtest.New(t)
	s := inventory.NewService(db, zap.NewNop())
	ctx := context.Background()

	p := models.Product{Name: "  Caftan brodé ", Category: "caftan", RentalPrice: 2500, IsRentable: true}
	require.NoError(t, s.Create(ctx, &p, admin))
	assert.Equal(t, "Caftan brodé", p.Name)

	price := 3000.0
	updated, err := s.Update(ctx, p.ID, inventory.ProductPatch{RentalPrice: &price}, admin)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, updated.RentalPrice)
	assert.Equal(t, "caftan", updated.Category)

	negative := -1
	_, err = s.Update(ctx, p.ID, inventory.ProductPatch{Stock: &negative}, admin)
	assert.ErrorIs(t, err, apperr.InvalidAmount)

	_, err = s.Update(ctx, 999, inventory.ProductPatch{RentalPrice: &price}, admin)
	assert.ErrorIs(t, err, apperr.NotFound)

	require.NoError(t, s.Delete(ctx, p.ID, admin))
	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.NotFound)

	var logs int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("entity_type = ? AND entity_id = ?", "product", p.ID).Count(&logs).Error)
	assert.Equal(t, int64(3), logs)
}

func TestDeleteRefusesProductInUse(t *testing.T) {
	db := dbtest.New(t)
	s := inventory.NewService(db, zap.NewNop())
	ctx := context.Background()

	p := models.Product{Name: "Burnous", SalePrice: 12000, Stock: 2}
	require.NoError(t, s.Create(ctx, &p, admin))
	require.NoError(t, db.Create(&models.Transaction{
		Reference: "sale-1", Type: models.TransactionSale, ProductID: p.ID, Quantity: 1,
		UnitPrice: 12000, TotalAmount: 12000, RemainingAmount: 12000,
		PaymentStatus: models.PaymentPending, Status: models.TransactionCompleted,
	}).Error)

	assert.ErrorIs(t, s.Delete(ctx, p.ID, admin), apperr.Conflict)
}

func TestListFilters(t *testing.T) {
	db := dbtest.New(t)
	s := inventory.NewService(db, zap.NewNop())
	ctx := context.Background()

	for _, p := range []models.Product{
		{Name: "Karakou velours", Category: "karakou", Brand: "Atelier Nedjma", RentalPrice: 4000, IsRentable: true},
		{Name: "Karakou soie", Category: "karakou", SalePrice: 30000, Stock: 1},
		{Name: "Ceinture louiz", Category: "bijoux", SalePrice: 8000},
	} {
		p := p
		require.NoError(t, s.Create(ctx, &p, admin))
	}

	all, err := s.List(ctx, inventory.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rentable := true
	got, err := s.List(ctx, inventory.ProductFilter{Rentable: &rentable})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Karakou velours", got[0].Name)

	got, err = s.List(ctx, inventory.ProductFilter{Query: "KARAKOU", InStock: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Karakou soie", got[0].Name)

	got, err = s.List(ctx, inventory.ProductFilter{Query: "nedjma"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.List(ctx, inventory.ProductFilter{Category: "bijoux"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
