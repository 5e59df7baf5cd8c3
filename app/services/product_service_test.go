package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpile-io/stockpile/app/repositories"
	"github.com/stockpile-io/stockpile/app/services"
)

func TestCreateProductDefaults(t *testing.T) {
	setupDB(t)
	svc := services.NewProductService()

	p, err := svc.CreateProduct(testCtx(), services.ProductParams{
		Name:  "Widget",
		Price: 9.99,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, 1, p.Amount, "amount defaults to 1 when omitted")

	p2, err := svc.CreateProduct(testCtx(), services.ProductParams{
		Name:   "Gadget",
		Price:  1.0,
		Amount: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p2.Amount, "explicit zero is kept")
}

func TestCreateProductNameConflict(t *testing.T) {
	setupDB(t)
	svc := services.NewProductService()

	_, err := svc.CreateProduct(testCtx(), services.ProductParams{Name: "Widget", Price: 1})
	require.NoError(t, err)

	_, err = svc.CreateProduct(testCtx(), services.ProductParams{Name: "Widget", Price: 2})
	require.ErrorIs(t, err, services.ErrProductNameTaken)

	products, _, err := svc.ListProducts(testCtx(), repositories.ProductFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, products, 1, "conflict must not create a row")
}

func TestGetProductNotFound(t *testing.T) {
	setupDB(t)
	svc := services.NewProductService()

	_, err := svc.GetProduct(testCtx(), 42)
	require.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestGetProductIsIdempotent(t *testing.T) {
	setupDB(t)
	svc := services.NewProductService()

	p, err := svc.CreateProduct(testCtx(), services.ProductParams{Name: "Widget", Price: 9.99, Amount: intPtr(7)})
	require.NoError(t, err)

	first, err := svc.GetProduct(testCtx(), p.ID)
	require.NoError(t, err)
	second, err := svc.GetProduct(testCtx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListProductsFilters(t *testing.T) {
	setupDB(t)
	svc := services.NewProductService()

	seed := []services.ProductParams{
		{Name: "Home Shirt", Description: "green shirt, 2014 kit", Price: 1.0, Amount: intPtr(5)},
		{Name: "Away Shorts", Description: "white shorts, 2014 kit", Price: 2.0, Amount: intPtr(10)},
		{Name: "Team Socks", Description: "green socks, 2014 kit", Price: 3.0, Amount: intPtr(25)},
	}
	for _, p := range seed {
		_, err := svc.CreateProduct(testCtx(), p)
		require.NoError(t, err)
	}

	byName, _, err := svc.ListProducts(testCtx(), repositories.ProductFilter{Name: "Team Socks"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Team Socks", byName[0].Name)

	minAmount := 10
	byAmount, _, err := svc.ListProducts(testCtx(), repositories.ProductFilter{MinAmount: &minAmount}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, byAmount, 2)

	maxPrice := 2.0
	byPrice, pagination, err := svc.ListProducts(testCtx(), repositories.ProductFilter{MaxPrice: &maxPrice}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, byPrice, 2)
	assert.EqualValues(t, 2, pagination.Total)

	// Contains matches the description, not the name.
	green, _, err := svc.ListProducts(testCtx(), repositories.ProductFilter{Contains: "green"}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, green, 2)

	window, pagination, err := svc.ListProducts(testCtx(), repositories.ProductFilter{}, 1, 1)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.EqualValues(t, 3, pagination.Total)
	assert.Equal(t, 1, pagination.Offset)
}

func TestUpdateProduct(t *testing.T) {
	setupDB(t)
	svc := services.NewProductService()

	p, err := svc.CreateProduct(testCtx(), services.ProductParams{Name: "Widget", Price: 9.99})
	require.NoError(t, err)
	other, err := svc.CreateProduct(testCtx(), services.ProductParams{Name: "Gadget", Price: 1})
	require.NoError(t, err)

	// Renaming onto another product's name conflicts.
	_, err = svc.UpdateProduct(testCtx(), p.ID, services.ProductParams{Name: other.Name, Price: 9.99})
	require.ErrorIs(t, err, services.ErrProductNameTaken)

	// Keeping your own name is not a conflict.
	updated, err := svc.UpdateProduct(testCtx(), p.ID, services.ProductParams{
		Name:        "Widget",
		Description: "now with description",
		Price:       19.99,
		Amount:      intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "now with description", updated.Description)
	assert.Equal(t, 19.99, updated.Price)
	assert.Equal(t, 3, updated.Amount)

	_, err = svc.UpdateProduct(testCtx(), 999, services.ProductParams{Name: "X", Price: 1})
	require.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestDeleteProductCascadesTransactions(t *testing.T) {
	setupDB(t)
	svc := services.NewProductService()
	inv := services.NewInventoryService()

	p, err := svc.CreateProduct(testCtx(), services.ProductParams{Name: "Widget", Price: 9.99, Amount: intPtr(10)})
	require.NoError(t, err)

	tx, err := inv.ApplyTransaction(testCtx(), p.ID, services.TransactionParams{Type: "add", Amount: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(testCtx(), p.ID))

	_, err = svc.GetProduct(testCtx(), p.ID)
	require.ErrorIs(t, err, services.ErrProductNotFound)

	// History rows go with the product.
	repo := repositories.NewTransactionRepository()
	_, err = repo.Find(testCtx(), tx.ID)
	require.Error(t, err)

	require.ErrorIs(t, svc.DeleteProduct(testCtx(), p.ID), services.ErrProductNotFound)
}
