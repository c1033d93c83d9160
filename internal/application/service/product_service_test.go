package service

import (
	"net/http"
	"testing"

	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/internal/domain/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)

	t.Run("create defaults the unit and numbers sequentially", func(t *testing.T) {
		first := env.createProduct(t, "Maize Flour", "MF-01", 5000)
		second := env.createProduct(t, "Sugar", "SG-01", 9000)

		assert.Equal(t, int64(1), first.Number)
		assert.Equal(t, int64(2), second.Number)
		assert.Equal(t, "kg", first.Unit)
	})

	t.Run("duplicate code within the tenant is rejected", func(t *testing.T) {
		_, err := env.products.CreateProduct(env.ctx, &CreateProductInput{
			Name: "Another Flour", Code: "MF-01", SellingPrice: 4000,
		})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
	})

	t.Run("update can change the code when it stays unique", func(t *testing.T) {
		product := env.createProduct(t, "Rice", "RC-01", 12000)

		code := "RC-02"
		updated, err := env.products.UpdateProduct(env.ctx, product.ID, &UpdateProductInput{Code: &code})
		require.NoError(t, err)
		assert.Equal(t, "RC-02", updated.Code)

		taken := "MF-01"
		_, err = env.products.UpdateProduct(env.ctx, product.ID, &UpdateProductInput{Code: &taken})
		require.Error(t, err)
	})

	t.Run("delete removes the product and its inventory trail", func(t *testing.T) {
		customer := env.createCustomer(t, "Wanjiku Stores")
		product := env.createProduct(t, "Tea", "TE-01", 30000)
		env.recordSimple(t, enum.TransactionTypePurchase, customer.ID, product.ID, 5, 25000)

		require.NoError(t, env.products.DeleteProduct(env.ctx, product.ID))

		_, err := env.products.GetProduct(env.ctx, product.ID)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))

		var count int64
		require.NoError(t, env.db.Table("stock_movements").
			Where("product_id = ?", product.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestProductList(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "Maize Flour", "MF-01", 5000)
	env.createProduct(t, "Sugar", "SG-01", 9000)

	t.Run("search matches name or code", func(t *testing.T) {
		result, err := env.products.ListProducts(env.ctx, &repository.ProductFilterParams{Search: "sg-01"})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Sugar", result.Items[0].Name)
	})

	t.Run("lists everything without filters", func(t *testing.T) {
		result, err := env.products.ListProducts(env.ctx, &repository.ProductFilterParams{})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
	})
}

func TestInventoryStockLevels(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	moved := env.createProduct(t, "Maize Flour", "MF-01", 5000)
	untouched := env.createProduct(t, "Sugar", "SG-01", 9000)

	env.recordSimple(t, enum.TransactionTypePurchase, customer.ID, moved.ID, 8, 4000)
	env.recordSimple(t, enum.TransactionTypeSales, customer.ID, moved.ID, 3, 5000)

	t.Run("stock is the running sum of movements", func(t *testing.T) {
		assert.True(t, env.stock(t, moved.ID).Equal(decimal.NewFromInt(5)))
	})

	t.Run("products with no movements report zero", func(t *testing.T) {
		assert.True(t, env.stock(t, untouched.ID).IsZero())
	})

	t.Run("stock listing includes never-moved products", func(t *testing.T) {
		levels, err := env.inventory.ListStock(env.ctx)
		require.NoError(t, err)
		require.Len(t, levels, 2)

		byCode := make(map[string]decimal.Decimal, len(levels))
		for _, level := range levels {
			byCode[level.Product.Code] = level.CurrentStock
		}
		assert.True(t, byCode["MF-01"].Equal(decimal.NewFromInt(5)))
		assert.True(t, byCode["SG-01"].IsZero())
	})

	t.Run("movements are listed per product, newest first", func(t *testing.T) {
		result, err := env.inventory.ListMovements(env.ctx, moved.ID, nil)
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, enum.MovementReasonSale, result.Items[0].Reason)
		assert.Equal(t, enum.MovementReasonPurchase, result.Items[1].Reason)
	})
}
