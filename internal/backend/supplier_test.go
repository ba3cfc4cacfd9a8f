package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/autoparts-storefront/internal/domain/product"
	"github.com/xenking/autoparts-storefront/internal/domain/supplier"
)

const supplierBody = `{
	"id": "s1", "name": "Auto Peças Silva", "email": "contato@silva.com.br",
	"phone": "(11) 98765-4321", "zipCode": "01310-100", "country": "Brasil",
	"description": null, "createdAt": "2024-02-10T09:30:00"
}`

func TestClient_Suppliers(t *testing.T) {
	ctx := context.Background()

	t.Run("my supplier sends user id", func(t *testing.T) {
		c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, supplierBody)
		})

		s, err := c.MySupplier(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "s1", s.ID)
		assert.Equal(t, "Auto Peças Silva", s.Name)
		assert.Equal(t, "01310-100", s.ZipCode)
		assert.Empty(t, s.Description)
		assert.Equal(t, 2024, s.CreatedAt.Year())

		assert.Equal(t, []recordedRequest{
			{Method: http.MethodGet, Path: "/api/suppliers/me", UserID: "u1"},
		}, *reqs)
	})

	t.Run("not registered", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, `{"message":"Fornecedor não encontrado"}`)
		})

		_, err := c.MySupplier(ctx, "u1")
		require.ErrorIs(t, err, supplier.ErrNotFound)
		_, err = c.GetSupplier(ctx, "s9")
		require.ErrorIs(t, err, supplier.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[`+supplierBody+`, {"id": "s2", "name": "Norte"}]`)
		})

		list, err := c.ListSuppliers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Norte", list[1].Name)
	})

	t.Run("create encodes masked fields", func(t *testing.T) {
		var body map[string]string
		c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)
			writeJSON(w, http.StatusCreated, supplierBody)
		})

		in := supplier.NewInput("Auto Peças Silva", "", "contato@silva.com.br", "11987654321",
			"", "", "sp", "01310100", "", "")
		s, err := c.CreateSupplier(ctx, "u1", in)
		require.NoError(t, err)
		assert.Equal(t, "s1", s.ID)

		assert.Equal(t, "(11) 98765-4321", body["phone"])
		assert.Equal(t, "01310-100", body["zipCode"])
		assert.Equal(t, "SP", body["state"])
		assert.Equal(t, "Brasil", body["country"])
		assert.Equal(t, []recordedRequest{
			{Method: http.MethodPost, Path: "/api/suppliers", UserID: "u1"},
		}, *reqs)
	})

	t.Run("create conflict", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, `{"message":"Usuário já possui fornecedor"}`)
		})

		_, err := c.CreateSupplier(ctx, "u1", supplier.NewInput("a", "", "a@b.com", "", "", "", "", "", "", ""))
		require.ErrorIs(t, err, supplier.ErrAlreadyRegistered)
	})

	t.Run("update and delete", func(t *testing.T) {
		c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			writeJSON(w, http.StatusOK, supplierBody)
		})

		_, err := c.UpdateSupplier(ctx, "u1", "s1", supplier.NewInput("a", "", "a@b.com", "", "", "", "", "", "", ""))
		require.NoError(t, err)
		require.NoError(t, c.DeleteSupplier(ctx, "u1", "s1"))

		assert.Equal(t, []recordedRequest{
			{Method: http.MethodPut, Path: "/api/suppliers/s1", UserID: "u1"},
			{Method: http.MethodDelete, Path: "/api/suppliers/s1", UserID: "u1"},
		}, *reqs)
	})
}

func TestClient_Dashboard(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"stockStatistics": {
				"totalProducts": 3, "totalStock": 42, "activeProducts": 2, "inactiveProducts": 1,
				"totalStockValue": 5230.5, "stockByCategory": {"Freios": 30, "Filtros": 12}
			},
			"salesStatistics": {
				"totalOrders": 4, "totalItemsSold": 9, "totalRevenue": 1200,
				"averageOrderValue": 300, "ordersByStatus": {"PENDING": 1, "DELIVERED": 3},
				"revenueByMonth": {"2024-02": 400, "2024-01": 800}
			}
		}`)
	})

	d, err := c.Dashboard(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 42, d.Stock.TotalStock)
	assert.True(t, decimal.RequireFromString("5230.5").Equal(d.Stock.TotalStockValue))
	assert.Equal(t, map[string]int{"Freios": 30, "Filtros": 12}, d.Stock.StockByCategory)
	assert.Equal(t, 3, d.Sales.OrdersByStatus["DELIVERED"])
	months := d.Sales.Months()
	require.Len(t, months, 2)
	assert.Equal(t, "2024-01", months[0].Month)
	assert.True(t, decimal.NewFromInt(800).Equal(months[0].Revenue))

	assert.Equal(t, []recordedRequest{
		{Method: http.MethodGet, Path: "/api/dashboard", UserID: "u1"},
	}, *reqs)
}

func TestClient_ProductMutations(t *testing.T) {
	ctx := context.Background()

	var body map[string]any
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			if r.URL.Path == "/api/products/p9" {
				writeJSON(w, http.StatusNotFound, `{"message":"Produto não encontrado"}`)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)
			writeJSON(w, http.StatusOK, `{"id": "p1", "name": "Disco de freio", "price": 249.9, "supplierId": "s1"}`)
		}
	})

	in := product.Input{
		Name:       "Disco de freio",
		Price:      decimal.RequireFromString("249.90"),
		Stock:      4,
		Category:   product.CategoryBrakes,
		Brand:      "Fremax",
		Images:     []string{"a.jpg"},
		SupplierID: "s1",
		Active:     true,
	}

	p, err := c.CreateProduct(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "s1", p.SupplierID)
	assert.Equal(t, 249.9, body["price"])
	assert.Equal(t, "Freios", body["category"])
	assert.Equal(t, "s1", body["supplierId"])
	assert.Equal(t, true, body["active"])

	_, err = c.UpdateProduct(ctx, "u1", "p1", in)
	require.NoError(t, err)
	require.NoError(t, c.DeleteProduct(ctx, "u1", "p1"))
	require.ErrorIs(t, c.DeleteProduct(ctx, "u1", "p9"), product.ErrNotFound)

	assert.Equal(t, []recordedRequest{
		{Method: http.MethodPost, Path: "/api/products", UserID: "u1"},
		{Method: http.MethodPut, Path: "/api/products/p1", UserID: "u1"},
		{Method: http.MethodDelete, Path: "/api/products/p1", UserID: "u1"},
		{Method: http.MethodDelete, Path: "/api/products/p9", UserID: "u1"},
	}, *reqs)
}
