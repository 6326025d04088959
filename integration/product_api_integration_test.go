package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/model"
	reposql "github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProductAPI_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	gin.SetMode(gin.TestMode)
	productService := service.NewProductService(reposql.NewProductRepository(testDB.DB), nil)
	router := httpAPI.NewServer(controller.NewProductController(productService))

	t.Run("create, delete, list", func(t *testing.T) {
		testDB.TruncateProducts(t)

		w := sendJSON(router, http.MethodPost, httpAPI.ProductsPath, map[string]any{
			"name": "Widget", "description": "A widget", "price": 10, "stock": 5,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created model.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, model.DefaultCategory, created.Category)

		w = sendJSON(router, http.MethodDelete, httpAPI.ProductsPath+"/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "product deleted successfully")

		w = sendJSON(router, http.MethodGet, httpAPI.ProductsPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("update replaces the document", func(t *testing.T) {
		testDB.TruncateProducts(t)

		w := sendJSON(router, http.MethodPost, httpAPI.ProductsPath, map[string]any{
			"name": "Lamp", "description": "Desk lamp", "price": 25, "category": "Home",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var created model.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		w = sendJSON(router, http.MethodPut, httpAPI.ProductsPath+"/"+created.ID, map[string]any{
			"name": "Lamp", "description": "Desk lamp", "price": 9.99,
		})
		require.Equal(t, http.StatusOK, w.Code)
		var updated model.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, 9.99, updated.Price)
		assert.Equal(t, model.DefaultCategory, updated.Category)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("error statuses", func(t *testing.T) {
		testDB.TruncateProducts(t)

		assert.Equal(t, http.StatusNotFound, sendJSON(router, http.MethodGet, httpAPI.ProductsPath+"/"+uuid.NewString(), nil).Code)
		assert.Equal(t, http.StatusBadRequest, sendJSON(router, http.MethodGet, httpAPI.ProductsPath+"/42", nil).Code)
		assert.Equal(t, http.StatusBadRequest, sendJSON(router, http.MethodPost, httpAPI.ProductsPath, map[string]any{
			"name": "n", "description": "d", "price": -1,
		}).Code)
		assert.Equal(t, http.StatusBadRequest, sendJSON(router, http.MethodPost, httpAPI.ProductsPath, map[string]any{
			"name": "n", "description": "d", "price": 1, "stock": 3000000000,
		}).Code)

		w := sendJSON(router, http.MethodGet, httpAPI.ProductsPath, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("preflight is answered by CORS middleware", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, httpAPI.ProductsPath, nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
