package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apphttp "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository/memory"
	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	productService := service.NewProductService(memory.NewProductRepository(), nil)
	return apphttp.NewServer(controller.NewProductController(productService))
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestProductAPI_CreateDeleteList(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodPost, apphttp.ProductsPath, map[string]any{
		"name":        "Widget",
		"description": "A widget",
		"price":       10,
		"stock":       5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.Product](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.DefaultCategory, created.Category)
	assert.Equal(t, 5, created.Stock)

	w = do(t, router, http.MethodDelete, apphttp.ProductsPath+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode[controller.DeleteProductResponse](t, w)
	assert.Equal(t, "product deleted successfully", deleted.Message)
	assert.Equal(t, created.ID, deleted.Product.ID)
	raw := decode[map[string]any](t, w)
	assert.ElementsMatch(t, []string{"message", "product"}, keys(raw))

	w = do(t, router, http.MethodGet, apphttp.ProductsPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestProductAPI_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"missing name", map[string]any{"description": "d", "price": 1}, http.StatusBadRequest, "name is required"},
		{"missing price", map[string]any{"name": "n", "description": "d"}, http.StatusBadRequest, "price is required"},
		{"negative stock", map[string]any{"name": "n", "description": "d", "price": 1, "stock": -2}, http.StatusBadRequest, "stock must not be negative"},
		{"stock beyond int4", map[string]any{"name": "n", "description": "d", "price": 1, "stock": 3000000000}, http.StatusBadRequest, "stock must not exceed 2147483647"},
		{"malformed json", `{"name":`, http.StatusBadRequest, ""},
		{"wrong type", `{"name":"n","description":"d","price":"ten"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter()

			w := do(t, router, http.MethodPost, apphttp.ProductsPath, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode[controller.ErrorResponse](t, w)
			assert.NotEmpty(t, resp.Message)
			assert.Contains(t, resp.Error, tt.wantError)

			list := do(t, router, http.MethodGet, apphttp.ProductsPath, nil)
			assert.JSONEq(t, "[]", list.Body.String())
		})
	}
}

func TestProductAPI_GetUpdate(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodPost, apphttp.ProductsPath, map[string]any{
		"name": "Lamp", "description": "Desk lamp", "price": 25.5, "category": "Home",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.Product](t, w)

	w = do(t, router, http.MethodGet, apphttp.ProductsPath+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[model.Product](t, w))

	w = do(t, router, http.MethodPut, apphttp.ProductsPath+"/"+created.ID, map[string]any{
		"name": "Lamp", "description": "Desk lamp", "price": 9.99, "category": "Home",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[model.Product](t, w)
	assert.Equal(t, 9.99, updated.Price)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	w = do(t, router, http.MethodPut, apphttp.ProductsPath+"/"+created.ID, map[string]any{
		"name": "", "description": "Desk lamp", "price": 9.99,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductAPI_ErrorStatuses(t *testing.T) {
	router := newRouter()
	missing := apphttp.ProductsPath + "/" + uuid.NewString()
	malformed := apphttp.ProductsPath + "/not-a-uuid"
	valid := map[string]any{"name": "n", "description": "d", "price": 1}

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{"get missing", http.MethodGet, missing, nil, http.StatusNotFound},
		{"get malformed", http.MethodGet, malformed, nil, http.StatusBadRequest},
		{"update missing", http.MethodPut, missing, valid, http.StatusNotFound},
		{"update malformed", http.MethodPut, malformed, valid, http.StatusBadRequest},
		{"delete missing", http.MethodDelete, missing, nil, http.StatusNotFound},
		{"delete malformed", http.MethodDelete, malformed, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode[controller.ErrorResponse](t, w)
			assert.NotEmpty(t, resp.Message)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestProductAPI_ListNewestFirst(t *testing.T) {
	router := newRouter()

	for _, name := range []string{"A", "B", "C"} {
		w := do(t, router, http.MethodPost, apphttp.ProductsPath, map[string]any{
			"name": name, "description": name, "price": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, router, http.MethodGet, apphttp.ProductsPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]model.Product](t, w)
	require.Len(t, products, 3)
	assert.Equal(t, "C", products[0].Name)
	assert.Equal(t, "B", products[1].Name)
	assert.Equal(t, "A", products[2].Name)
}

func TestGeneralRoutes(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
