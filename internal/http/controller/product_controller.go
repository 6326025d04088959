package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/service"
)

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService *service.ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// DeleteProductResponse is the body of a successful delete.
type DeleteProductResponse struct {
	Message string         `json:"message"`
	Product *model.Product `json:"product"`
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	default:
		slog.Error(message,
			slog.Any("err", err),
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", c.GetString(middleware.RequestIDKey)),
		)
	}

	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Message: message, Error: err.Error()})
}

func bindFields(c *gin.Context) (model.ProductFields, bool) {
	var fields model.ProductFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Error: err.Error()})
		return fields, false
	}
	return fields, true
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	product, err := pc.productService.CreateProduct(c.Request.Context(), fields)
	if err != nil {
		writeError(c, "error creating product", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// ListProducts handles the HTTP GET request for listing every product, newest first.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, "error fetching products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct handles the HTTP GET request for a single product.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "error fetching product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles the HTTP PUT request replacing a product.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	product, err := pc.productService.UpdateProduct(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		writeError(c, "error updating product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	product, err := pc.productService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "error deleting product", err)
		return
	}

	c.JSON(http.StatusOK, DeleteProductResponse{
		Message: "product deleted successfully",
		Product: product,
	})
}
