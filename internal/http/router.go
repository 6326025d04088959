package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
)

// ProductsPath is the resource root of the product API.
const ProductsPath = "/api/products"

func InitRouter(server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController) *gin.Engine {
	// Recovery goes first so panics in later middleware are caught too
	server.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(),
	)

	server.GET("/", ctr.Index)
	server.GET("/ping", ctr.Ping)

	products := server.Group(ProductsPath)
	{
		products.POST("", productCtr.CreateProduct)
		products.GET("", productCtr.ListProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.PUT("/:id", productCtr.UpdateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}

	return server
}

// NewServer builds a gin engine serving the product API over the given service layer.
func NewServer(productCtr *controller.ProductController) *gin.Engine {
	return InitRouter(gin.New(), controller.New(), productCtr)
}
