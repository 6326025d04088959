package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller handles general HTTP requests.
type Controller struct{}

// New creates a new Controller.
func New() *Controller {
	return &Controller{}
}

// Index reports that the API is up.
func (con *Controller) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "product catalog API is running",
	})
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
