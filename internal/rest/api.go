package rest

import (
	"net/http"

	"github.com/dfryer1193/gitpix/api"
	"github.com/gin-gonic/gin"
)

// NewApi registers the image API routes.
func NewApi(router *gin.Engine, images *ImagesHandler) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, api.ErrorResponse{Error: "Method not allowed"})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	imagesV1 := router.Group("/api")
	{
		imagesV1.POST("/upload", images.UploadImage)
		imagesV1.GET("/get", images.GetImage)
		imagesV1.GET("/get-all", images.GetAllImages)
		imagesV1.GET("/:id", images.ServeImage)
	}
}
