package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dfryer1193/gitpix/api"
	"github.com/dfryer1193/gitpix/imagestore/application"
	"github.com/dfryer1193/gitpix/imagestore/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Stored images never change under an identifier, so clients may cache them
// forever.
const imageCacheControl = "public, max-age=31536000, immutable"

type ImagesHandler struct {
	store   application.Service
	ingress *application.Ingress
}

func NewImagesHandler(store application.Service, ingress *application.Ingress) *ImagesHandler {
	return &ImagesHandler{
		store:   store,
		ingress: ingress,
	}
}

// ServeImage streams the raw bytes for /api/:id.
func (h *ImagesHandler) ServeImage(c *gin.Context) {
	id := c.Param("id")

	rc, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.String(http.StatusNotFound, "Image not found")
			return
		}
		log.Error().Err(err).Str("id", id).Msg("Failed to fetch image")
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Failed to fetch image"})
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", imageCacheControl)
	c.DataFromReader(http.StatusOK, -1, "image/png", rc, nil)
}

// GetImage answers /api/get?id= with the image's download URL after an
// existence check, without touching the bytes.
func (h *ImagesHandler) GetImage(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Image ID is required"})
		return
	}

	img, err := h.store.Resolve(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Image not found"})
			return
		}
		log.Error().Err(err).Str("id", id).Msg("Failed to resolve image")
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Failed to fetch image"})
		return
	}

	c.JSON(http.StatusOK, api.ImageResponse{Success: true, Image: img.URL})
}

// GetAllImages answers /api/get-all with the canonical retrieval path of
// every stored image.
func (h *ImagesHandler) GetAllImages(c *gin.Context) {
	images, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list images")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to retrieve images"})
		return
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, "/"+img.ID)
	}

	c.JSON(http.StatusOK, api.ListResponse{Success: true, Images: paths})
}

// UploadImage handles POST /api/upload. The request's content type selects
// exactly one upload mode: a JSON body carries a remote URL, anything else
// is treated as a multipart file upload.
func (h *ImagesHandler) UploadImage(c *gin.Context) {
	var payload domain.UploadPayload

	if strings.Contains(c.ContentType(), "application/json") {
		var req api.UploadRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No imageUrl provided"})
			return
		}

		p, err := h.ingress.FromURL(c.Request.Context(), req.ImageURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch remote image")
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to upload image"})
			return
		}
		payload = p
	} else {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file uploaded"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file uploaded"})
			return
		}
		defer f.Close()

		p, err := h.ingress.FromReader(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file uploaded"})
			return
		}
		payload = p
	}

	img, err := h.store.Put(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file uploaded"})
			return
		}
		log.Error().Err(err).Msg("Failed to upload image")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, api.UploadResponse{
		Success: true,
		Message: "Image uploaded successfully!",
		ID:      img.ID,
		URL:     img.URL,
	})
}
