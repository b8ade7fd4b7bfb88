package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/renttogether/renttogether-backend/internal/auth"
	"github.com/renttogether/renttogether-backend/internal/photo"
	"github.com/renttogether/renttogether-backend/internal/pkg/response"
)

type Handler struct {
	service photo.Service
}

func NewHandler(service photo.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Upload(c *gin.Context) {
	carID := c.Param("id")
	if _, err := uuid.Parse(carID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "details": err.Error()})
		return
	}

	headers := form.File["photos"]
	uploads := make([]photo.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}
		defer f.Close()

		uploads = append(uploads, photo.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		})
	}

	photos, err := h.service.Upload(c.Request.Context(), carID, userID, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPhotoResponses(photos))
}

func (h *Handler) ListByCar(c *gin.Context) {
	carID := c.Param("id")
	if _, err := uuid.Parse(carID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	photos, err := h.service.ListByCar(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newPhotoResponses(photos))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
