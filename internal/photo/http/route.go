package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	carGroup := g.Group("/cars/:id/photos")
	{
		carGroup.GET("", h.ListByCar)
		carGroup.POST("", authMiddleware, h.Upload)
	}

	photoGroup := g.Group("/photos")
	photoGroup.Use(authMiddleware)
	{
		photoGroup.DELETE("/:id", h.Delete)
	}
}
