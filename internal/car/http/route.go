package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/cars")

	// === Public Routes ===
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Create)
		authed.PUT("/:id", h.Update)
	}
}
