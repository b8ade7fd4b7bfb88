package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Public calendar surface ===
	carGroup := g.Group("/cars/:id")
	{
		carGroup.GET("/bookings", h.CalendarFeed)
		carGroup.GET("/calendar", h.Calendar)
		carGroup.GET("/availability", h.CheckAvailability)
	}

	// === Authenticated Routes ===
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id/confirm", h.Confirm)
		group.PUT("/:id/cancel", h.Cancel)
		group.DELETE("/:id", h.Delete)
		group.GET("/car/:carId", h.ListForCar)
	}
}
