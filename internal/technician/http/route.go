package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/technicians")

	// Public: the booking page lists technicians for the picker.
	group.GET("", h.List)

	// Admin Routes
	group.Use(authMiddleware, adminMiddleware)
	{
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}
