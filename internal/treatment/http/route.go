package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/treatments")

	// Public: the LIFF menu page lists active treatments.
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	// Admin Routes
	group.Use(authMiddleware, adminMiddleware)
	{
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/photo", h.UploadPhoto)
	}
}
