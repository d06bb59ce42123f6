package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public: the LIFF booking page checks slots and places bookings
	// without a staff token.
	g.GET("/availability", h.Availability)

	group := g.Group("/bookings")
	group.POST("", h.Create)
	group.GET("/my", h.My)

	// Staff Routes
	staff := group.Group("", authMiddleware)
	{
		staff.GET("", h.List)
		staff.GET("/summary", h.Summary)
		staff.GET("/:id", h.Get)
		staff.PATCH("/:id/status", h.UpdateStatus)
		staff.PATCH("/:id/reschedule", h.Reschedule)
	}

	// Admin Routes
	admin := group.Group("", authMiddleware, adminMiddleware)
	{
		admin.DELETE("/:id", h.Delete)
	}
}
