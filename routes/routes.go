package routes

import (
	"net/http"

	"roomdesk/handlers"
	"roomdesk/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/resources", hb.ListResourcesHandler)
		api.GET("/resources/:id/availability", hb.GetAvailabilityHandler)

		api.POST("/bookings", hb.CreateBookingHandler)
		api.POST("/bookings/:id/cancel", hb.CancelBookingHandler)
		api.GET("/customers/:customerID/bookings", hb.ListCustomerBookingsHandler)
	}
}

// RegisterEventRoutes registers the messaging-channel event intake.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/events", hb.HandleEventHandler)
}

// RegisterAdminRoutes registers room management and statistics endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.AdminAuthMiddleware())
		admin.GET("/bookings", hb.ListBookingsHandler)
		admin.POST("/resources", hb.CreateResourceHandler)
		admin.PATCH("/resources/:id", hb.UpdateResourceHandler)
		admin.DELETE("/resources/:id", hb.DeactivateResourceHandler)
		admin.GET("/stats", hb.StatsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes wires every route group onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterEventRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
