package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every route handler for registration.
type HandlerBundle struct {
	// Resource + availability endpoints.
	ListResourcesHandler   gin.HandlerFunc
	GetAvailabilityHandler gin.HandlerFunc

	// Booking endpoints.
	CreateBookingHandler        gin.HandlerFunc
	CancelBookingHandler        gin.HandlerFunc
	ListCustomerBookingsHandler gin.HandlerFunc

	// Messaging-channel event intake.
	HandleEventHandler gin.HandlerFunc

	// Admin endpoints.
	ListBookingsHandler        gin.HandlerFunc
	CreateResourceHandler      gin.HandlerFunc
	UpdateResourceHandler      gin.HandlerFunc
	DeactivateResourceHandler  gin.HandlerFunc
	StatsHandler               gin.HandlerFunc
}
