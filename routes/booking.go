package routes

import (
	"courtbook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/draft", h.CreateDraft)
		booking.GET("/draft/:draftID", h.GetDraft)
		booking.DELETE("/draft/:draftID", h.DeleteDraft)

		booking.GET("/availability", h.GetAvailability)
		booking.POST("/select", h.SelectSlot)
		booking.POST("/quote", h.Quote)

		booking.POST("/batch", h.SubmitBatch)
		booking.POST("/batch/resolve", h.ResolveBatch)

		booking.POST("/payment", h.InitiatePayment)
	}
}
