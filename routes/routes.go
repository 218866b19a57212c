package routes

import (
	"net/http"

	"courtbook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint group onto the router.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterBookingRoutes(r, bookingHandler)
}
