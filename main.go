package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtbook/clients/courtapi"
	"courtbook/config"
	"courtbook/handlers"
	"courtbook/middleware"
	"courtbook/routes"
	"courtbook/services/booking"
	"courtbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitCache()
	utils.InitDraftCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Booking service boundary.
	courtClient := courtapi.NewHTTPClient(
		config.AppConfig.BookingServiceURL,
		time.Duration(config.AppConfig.BookingServiceTimeout)*time.Second,
		logger,
	)

	// Services.
	catalog := booking.NewStaticCourtCatalog(booking.DefaultCatalogEntries())
	engine := booking.NewBatchEngine(courtClient, logger, config.AppConfig.BatchConcurrency)
	drafts := booking.NewRedisDraftService(
		utils.GetDraftCacheClient(),
		time.Duration(config.AppConfig.DraftTTLMinutes)*time.Minute,
	)
	payments := booking.NewStripePaymentInitiator(logger, config.AppConfig.PaymentURL)

	bookingHandler := handlers.NewBookingHandler(
		engine, drafts, catalog, courtClient, payments,
		utils.GetCacheClient(), logger, config.AppConfig.SlotDurationMinutes,
	)

	routes.RegisterRoutes(router, bookingHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
