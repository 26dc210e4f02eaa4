// File: roomdesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomdesk/config"
	"roomdesk/cron"
	"roomdesk/database"
	bookingRepoPkg "roomdesk/database/repository/booking"
	resourceRepoPkg "roomdesk/database/repository/resource"
	"roomdesk/handlers"
	"roomdesk/middleware"
	"roomdesk/routes"
	"roomdesk/services/availability"
	bookingSvc "roomdesk/services/booking"
	"roomdesk/services/calendar"
	"roomdesk/services/conversation"
	"roomdesk/services/membership"
	"roomdesk/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitGateCache()

	location, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid timezone %q: %v", config.AppConfig.Timezone, err)
	}

	grid, err := availability.NewGrid(
		config.AppConfig.BusinessOpen,
		config.AppConfig.BusinessClose,
		config.AppConfig.SlotGranularityMin,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: unusable business hours: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	resourceRepo := resourceRepoPkg.NewMongoResourceRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// external-calendar adapter.
	var calendarSync calendar.Sync = calendar.NoopSync{}
	if config.AppConfig.GoogleCredentialsFile != "" {
		calendarSync, err = calendar.NewGoogleSync(
			context.Background(),
			config.AppConfig.GoogleCredentialsFile,
			config.AppConfig.Timezone,
			time.Duration(config.AppConfig.CalendarTimeoutSec)*time.Second,
		)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize calendar sync: %v", err)
		}
	} else {
		logger.Sugar().Warn("main: no calendar credentials configured, external mirror disabled")
	}

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Grid:     grid,
		Ledger:   &availability.LedgerSource{Repo: bookingRepo},
		External: &availability.ExternalCalendarSource{Sync: calendarSync},
	}

	bookingService := &bookingSvc.DefaultBookingService{
		Repo:         bookingRepo,
		ResourceRepo: resourceRepo,
		Availability: availabilityService,
		Calendar:     calendarSync,
		DedupeClient: utils.GetCacheClient(),
		Location:     location,
	}

	memberGate := membership.NewCRMMemberGate(
		config.AppConfig.CRMBaseURL,
		time.Duration(config.AppConfig.CRMTimeoutSec)*time.Second,
		utils.GetGateCacheClient(),
		time.Duration(config.AppConfig.GateCacheTTLMin)*time.Minute,
	)

	conversationController := &conversation.DefaultController{
		Gate:         memberGate,
		Availability: availabilityService,
		Bookings:     bookingService,
		ResourceRepo: resourceRepo,
		Location:     location,
		DaysAhead:    config.AppConfig.BookingDaysAhead,
		DisplayMax:   config.AppConfig.SlotDisplayMax,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, resourceRepo, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, resourceRepo, logger)
	resourceHandler := handlers.NewResourceHandler(resourceRepo, bookingRepo, logger)
	eventsHandler := handlers.NewEventsHandler(conversationController, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ListResourcesHandler:   availabilityHandler.ListResourcesHandler,
		GetAvailabilityHandler: availabilityHandler.GetAvailabilityHandler,

		CreateBookingHandler:        bookingHandler.CreateBookingHandler,
		CancelBookingHandler:        bookingHandler.CancelBookingHandler,
		ListCustomerBookingsHandler: bookingHandler.ListCustomerBookingsHandler,

		HandleEventHandler: eventsHandler.HandleEventHandler,

		ListBookingsHandler:       bookingHandler.ListBookingsHandler,
		CreateResourceHandler:     resourceHandler.CreateResourceHandler,
		UpdateResourceHandler:     resourceHandler.UpdateResourceHandler,
		DeactivateResourceHandler: resourceHandler.DeactivateResourceHandler,
		StatsHandler:              resourceHandler.StatsHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the background maintenance worker.
	cron.InitMaintenanceWorker(&cron.Maintenance{
		Bookings:  bookingRepo,
		Resources: resourceRepo,
		Calendar:  calendarSync,
		Location:  location,
	})

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
