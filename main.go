package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigbridge/cache"
	"gigbridge/config"
	"gigbridge/cron"
	"gigbridge/database"
	accountRepoPkg "gigbridge/database/repository/account"
	bookingRepoPkg "gigbridge/database/repository/booking"
	eventRepoPkg "gigbridge/database/repository/event"
	notificationRepoPkg "gigbridge/database/repository/notification"
	providerRepoPkg "gigbridge/database/repository/provider"
	"gigbridge/handlers"
	"gigbridge/middleware"
	"gigbridge/routes"
	"gigbridge/services/booking"
	"gigbridge/services/eventbus"
	"gigbridge/services/invalidation"
	"gigbridge/services/mailer"
	"gigbridge/services/notification"
	"gigbridge/services/realtime"
	"gigbridge/services/tasks"
	"gigbridge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	cacheStore, redisClient := cache.New(logger)

	// Repositories.
	accountRepo := accountRepoPkg.NewMongoAccountRepo()
	providerRepo := providerRepoPkg.NewMongoProviderRepo()
	eventRepo := eventRepoPkg.NewMongoEventRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// Push channel: FCM when credentials are configured, otherwise a no-op.
	var pushChannel realtime.Channel = realtime.NoopChannel{}
	if path := config.AppConfig.FirebaseCredentialsPath; path != "" {
		fcm, err := realtime.NewFCMChannel(context.Background(), path, accountRepo)
		if err != nil {
			logger.Warn("main: FCM unavailable, push notifications disabled", zap.Error(err))
		} else {
			pushChannel = fcm
		}
	}

	dispatcher := &notification.DefaultDispatcher{
		Accounts:      accountRepo,
		Notifications: notificationRepo,
		Realtime:      pushChannel,
		Mailer:        mailer.NewSMTPSender(),
		Logger:        logger,
	}

	invalidator := &invalidation.Invalidator{Cache: cacheStore}

	// Reminder scheduling runs over asynq only when Redis is reachable.
	var reminderScheduler *tasks.Scheduler
	if redisClient != nil {
		asynqClient := cron.NewAsynqClient()
		defer asynqClient.Close()
		reminderScheduler = tasks.NewScheduler(asynqClient)
		cron.InitReminderWorker(dispatcher)
	} else {
		logger.Warn("main: Redis unavailable, booking reminders disabled")
		reminderScheduler = tasks.NewScheduler(nil)
	}

	// Event bus: committed booking writes publish here, consumers fan out.
	wmLogger := eventbus.NewZapLoggerAdapter(logger)
	pubSub := eventbus.NewPubSub(wmLogger)
	bus, err := eventbus.NewEventBus(pubSub, wmLogger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to create event bus: %v", err)
	}
	busRouter, err := eventbus.NewRouter(wmLogger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to create event router: %v", err)
	}
	processor, err := eventbus.NewEventProcessor(busRouter, pubSub, wmLogger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to create event processor: %v", err)
	}
	busHandlers := &eventbus.Handlers{
		Dispatcher:  dispatcher,
		Invalidator: invalidator,
		Reminders:   reminderScheduler,
		Logger:      logger,
	}
	if err := processor.AddHandlers(busHandlers.All()...); err != nil {
		logger.Sugar().Fatalf("main: failed to register event handlers: %v", err)
	}
	go func() {
		if err := busRouter.Run(context.Background()); err != nil {
			logger.Error("main: event router stopped", zap.Error(err))
		}
	}()
	// Events published before the subscriptions are up would be dropped by
	// the in-process transport, so serve only once the router is running.
	<-busRouter.Running()

	bookingService := &booking.DefaultBookingService{
		Bookings:  bookingRepo,
		Events:    eventRepo,
		Providers: providerRepo,
		Accounts:  accountRepo,
		Checker:   &booking.ConflictChecker{Repo: bookingRepo},
		Bus:       bus,
		Cache:     cacheStore,
		Logger:    logger,
	}

	handlerBundle := &handlers.HandlerBundle{
		AccountRepo:  accountRepo,
		Booking:      handlers.NewBookingHandler(bookingService, logger),
		Notification: handlers.NewNotificationHandler(notificationRepo, logger),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(redisClient, database.MongoClient)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := busRouter.Close(); err != nil {
		logger.Error("main: event router close failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
