package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barkbox/config"
	"barkbox/cron"
	"barkbox/database"
	bookingRepo "barkbox/database/repository/booking"
	listingRepo "barkbox/database/repository/listing"
	personRepo "barkbox/database/repository/person"
	petRepo "barkbox/database/repository/pet"
	"barkbox/handlers"
	"barkbox/middleware"
	"barkbox/routes"
	"barkbox/services/booking"
	"barkbox/services/listing"
	"barkbox/services/notification"
	"barkbox/services/person"
	"barkbox/services/pet"
	"barkbox/services/storage"
	"barkbox/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("main: failed to load config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	mongoClient, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("main: MongoDB unavailable", zap.Error(err))
	}
	defer database.Disconnect(mongoClient, logger)
	db := mongoClient.Database(cfg.DatabaseName)

	authCache, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisAuthDB)
	if err != nil {
		logger.Fatal("main: Redis auth cache unavailable", zap.Error(err))
	}
	defer authCache.Close()
	queueRedis, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisQueueDB)
	if err != nil {
		logger.Fatal("main: Redis queue unavailable", zap.Error(err))
	}
	defer queueRedis.Close()

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo(db.Collection(database.BookingsCollection))
	persons := personRepo.NewMongoPersonRepo(db.Collection(database.PersonsCollection))
	pets := petRepo.NewMongoPetRepo(db.Collection(database.PetProfilesCollection))
	listings := listingRepo.NewMongoListingRepo(db.Collection(database.DogListingsCollection))

	indexCtx := context.Background()
	for name, ensure := range map[string]func(context.Context) error{
		database.BookingsCollection:    bookings.EnsureIndexes,
		database.PersonsCollection:     persons.EnsureIndexes,
		database.PetProfilesCollection: pets.EnsureIndexes,
		database.DogListingsCollection: listings.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	// notifications.
	workerCfg := cron.WorkerConfig{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisQueueDB,
		Concurrency:   cfg.WorkerConcurrency,
	}
	queueClient := asynq.NewClient(workerCfg.RedisOpt())
	defer queueClient.Close()
	dispatcher := notification.NewQueueDispatcher(queueClient, logger)

	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	worker := cron.NewNotificationWorker(workerCfg, logger,
		notification.NewEmailTaskHandler(bookings, persons, mailer, logger))
	if err := worker.Start(5); err != nil {
		logger.Fatal("main: notification worker unavailable", zap.Error(err))
	}

	// services.
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	blacklist := utils.NewTokenBlacklist(authCache)

	personService := person.NewPersonService(persons, tokens, blacklist, logger)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := personService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("main: failed to seed admin account", zap.Error(err))
		}
	}
	bookingService := booking.NewBookingService(bookings, persons, pets, dispatcher, logger)
	petService := pet.NewPetService(pets, logger)

	var images storage.ImageStore
	if cfg.ImageUploadsEnabled() {
		store, err := storage.NewCloudinaryImageStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, logger)
		if err != nil {
			logger.Fatal("main: failed to initialize image store", zap.Error(err))
		}
		images = store
	} else {
		logger.Info("Cloudinary not configured, listing image uploads disabled")
	}
	listingService := listing.NewListingService(listings, images, logger)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	monitor := utils.NewHealthMonitor(mongoClient, []*redis.Client{authCache, queueRedis}, 30*time.Second, logger)
	go monitor.Start(monitorCtx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.NewRateLimiter(cfg.MaxRequestsPerMin).Middleware(logger))

	handlerBundle := &handlers.HandlerBundle{
		Tokens:      tokens,
		Revocations: blacklist,
		Logger:      logger,
		Persons:     handlers.NewPersonHandler(personService, logger),
		Bookings:    handlers.NewBookingHandler(bookingService, logger),
		Pets:        handlers.NewPetHandler(petService, logger),
		Listings:    handlers.NewListingHandler(listingService, logger),
		Health:      handlers.NewHealthHandler(monitor),
	}
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()

	logger.Info("main: server stopped gracefully")
}
