package config

import (
	"os"
	"time"

	"GiveShare-Backend/internal/api/handlers"
	"GiveShare-Backend/internal/api/routes"
	"GiveShare-Backend/internal/live"
	"GiveShare-Backend/internal/middleware"
	"GiveShare-Backend/internal/utils"
	"GiveShare-Backend/internal/utils/mailing"
	"GiveShare-Backend/internal/utils/storage"
	"GiveShare-Backend/pkg/classifier"
	"GiveShare-Backend/pkg/item"
	"GiveShare-Backend/pkg/jwt"
	"GiveShare-Backend/pkg/lifecycle"
	"GiveShare-Backend/pkg/notification"
	"GiveShare-Backend/pkg/user"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	hub := live.NewHub()

	var profileCache notification.ProfileCache
	if addr := utils.GetConfig("REDIS_ADDR"); addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: utils.GetConfig("REDIS_PASSWORD"),
		})
		profileCache = notification.NewRedisProfileCache(redisClient)
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	itemRepository := item.NewItemRepository(db)
	lifecycleRepository := lifecycle.NewLifecycleRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	classifierClient := classifier.NewClassifierClient(utils.GetConfig("CLASSIFIER_URL"))
	userService := user.NewUserService(userRepository, jwtService, s3, mailing.SendMail)
	itemService := item.NewItemService(itemRepository, classifierClient, s3)
	lifecycleService := lifecycle.NewLifecycleService(lifecycleRepository, s3, hub)
	notificationService := notification.NewNotificationService(notificationRepository, profileCache)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	lifecycleHandler := handlers.NewLifecycleHandler(lifecycleService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService, validator)
	streamHandler := handlers.NewStreamHandler(hub, userService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		ItemHandler:         itemHandler,
		LifecycleHandler:    lifecycleHandler,
		NotificationHandler: notificationHandler,
		StreamHandler:       streamHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
