package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
	"gorm.io/gorm"

	"comandero/internal/config"
	"comandero/internal/handlers"
	"comandero/internal/middleware"
	"comandero/internal/repositories"
	"comandero/internal/services"
	"comandero/pkg/database"
	"comandero/pkg/logger"
	"comandero/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// The broker and the denylist are both optional: without them the
	// service still runs, with no events and expiry-only revocation.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, order events disabled")
		} else {
			defer mqClient.Close()
			// Drain the events queue into the service logs until a
			// dedicated consumer (kitchen display, notifier) exists.
			if err := mqClient.Consume(func(msg amqp.Delivery) error {
				log.WithFields(logrus.Fields{
					"routingKey": msg.RoutingKey,
					"messageId":  msg.MessageId,
				}).Info("Order event received")
				return nil
			}); err != nil {
				log.WithError(err).Warn("Failed to start order event consumer")
			}
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	app := NewApp(cfg, db, mqClient, rdb, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Error during shutdown")
	}
	log.Info("Server gracefully stopped")
}

// NewApp wires repositories, services and handlers into a Fiber app.
// mqClient and rdb may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, mqClient *rabbitmq.Client, rdb *redis.Client, log *logrus.Logger) *fiber.App {
	employeeRepo := repositories.NewGORMEmployeeRepository(db)
	restaurantRepo := repositories.NewGORMRestaurantRepository(db)
	employmentRepo := repositories.NewGORMEmploymentRepository(db)
	itemRepo := repositories.NewGORMItemRepository(db)
	commandaRepo := repositories.NewGORMCommandaRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(employeeRepo, log.WithField("service", "auth"))
	restaurantService := services.NewRestaurantService(restaurantRepo, log.WithField("service", "restaurant"))
	membershipService := services.NewMembershipService(employmentRepo, log.WithField("service", "membership"))
	catalogService := services.NewCatalogService(itemRepo, log.WithField("service", "catalog"))
	commandaService := services.NewCommandaService(commandaRepo, log.WithField("service", "commanda"))
	orderService := services.NewOrderService(orderRepo, mqClient, log.WithField("service", "order"))
	statsService := services.NewStatsService(orderRepo, log.WithField("service", "stats"))
	sessionService := services.NewSessionService(employeeRepo, employmentRepo, cfg.JWTSecret, cfg.TokenTTL, rdb, log.WithField("service", "session"))

	authHandler := handlers.NewAuthHandler(authService, sessionService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, sessionService)
	employeeHandler := handlers.NewEmployeeHandler(authService, membershipService, sessionService)
	itemHandler := handlers.NewItemHandler(catalogService)
	commandaHandler := handlers.NewCommandaHandler(commandaService)
	orderHandler := handlers.NewOrderHandler(orderService, commandaService)
	statsHandler := handlers.NewStatsHandler(statsService)

	app := fiber.New()

	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1")

	authHandler.RegisterPublicRoutes(apiV1)
	restaurantHandler.RegisterPublicRoutes(apiV1)

	authed := apiV1.Group("", middleware.AuthRequired(sessionService))
	authHandler.RegisterProtectedRoutes(authed)
	restaurantHandler.RegisterProtectedRoutes(authed)

	tenant := authed.Group("", middleware.RestaurantRequired())
	restaurantHandler.RegisterTenantRoutes(tenant)
	employeeHandler.RegisterTenantRoutes(tenant)
	itemHandler.RegisterTenantRoutes(tenant)
	commandaHandler.RegisterTenantRoutes(tenant)
	orderHandler.RegisterTenantRoutes(tenant)
	statsHandler.RegisterTenantRoutes(tenant)

	return app
}
