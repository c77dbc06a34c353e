package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kmonitor/internal/handlers"
	"kmonitor/internal/middleware"
	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
	"kmonitor/internal/services"
	"kmonitor/pkg/rabbitmq"
)

// repoSet bundles the four entity repositories behind their interfaces so
// the rest of the wiring does not care which backend is active.
type repoSet struct {
	users       repositories.UserRepository
	vehicles    repositories.VehicleRepository
	fuelRecords repositories.FuelRecordRepository
	messages    repositories.ChatMessageRepository
}

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // empty runs on the in-memory store
	viper.SetDefault("RABBITMQ_URL", "") // empty disables fuel events
	viper.SetDefault("DEMO_USERNAME", "demo")
	viper.SetDefault("DEMO_PASSWORD", "demo123")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Initialize RabbitMQ Client (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, fuel events disabled")
	}

	// --- Initialize Repositories ---
	repos, err := newRepositories(databaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// --- Initialize Services ---
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	userService := services.NewUserService(repos.users)
	vehicleService := services.NewVehicleService(repos.vehicles)
	fuelService := services.NewFuelRecordService(repos.fuelRecords, repos.vehicles, publisher)
	chatService := services.NewChatService(repos.messages, repos.vehicles, fuelService)
	analyticsService := services.NewAnalyticsService(repos.fuelRecords)

	// --- Seed the demo account ---
	// There is no real authentication yet; every request runs as this user.
	demoUser, err := userService.GetOrRegister(&models.InsertUser{
		Username: viper.GetString("DEMO_USERNAME"),
		Password: viper.GetString("DEMO_PASSWORD"),
	})
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	log.Printf("Demo user ready: %s (ID: %s)", demoUser.Username, demoUser.ID)

	// --- Initialize Handlers ---
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	fuelRecordHandler := handlers.NewFuelRecordHandler(fuelService)
	chatHandler := handlers.NewChatHandler(chatService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, vehicleService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	api := app.Group("/api", middleware.Identity(demoUser.ID))
	vehicleHandler.RegisterRoutes(api)
	fuelRecordHandler.RegisterRoutes(api)
	chatHandler.RegisterRoutes(api)
	analyticsHandler.RegisterRoutes(api)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if mqClient != nil {
			events = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events,
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for fuel events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received fuel event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeFuelEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newRepositories selects the storage backend from the DSN: empty means
// the in-memory store, a postgres:// DSN means PostgreSQL, anything else
// is treated as a SQLite path.
func newRepositories(dsn string) (*repoSet, error) {
	if dsn == "" {
		log.Println("DATABASE_DSN not set, using in-memory store")
		fuelRepo := repositories.NewMemFuelRecordRepository()
		return &repoSet{
			users:       repositories.NewMemUserRepository(),
			vehicles:    repositories.NewMemVehicleRepository(fuelRepo),
			fuelRecords: fuelRepo,
			messages:    repositories.NewMemChatMessageRepository(),
		}, nil
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.FuelRecord{},
		&models.ChatMessage{},
	); err != nil {
		return nil, err
	}

	return &repoSet{
		users:       repositories.NewGORMUserRepository(db),
		vehicles:    repositories.NewGORMVehicleRepository(db),
		fuelRecords: repositories.NewGORMFuelRecordRepository(db),
		messages:    repositories.NewGORMChatMessageRepository(db),
	}, nil
}
