package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/theleywin/linkup-backend/src/config"
	"github.com/theleywin/linkup-backend/src/controllers"
	"github.com/theleywin/linkup-backend/src/db"
	"github.com/theleywin/linkup-backend/src/middleware"
	"github.com/theleywin/linkup-backend/src/routes"
	"github.com/theleywin/linkup-backend/src/services"
	"github.com/theleywin/linkup-backend/src/storage"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	ctx := context.Background()
	client, database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)
	log.Info().Str("database", cfg.Database.Name).Msg("Connected to MongoDB")

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	media, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize media storage")
	}

	notificationService := services.NewNotificationService(database)
	connectionService := services.NewConnectionService(database, client, notificationService, cfg.Database.UseTransactions)
	postService := services.NewPostService(database, media)
	userService := services.NewUserService(database, media)

	auth := middleware.NewAuth(userService, cfg.JWT.Secret)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.AuthRoutes(app, controllers.NewAuthController(userService, cfg.JWT.Secret), auth)
	routes.UserRoutes(app, controllers.NewUserController(userService), auth)
	routes.PostRoutes(app, controllers.NewPostController(postService), auth)
	routes.ConnectionRoutes(app, controllers.NewConnectionController(connectionService), auth)
	routes.NotificationRoutes(app, controllers.NewNotificationController(notificationService), auth)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	if cfg.Storage.Backend == "local" {
		app.Static(cfg.Storage.PublicURL, cfg.Storage.LocalDir)
	}

	log.Info().Str("port", cfg.Server.Port).Msg("Server is running")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	if cfg.Backend == "s3" {
		return storage.NewS3(ctx, cfg.AWSRegion, cfg.S3Bucket)
	}
	return storage.NewLocal(cfg.LocalDir, cfg.PublicURL)
}

func setupLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
