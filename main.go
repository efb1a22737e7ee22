package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villa-booking/config"
	"villa-booking/database"
	"villa-booking/logger"
	"villa-booking/middleware"
	"villa-booking/routes"
	"villa-booking/types"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: " + err.Error())
	}
	logger.Init(cfg.LogDir, cfg.LogLevel)

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ReadBufferSize:        32768, // 32KB read buffer
		WriteBufferSize:       32768, // 32KB write buffer
		ReadTimeout:           time.Second * 30,
		WriteTimeout:          time.Second * 60,
		IdleTimeout:           time.Second * 90,
		BodyLimit:             4 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  code,
			})
		},
	})

	middleware.Configure(middleware.NewVerifier(cfg.JWTSecret, cfg.PublicKeyURL))

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}
	if err := database.Migrate(); err != nil {
		logger.Error("Database migration failed", err)
		return
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	container, err := routes.NewContainer(ctx, db, cfg)
	if err != nil {
		logger.Error("Failed to initialise services", err)
		return
	}
	container.Start(ctx)

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: cfg.FrontendURL != "*",
	}))
	app.Use(middleware.RequestContext(cfg.RenderTimeout + cfg.MailTimeout + 10*time.Second))
	app.Use(middleware.RequestLogger(container.Logs))

	routes.SetupRoutes(app, container)

	go func() {
		addr := cfg.AppHost + ":" + cfg.AppPort
		logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort +
			"\n\t\t\t\t\t\t******************************************************************************************\n")
		if err := app.Listen(addr); err != nil {
			logger.Error("Server stopped", err)
			stop()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Warning("Shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", err)
	}
	container.Close()
	database.Close()
}
