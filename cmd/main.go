package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/maildeck/maildeck/pkg/config"
	"github.com/maildeck/maildeck/pkg/errx"
	"github.com/maildeck/maildeck/pkg/logx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("invalid configuration: %v", err)
	}
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))

	logx.Info("starting maildeck API server")

	container := NewContainer(cfg)
	defer container.Cleanup()

	app := fiber.New(fiber.Config{
		AppName:               "maildeck",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             cfg.Server.BodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health", healthCheckHandler(container))

	api := app.Group("/" + cfg.Server.APIPrefix)
	container.MailHandlers.RegisterRoutes(api)
	container.UploadHandlers.RegisterRoutes(api)
	logx.Infof("routes mounted under /%s", cfg.Server.APIPrefix)

	app.Use(notFoundHandler)

	startServer(app, cfg.Server.Port)
}

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":  "healthy",
			"service": "maildeck",
		}

		if err := container.DB.Ping(); err != nil {
			health["db"] = "unhealthy"
			health["status"] = "degraded"
		} else {
			health["db"] = "healthy"
		}

		if container.Redis != nil {
			if err := container.Redis.Ping(c.Context()).Err(); err != nil {
				health["redis"] = "unhealthy"
				health["status"] = "degraded"
			} else {
				health["redis"] = "healthy"
			}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":  "Route not found",
		"code":   "NOT_FOUND",
		"path":   c.Path(),
		"method": c.Method(),
	})
}

// globalErrorHandler translates errors into JSON responses. Registered
// errx errors keep their code, type and status; anything else becomes a
// generic 500.
func globalErrorHandler(c *fiber.Ctx, err error) error {
	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.GetRespHeader("X-Request-ID"),
	}).Errorf("request error: %v", err)

	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
			"code":  "HTTP_ERROR",
		})
	}

	if e, ok := errx.As(err); ok {
		response := fiber.Map{
			"error": e.Message,
			"code":  e.Code,
			"type":  string(e.Type),
		}
		if len(e.Details) > 0 {
			response["details"] = e.Details
		}
		return c.Status(e.HTTPStatus).JSON(response)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal Server Error",
		"code":  "INTERNAL_ERROR",
	})
}

func startServer(app *fiber.App, port string) {
	go func() {
		logx.Infof("server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logx.Infof("received signal %v, shutting down", sig)

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("server forced to shutdown: %v", err)
	}
	logx.Info("server exited")
}
