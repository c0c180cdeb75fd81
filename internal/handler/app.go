package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"gtrends-go/pkg/logger"
)

type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with the controller's routes, panic recovery,
// request ids and access logging.
func NewApp(h *Controller, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "gtrends",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          ErrorHandler(h.log),
	})

	app.Use(fiberrecover.New())
	app.Use(requestid.New())
	app.Use(accessLog(h.log))

	h.Register(app)
	return app
}

func accessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		log.WithFields(map[string]interface{}{
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   time.Since(start).String(),
		}).Info("Request handled")
		return err
	}
}
