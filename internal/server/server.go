package server

import (
	"strings"
	"time"

	"farmadmin/internal/access"
	"farmadmin/internal/asset"
	"farmadmin/internal/audit"
	"farmadmin/internal/auth"
	"farmadmin/internal/catalog"
	"farmadmin/internal/config"
	"farmadmin/internal/farm"
	"farmadmin/internal/gari"
	"farmadmin/internal/harvest"
	"farmadmin/internal/respond"
	"farmadmin/internal/staff"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// New builds the API application. database.DB must be initialised.
func New(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "farmadmin",
		DisableStartupMessage: true,
		ErrorHandler:          respond.ErrorHandler(log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(accessLog(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Origins(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Public auth
	api.Post("/login", auth.LoginHandler(cfg.JWTSecret))
	api.Post("/register", auth.RegisterHandler(cfg.JWTSecret))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))

	protected.Get("/me", auth.MeHandler())
	protected.Post("/logout", auth.LogoutHandler())

	farm.Routes(protected, log)
	catalog.Routes(protected, log)
	asset.Routes(protected, log)
	harvest.Routes(protected, log)
	gari.Routes(protected, log)
	staff.Routes(protected, log)

	// Roles & permissions
	access.Routes(protected)

	// Audit logs
	protected.Get("/audit-logs", auth.RequirePermission("admin.audit-logs.view"), audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequirePermission("admin.audit-logs.update"), audit.UndoAuditLogHandler())

	return app
}

func accessLog(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not run yet
			if ferr, ok := err.(*fiber.Error); ok {
				status = ferr.Code
			}
		}
		log.Info("request",
			zap.String("id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}
