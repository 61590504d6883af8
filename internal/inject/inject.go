package inject

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"

	"imagegen/docs"
	"imagegen/internal/config"
	"imagegen/internal/generator"
	handlers "imagegen/internal/http/handler"
	"imagegen/internal/http/middleware"
	"imagegen/internal/service"
	"imagegen/internal/storage"
)

// Setup builds the dependency graph. Nothing is constructed until invoked.
func Setup(cfg *config.AppConfig, logger *slog.Logger) *do.Injector {
	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), "component", "inject")
		},
	})

	do.ProvideValue[*config.AppConfig](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, logger)

	do.Provide[*prometheus.Registry](injector, func(i *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		if err := reg.Register(collectors.NewGoCollector()); err != nil {
			return nil, err
		}
		if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, err
		}
		return reg, nil
	})
	do.Provide[storage.Storage](injector, func(i *do.Injector) (storage.Storage, error) {
		return storage.NewLocal(do.MustInvoke[*config.AppConfig](i).Storage)
	})
	do.Provide[generator.Generator](injector, func(i *do.Injector) (generator.Generator, error) {
		return generator.NewBedrock(do.MustInvoke[*config.AppConfig](i).Bedrock), nil
	})
	do.Provide[service.ImageService](injector, func(i *do.Injector) (service.ImageService, error) {
		return service.NewImageService(
			do.MustInvoke[generator.Generator](i),
			do.MustInvoke[storage.Storage](i),
		), nil
	})
	do.Provide[*fiber.App](injector, NewApp)

	return injector
}

// NewApp assembles the Fiber app: global middleware, API routes, metrics and docs.
func NewApp(i *do.Injector) (*fiber.App, error) {
	cfg := do.MustInvoke[*config.AppConfig](i)
	logger := do.MustInvoke[*slog.Logger](i)
	reg := do.MustInvoke[*prometheus.Registry](i)
	imageSvc, err := do.Invoke[service.ImageService](i)
	if err != nil {
		return nil, err
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitBytes,
		DisableStartupMessage: true,
	})

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, imageSvc)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	if cfg.SwaggerEnabled {
		// Swagger UI with dynamic host and scheme
		app.Get("/swagger/*", func(c *fiber.Ctx) error {
			scheme := c.Protocol()
			if proto := c.Get("X-Forwarded-Proto"); proto != "" {
				scheme = strings.Split(proto, ",")[0]
			}

			host := c.Get("Host")
			if host == "" {
				host = cfg.AppHost
			}
			docs.SwaggerInfo.Host = host
			docs.SwaggerInfo.Schemes = []string{scheme}

			return swagger.HandlerDefault(c)
		})
	}

	return app, nil
}
