package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// legacyGridSunset is when the query-string grid endpoints go away.
var legacyGridSunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip); CSV reports compress well
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Conditional GETs and default Cache-Control
	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/v1/grid/columns", SunsetDate: legacyGridSunset, Alternative: "/v1/grid/subdivide"},
		{Path: "/v1/grid/rows", SunsetDate: legacyGridSunset, Alternative: "/v1/grid/subdivide"},
	}))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Grid
	v1.Post("/grid/subdivide", timeout.NewWithContext(SubdivideHandler(deps), requestTimeout))
	v1.Get("/grid/columns", timeout.NewWithContext(LegacyGridHandler(deps, domain.AxisLongitude), requestTimeout))
	v1.Get("/grid/rows", timeout.NewWithContext(LegacyGridHandler(deps, domain.AxisLatitude), requestTimeout))

	// Reports
	v1.Post("/reports", timeout.NewWithContext(CreateReportHandler(deps), requestTimeout))
	v1.Get("/reports", timeout.NewWithContext(ListReportsHandler(deps), requestTimeout))
	v1.Get("/reports/:id", timeout.NewWithContext(GetReportHandler(deps), requestTimeout))
	v1.Get("/reports/:id/sites.csv", timeout.NewWithContext(ReportCSVHandler(deps, true), requestTimeout))
	v1.Get("/reports/:id/sequences.csv", timeout.NewWithContext(ReportCSVHandler(deps, false), requestTimeout))
	v1.Post("/reports/:id/export", timeout.NewWithContext(ExportReportHandler(deps), requestTimeout))

	// Batches
	v1.Post("/batches", timeout.NewWithContext(CreateBatchHandler(deps), requestTimeout))
	v1.Get("/batches/:id", timeout.NewWithContext(GetBatchHandler(deps), requestTimeout))
	v1.Post("/batches/:id/report", timeout.NewWithContext(BatchReportHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if deps.NATS == nil {
			return errUnavailable(c, "event stream not configured")
		}
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
