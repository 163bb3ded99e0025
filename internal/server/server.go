package server

import (
	"errors"
	"strings"

	"receiving-dashboard/internal/audit"
	"receiving-dashboard/internal/logger"
	"receiving-dashboard/internal/metrics"
	"receiving-dashboard/internal/problemtag"
	"receiving-dashboard/internal/receiving"
	"receiving-dashboard/internal/reference"
	"receiving-dashboard/internal/telemetry"
	"receiving-dashboard/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	CORSOrigins []string
}

// Deps are the stores behind the HTTP API.
type Deps struct {
	References  *reference.Store
	ProblemTags *problemtag.Store
	Receiving   *receiving.Store
	Metrics     *metrics.Engine
	Audit       *audit.Service
	Telemetry   *telemetry.Metrics // optional
}

// NewDeps wires every store onto one database handle. tm may be nil.
func NewDeps(db *gorm.DB, tm *telemetry.Metrics) Deps {
	auditSvc := audit.NewService(db)
	receivingStore := receiving.NewStore(db, auditSvc).WithMetrics(tm)
	return Deps{
		References:  reference.NewStore(db, auditSvc),
		ProblemTags: problemtag.NewStore(db, auditSvc).WithMetrics(tm),
		Receiving:   receivingStore,
		Metrics:     metrics.NewEngine(db, receivingStore),
		Audit:       auditSvc,
		Telemetry:   tm,
	}
}

func New(deps Deps, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "receiving-dashboard",
		ErrorHandler: errorHandler,
	})

	if deps.Telemetry != nil {
		app.Use(deps.Telemetry.Middleware())
	}
	app.Use(logger.Middleware())
	app.Use(recover.New())
	if len(opts.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(opts.CORSOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept",
			AllowMethods: "GET,POST,PUT,OPTIONS",
		}))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Telemetry != nil {
		app.Get("/metrics", deps.Telemetry.Handler())
	}

	api := app.Group("/api")

	// Dropdown lists
	api.Get("/customers", reference.ListCustomersHandler(deps.References))
	api.Post("/customers", reference.AddCustomerHandler(deps.References))
	api.Get("/employees", reference.ListEmployeesHandler(deps.References))
	api.Post("/employees", reference.AddEmployeeHandler(deps.References))

	// Problem tag submissions
	api.Get("/problem-tags/options", problemtag.OptionsHandler())
	api.Post("/problem-tags", problemtag.SubmitHandler(deps.ProblemTags))
	api.Get("/problem-tags", problemtag.ListHandler(deps.ProblemTags))
	api.Get("/problem-tags/:id", problemtag.GetHandler(deps.ProblemTags))
	api.Get("/problem-tags/:id/lines", problemtag.LinesHandler(deps.ProblemTags))

	// Daily receiving log
	api.Post("/receiving/import", receiving.ImportHandler(deps.Receiving))
	api.Post("/receiving", receiving.UpsertHandler(deps.Receiving))
	api.Get("/receiving", receiving.ListMonthHandler(deps.Receiving))
	api.Put("/receiving/:date", receiving.UpsertByDateHandler(deps.Receiving))
	api.Get("/receiving/:date", receiving.GetHandler(deps.Receiving))

	// Error rate reports
	api.Get("/metrics/daily/:date", metrics.DailyRateHandler(deps.Metrics))
	api.Get("/metrics/monthly", metrics.MonthlyTrendHandler(deps.Metrics))
	api.Get("/metrics/monthly/summary", metrics.MonthlySummaryHandler(deps.Metrics))
	api.Get("/metrics/monthly/export", metrics.ExportTrendHandler(deps.Metrics))
	api.Get("/metrics/monthly/report", metrics.MonthlyReportHandler(deps.Metrics))

	api.Get("/audit-logs", audit.ListAuditLogsHandler(deps.Audit))

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		return c.Status(fErr.Code).JSON(fiber.Map{"error": fErr.Message})
	}
	if vErr, ok := validation.As(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Message,
			"field": vErr.Field,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	logger.FromContext(c.UserContext()).Error("unexpected error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "something went wrong, please try again",
	})
}
