package integrity

import (
	"registry-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/snapshots", h.HandleSnapshotCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema and snapshot checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if snaps, err := h.service.CheckSnapshots(c.Context()); err != nil {
		report["snapshots"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["snapshots"] = snaps
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Schema
// @Description Checks if the database schema matches the expected models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if !report.Matched {
		l.Warn("Schema drift detected", zap.Strings("errors", report.Errors))
	}

	return c.JSON(report)
}

// HandleSnapshotCheck checks and optionally fixes the snapshot archive.
// @Summary Check Snapshots
// @Description Checks that the snapshot bucket and per-registry folders exist. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket and missing folders"
// @Success 200 {object} map[string]interface{} "Snapshot Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/snapshots [get]
func (h *Handler) HandleSnapshotCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckSnapshots(c.Context())
	if err != nil {
		l.Error("Snapshot check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.OK() {
		l.Warn("Missing snapshot folders detected",
			zap.Bool("bucket_missing", report.BucketMissing),
			zap.Strings("missing", report.Missing))

		if fix {
			l.Info("Attempting to fix snapshot archive")
			if err := h.service.FixSnapshots(c.Context(), report); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix snapshots",
					"details": err.Error(),
					"missing": report.Missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  report.Missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":         "checked",
		"bucket_missing": report.BucketMissing,
		"missing":        report.Missing,
	})
}
