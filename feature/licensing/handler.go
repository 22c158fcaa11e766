package licensing

import (
	"context"
	"errors"
	"time"

	"registry-sync/core/lock"
	"registry-sync/core/logger"
	"registry-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for registries, runs and licenses.
type Handler struct {
	service     *Service
	syncTimeout time.Duration
}

// NewHandler creates a new HTTP handler.
// syncTimeout bounds a sync started over HTTP; zero means no bound.
func NewHandler(service *Service, syncTimeout time.Duration) *Handler {
	return &Handler{service: service, syncTimeout: syncTimeout}
}

// RegisterRoutes registers the licensing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	registries := app.Group("/registries")
	registries.Get("/", h.HandleListRegistries)
	registries.Post("/:name/sync", h.HandleSync)
	registries.Get("/:name/extract", h.HandleExtract)

	app.Get("/runs", h.HandleListRuns)
	app.Get("/organizations/:identifier/licenses", h.HandleGetOrganization)
}

// HandleListRegistries lists the known registry profiles.
// @Summary List Registries
// @Tags licensing
// @Produce json
// @Success 200 {array} Registry
// @Router /registries [get]
func (h *Handler) HandleListRegistries(c *fiber.Ctx) error {
	return c.JSON(Registries())
}

// HandleSync runs one synchronization and returns its run record and report.
// @Summary Sync Registry
// @Description Render, extract and reconcile one registry. Use ?dry_run=true to roll back.
// @Tags licensing
// @Produce json
// @Param name path string true "Registry name (e.g. 'issued')"
// @Param dry_run query bool false "Roll the batch back after applying it"
// @Success 200 {object} SyncResult
// @Failure 400 {object} map[string]string "Export-only registry"
// @Failure 404 {object} map[string]string "Unknown registry"
// @Failure 409 {object} map[string]string "Registry is already syncing"
// @Failure 500 {object} map[string]string "Run failed"
// @Router /registries/{name}/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	name := c.Params("name")
	dryRun := c.QueryBool("dry_run", false)
	l := logger.WithRayID(h.service.logger, c)

	ctx := context.Background()
	if h.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.syncTimeout)
		defer cancel()
	}

	res, err := h.service.Sync(ctx, name, dryRun)
	if err != nil {
		status := statusFor(err)
		l.Error("Registry sync failed", zap.String("registry", name), zap.Error(err))

		body := fiber.Map{"error": err.Error()}
		if res != nil {
			body["run"] = res.Run
		}
		return c.Status(status).JSON(body)
	}

	l.Info("Registry synced",
		zap.String("registry", name),
		zap.Int("accepted", res.Run.Accepted),
		zap.Int("skipped", res.Run.Skipped),
	)
	return c.JSON(res)
}

// HandleExtract returns the canonical records of a registry without storing them.
// @Summary Extract Registry
// @Tags licensing
// @Produce json
// @Param name path string true "Registry name (e.g. 'sanctions')"
// @Success 200 {object} Export
// @Failure 404 {object} map[string]string "Unknown registry"
// @Failure 500 {object} map[string]string "Extraction failed"
// @Router /registries/{name}/extract [get]
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	name := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)

	export, err := h.service.Extract(c.Context(), name)
	if err != nil {
		l.Error("Registry extraction failed", zap.String("registry", name), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(export)
}

// HandleListRuns lists recent runs.
// @Summary List Runs
// @Tags licensing
// @Produce json
// @Param registry query string false "Filter by registry"
// @Param limit query int false "Maximum number of runs" default(50)
// @Success 200 {array} models.RunRecord
// @Router /runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", 50)
	records, err := h.service.ListRuns(c.Context(), c.Query("registry"), limit)
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// HandleGetOrganization returns an organization with its licenses.
// @Summary Get Organization Licenses
// @Tags licensing
// @Produce json
// @Param identifier path string true "Business identification number"
// @Success 200 {object} models.Organization
// @Failure 404 {object} map[string]string "Not found"
// @Router /organizations/{identifier}/licenses [get]
func (h *Handler) HandleGetOrganization(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	l := logger.WithRayID(h.service.logger, c)

	org, err := h.service.Organization(c.Context(), identifier)
	if err != nil {
		if !errors.Is(err, reconcile.ErrNotFound) {
			l.Error("Failed to load organization", zap.String("identifier", identifier), zap.Error(err))
		}
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(org)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownRegistry), errors.Is(err, reconcile.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrExportOnly):
		return fiber.StatusBadRequest
	case errors.Is(err, lock.ErrLocked):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
