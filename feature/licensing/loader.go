package licensing

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new licensing feature around an existing service.
func NewFeature(service *Service, syncTimeout time.Duration) *Feature {
	return &Feature{service: service, handler: NewHandler(service, syncTimeout)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "licensing"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
