// Package loader mounts optional features onto the HTTP router.
//
// A feature reports its name, whether its dependencies are present, and
// registers its routes in Load:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(router fiber.Router) error
//	}
//
// The Manager keeps registration order. LoadAll skips disabled features with a
// log line and stops at the first Load error.
package loader
