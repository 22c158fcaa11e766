// Package logger builds the zap logger shared by the CLI and the server.
//
// Level "debug" selects zap's development config, anything else the production
// config. Format picks the console or JSON encoder.
//
// WithRayID returns a child logger carrying the ray id of a Fiber request, so
// handler errors can be matched to the request that caused them:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Sync failed", zap.String("registry", name), zap.Error(err))
package logger
