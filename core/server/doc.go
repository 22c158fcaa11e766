// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key guarding every route,
// and the timeouts applied to synchronizations triggered over HTTP and to
// graceful shutdown.
package server
