// Package middleware groups the Fiber middleware mounted by the start command.
//
//   - rayid: tags every request with an X-Ray-ID header and a Locals value so
//     log lines of one sync request can be correlated.
//   - auth: checks the X-API-Key header against server.api_key. Paths listed in
//     Config.Skip (the Prometheus endpoint) bypass the check.
//
// An empty API key disables authentication.
package middleware
