// Package licensing synchronizes the public license registries into the database.
//
// A sync renders the registry page, extracts the license cards, normalizes them
// and reconciles the batch through core/reconcile inside one transaction. Every
// sync is recorded by core/runs, whether it succeeded or not.
//
// # Registries
//
//   - issued: licenses issued to banks and other financial organizations.
//   - insurance: licenses of insurance organizations.
//   - securities: licenses of securities market participants.
//   - sanctions: supervisory sanctions. Export-only, never stored.
//
// # Components
//
//   - Service: Sync, Extract and the read queries.
//   - store.Store: gorm implementation of reconcile.Store and runs.Sink.
//   - Handler: HTTP endpoints.
//   - Feature: registers the handler with core/loader.
//
// # HTTP Endpoints
//
//   - GET  /registries : List registry profiles.
//   - POST /registries/:name/sync : Run one sync (?dry_run=true rolls back).
//   - GET  /registries/:name/extract : Canonical records without storing them.
//   - GET  /runs : Recent runs (?registry=, ?limit=).
//   - GET  /organizations/:identifier/licenses : An organization with its licenses.
package licensing
