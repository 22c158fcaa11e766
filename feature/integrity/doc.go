// Package integrity provides infrastructure health checks.
//
// Unlike the 'licensing' package, which moves registry data, this package
// validates that the infrastructure the syncs depend on is in place.
//
// # Checks Provided
//
//   - Schema: Validates that the connected database matches the licensing models (tables, columns, declared types).
//   - Snapshots: Checks that the snapshot bucket exists and holds a folder per registry.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/snapshots : Runs the snapshot check (supports ?fix=true).
package integrity
