// Package database handles database connections and schema inspection.
//
// It wraps GORM and builds a dialector for MySQL, Postgres or SQLite from the
// application's configuration. Network databases are retried with exponential
// backoff while the service starts.
//
// # Schema Inspection
//
// GetTableColumns returns the live column definitions of a table, which the
// integrity feature compares against the licensing models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "licenses")
package database
