// Package config provides configuration management for registry-sync.
//
// Values come from environment variables, optionally seeded from a .env file.
// Every key is registered from the `default` struct tags of the section
// configs, so SECTION_KEY environment variables map onto section.key.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and request timeouts
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: logging level and format
//   - Render: DOM provider driver, browser timeouts and snapshot archiving
//   - Resolver: organization directory endpoint and retries
//   - Redis: cross-process run lock
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
