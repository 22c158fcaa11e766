// Package models defines the gorm models of organizations, licenses, the
// operation catalogs and run records.
package models
