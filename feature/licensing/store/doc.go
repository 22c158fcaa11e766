// Package store persists reconciled licenses and run records with gorm.
//
// Catalog entries (organization, license and operation types) are created with
// INSERT ... ON CONFLICT DO NOTHING on their unique keys and read back, so the
// same name always maps to one row. Reissues and operations of a license are
// replaced as a whole on every write.
package store
