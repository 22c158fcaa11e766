package reconcile

import (
	"context"
	"errors"

	"registry-sync/core/normalize"
)

// ErrNotFound is returned by Tx.FindEntity and Resolver.Resolve when the entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Store runs a function inside one all-or-nothing transaction.
// A non-nil error from fn rolls back every write made through the Tx.
type Store interface {
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes the engine performs inside a transaction.
type Tx interface {
	// FindEntity looks up an entity by identifier, returning ErrNotFound on a miss.
	FindEntity(ctx context.Context, identifier string) (*Entity, error)

	// SaveEntity inserts the entity and sets its ID.
	SaveEntity(ctx context.Context, entity *Entity) error

	// UpsertLicense overwrites or creates the license keyed by
	// (entityID, update.CurrentLicenseNumber) and returns its ID.
	UpsertLicense(ctx context.Context, entityID uint, update normalize.EntityUpdate) (uint, error)

	// SetReissues replaces the reissue history of a license.
	SetReissues(ctx context.Context, licenseID uint, reissues []normalize.Reissue) error

	// SetOperations replaces the operation grants of a license, resolving the
	// catalog entries for organizationType by natural key.
	SetOperations(ctx context.Context, licenseID uint, organizationType string, ops []normalize.Operation) error
}

// Resolver finds or creates the canonical entity for an identifier outside the store.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (Entity, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, identifier string) (Entity, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, identifier string) (Entity, error) {
	return f(ctx, identifier)
}

// NoResolver never resolves anything.
var NoResolver Resolver = ResolverFunc(func(context.Context, string) (Entity, error) {
	return Entity{}, ErrNotFound
})
