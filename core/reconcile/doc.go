// Package reconcile applies canonical license updates to an identifier-keyed store.
//
// A batch of updates is applied inside a single transaction. For every update the
// engine:
//
//  1. skips it when the identifier or display name is blank;
//  2. finds the owning entity, asking the Resolver on a miss and persisting the
//     resolved entity inside the same transaction;
//  3. upserts the license keyed by (entity, current license number);
//  4. replaces the reissue history and the operation grants wholesale.
//
// Skips are ordinary per-record outcomes. Store failures are fatal: the whole
// batch rolls back and the error is returned alongside the counts reached so far.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(store, reconcile.NewCachedResolver(resolver, 10*time.Minute), logger)
//	report, err := engine.Apply(ctx, updates, reconcile.Options{})
//
// Options.DryRun runs the same batch and rolls it back, which yields real
// counts without committing anything.
package reconcile
