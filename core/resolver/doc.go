// Package resolver looks up organizations in an external directory service
// when the store has never seen their identifier.
//
// The directory answers GET {base_url}/organizations/{identifier} with a JSON
// document. A 404 maps to reconcile.ErrNotFound; transport errors and 5xx
// responses are retried with exponential backoff.
package resolver
