// Package storage wraps the MinIO client used for rendered page snapshots.
//
// Client is the subset of minio.Client the archive and the integrity checks
// need (bucket lookup and creation, object put/get/list/remove). The mocks
// subpackage provides a testify implementation.
//
//	client, err := storage.NewClient(cfg.Storage)
//	ok, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
