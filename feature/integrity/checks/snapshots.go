package checks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"registry-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// SnapshotReport lists what is missing from the snapshot archive.
type SnapshotReport struct {
	Bucket        string   `json:"bucket"`
	BucketMissing bool     `json:"bucket_missing"`
	Missing       []string `json:"missing"`
}

// OK reports whether nothing is missing.
func (r *SnapshotReport) OK() bool {
	return !r.BucketMissing && len(r.Missing) == 0
}

// SnapshotFolder returns the folder key holding the snapshots of one registry.
func SnapshotFolder(prefix, name string) string {
	return path.Join(strings.Trim(prefix, "/"), name) + "/"
}

// CheckSnapshots verifies that the bucket exists and holds a folder per registry name.
func CheckSnapshots(ctx context.Context, client storage.Client, bucket, prefix string, names []string) (*SnapshotReport, error) {
	report := &SnapshotReport{Bucket: bucket, Missing: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		report.BucketMissing = true
		for _, name := range names {
			report.Missing = append(report.Missing, SnapshotFolder(prefix, name))
		}
		return report, nil
	}

	for _, name := range names {
		folder := SnapshotFolder(prefix, name)
		opts := minio.ListObjectsOptions{
			Prefix:    folder,
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
			}
			found = true
			break
		}

		if !found {
			report.Missing = append(report.Missing, folder)
		}
	}

	return report, nil
}

// FixSnapshots creates the bucket when missing and a marker object for every missing folder.
func FixSnapshots(ctx context.Context, client storage.Client, report *SnapshotReport, logger *zap.Logger) error {
	if report.BucketMissing {
		if err := client.MakeBucket(ctx, report.Bucket, minio.MakeBucketOptions{}); err != nil {
			logger.Error("Failed to create bucket", zap.String("bucket", report.Bucket), zap.Error(err))
			return fmt.Errorf("failed to create bucket %s: %w", report.Bucket, err)
		}
		logger.Info("Created missing bucket", zap.String("bucket", report.Bucket))
	}

	for _, folder := range report.Missing {
		_, err := client.PutObject(ctx, report.Bucket, folder, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
