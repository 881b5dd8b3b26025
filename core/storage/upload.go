package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
)

// ObjectKey returns the key a diff file of runID is stored under.
func ObjectKey(prefix, runID, localPath string) string {
	return path.Join(prefix, runID, filepath.Base(localPath))
}

// UploadFile stores the file at localPath under prefix/runID/ in bucket,
// creating the bucket when it does not exist. It returns the object key.
func UploadFile(ctx context.Context, client Client, cfg Config, runID, localPath string) (string, error) {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	key := ObjectKey(cfg.Prefix, runID, localPath)
	_, err = client.PutObject(ctx, cfg.Bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: "text/x-diff",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
