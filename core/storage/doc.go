// Package storage publishes finished diff files to S3-compatible object storage.
//
// It wraps the MinIO Go client behind the small Client interface so uploads can
// be mocked in tests (see core/storage/mocks). UploadFile creates the bucket
// when needed and stores each file under <prefix>/<run id>/<file name>.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	key, err := storage.UploadFile(ctx, client, cfg.Storage, runID, "diffs/20240101_120000_<run>.diff")
package storage
