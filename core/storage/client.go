package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client defines the storage operations needed to publish diff files.
type Client interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// MakeBucket creates a new bucket.
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

const defaultTimeout = 30 * time.Second

// Timeout returns the dial and response timeout, defaulting to 30 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// endpoint strips the scheme minio does not accept. An https:// scheme
// turns TLS on regardless of UseSSL.
func (c Config) endpoint() (host string, secure bool) {
	switch {
	case strings.HasPrefix(c.Endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(c.Endpoint, "https://"), "/"), true
	case strings.HasPrefix(c.Endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(c.Endpoint, "http://"), "/"), c.UseSSL
	default:
		return strings.TrimSuffix(c.Endpoint, "/"), c.UseSSL
	}
}

// NewClient creates the Minio client diff files are published with.
func NewClient(cfg Config) (Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	host, secure := cfg.endpoint()
	timeout := cfg.Timeout()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          2,
		IdleConnTimeout:       15 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	minioClient, err := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", host, err)
	}
	minioClient.SetAppInfo("db-compare", "1")

	return minioClient, nil
}
