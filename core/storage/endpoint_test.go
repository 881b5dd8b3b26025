package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Endpoint(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		host   string
		secure bool
	}{
		{"bare host", Config{Endpoint: "minio:9000"}, "minio:9000", false},
		{"bare host with ssl", Config{Endpoint: "minio:9000", UseSSL: true}, "minio:9000", true},
		{"http scheme", Config{Endpoint: "http://minio:9000/"}, "minio:9000", false},
		{"https scheme forces tls", Config{Endpoint: "https://s3.amazonaws.com"}, "s3.amazonaws.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure := tt.cfg.endpoint()
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}
