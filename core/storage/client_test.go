package storage_test

import (
	"testing"

	"registry-sync/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		ssl      bool
	}{
		{"Plain Endpoint", "localhost:9000", false},
		{"HTTP Scheme Stripped", "http://minio.internal:9000", false},
		{"HTTPS Scheme Stripped", "https://s3.amazonaws.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(storage.Config{
				Endpoint:       tt.endpoint,
				AccessKey:      "snapshots",
				SecretKey:      "snapshots-secret",
				UseSSL:         tt.ssl,
				Bucket:         "registry-snapshots",
				Region:         "us-east-1",
				TimeoutSeconds: 5,
			})
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}
