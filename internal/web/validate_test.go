package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https ok", "https://example.com/page", false},
		{"http ok", "http://example.com", false},
		{"ftp rejected", "ftp://example.com/file", true},
		{"file rejected", "file:///etc/passwd", true},
		{"empty host", "https://", true},
		{"localhost blocked", "http://localhost:8080/admin", true},
		{"localhost case insensitive", "http://LOCALHOST/x", true},
		{"gcp metadata blocked", "http://metadata.google.internal/computeMetadata", true},
		{"loopback ip blocked", "http://127.0.0.1/x", true},
		{"private ip blocked", "http://10.0.0.5/x", true},
		{"private 192 blocked", "http://192.168.1.1/x", true},
		{"link local blocked", "http://169.254.169.254/latest/meta-data", true},
		{"unspecified blocked", "http://0.0.0.0/x", true},
		{"ipv6 loopback blocked", "http://[::1]/x", true},
		{"public ip ok", "http://93.184.216.34/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
