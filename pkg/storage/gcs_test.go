package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantPrefix string
		wantErr    bool
	}{
		{"gs://statements", "statements", "", false},
		{"gs://statements/", "statements", "", false},
		{"gs://statements/archive/2024/", "statements", "archive/2024", false},
		{"s3://statements/archive", "", "", true},
		{"gs:///archive", "", "", true},
		{"./data/archive", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, prefix, err := ParseGCSURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantPrefix, prefix)
		})
	}
}

func TestGCSArchive_ObjectName(t *testing.T) {
	hash := "ab12cd34"

	assert.Equal(t, "ab/ab12cd34", (&GCSArchive{}).objectName(hash))
	assert.Equal(t, "archive/ab/ab12cd34", (&GCSArchive{prefix: "archive"}).objectName(hash))
}
