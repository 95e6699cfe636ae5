package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
)

func TestLocalArchive_PutAndHas(t *testing.T) {
	ctx := context.Background()
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	data := []byte("Date,Description,Amount\n01/02/2024,Coffee,-4.50\n")
	hash := sniffer.ContentHash(data)

	has, err := archive.Has(ctx, hash)
	require.NoError(t, err)
	assert.False(t, has)

	info, err := archive.Put(ctx, "jan.csv", data)
	require.NoError(t, err)
	assert.Equal(t, hash, info.Hash)
	assert.Equal(t, "jan.csv", info.Name)
	assert.Equal(t, int64(len(data)), info.Size)
	assert.Equal(t, "csv", info.Format)

	has, err = archive.Has(ctx, hash)
	require.NoError(t, err)
	assert.True(t, has)

	t.Run("same bytes under another name keep the first entry", func(t *testing.T) {
		again, err := archive.Put(ctx, "copy of jan.csv", data)
		require.NoError(t, err)
		assert.Equal(t, info.ID, again.ID)
		assert.Equal(t, "jan.csv", again.Name)
	})

	t.Run("open returns the stored bytes", func(t *testing.T) {
		rc, got, err := archive.Open(ctx, hash)
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, data, body)
		assert.Equal(t, info.ID, got.ID)
	})
}

func TestLocalArchive_OpenMissing(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	_, _, err = archive.Open(context.Background(), sniffer.ContentHash([]byte("nope")))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalArchive_List(t *testing.T) {
	ctx := context.Background()
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	files, err := archive.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = archive.Put(ctx, "a.csv", []byte("a"))
	require.NoError(t, err)
	_, err = archive.Put(ctx, "b.pdf", []byte("%PDF-1.4 b"))
	require.NoError(t, err)

	files, err = archive.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	names := []string{files[0].Name, files[1].Name}
	assert.ElementsMatch(t, []string{"a.csv", "b.pdf"}, names)
}

func TestLocalArchive_SanitizesNames(t *testing.T) {
	base := t.TempDir()
	archive, err := NewLocalArchive(base)
	require.NoError(t, err)

	info, err := archive.Put(context.Background(), "../../etc/passwd", []byte("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(base, info.Path))
	assert.NoError(t, err)
	assert.NotContains(t, info.Path, "..")
}

func TestLocalArchive_CancelledContext(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = archive.Put(ctx, "a.csv", []byte("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"statement.pdf", "statement.pdf"},
		{"a/b\\c", "a_b_c"},
		{"what?.csv", "what_.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}
}

func TestOpen_Local(t *testing.T) {
	archive, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	defer archive.Close()

	_, ok := archive.(*LocalArchive)
	assert.True(t, ok)
}
