package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
)

// LocalArchive implements Archive using the local filesystem. Content lives
// under <base>/<hash[:2]>/<hash>_<name>, metadata under <base>/.meta/<hash>.json.
type LocalArchive struct {
	basePath string
	mu       sync.Mutex
}

// NewLocalArchive creates a new local filesystem archive
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(filepath.Join(basePath, ".meta"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalArchive{basePath: basePath}, nil
}

// Has reports whether content with this hash is archived
func (s *LocalArchive) Has(ctx context.Context, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.metaPath(hash))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat metadata: %w", err)
	}
}

// Put stores data under its content hash
func (s *LocalArchive) Put(ctx context.Context, filename string, data []byte) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash := sniffer.ContentHash(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if info, err := s.info(hash); err == nil {
		return info, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	dir := filepath.Join(s.basePath, hash[:2])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create shard directory: %w", err)
	}

	storedFilename := fmt.Sprintf("%s_%s", hash, sanitizeFilename(filepath.Base(filename)))
	filePath := filepath.Join(dir, storedFilename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &FileInfo{
		ID:        uuid.New(),
		Hash:      hash,
		Name:      filename,
		Size:      int64(len(data)),
		Format:    string(sniffer.DetectFormat(filename, data)),
		Path:      filepath.Join(hash[:2], storedFilename),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.saveMetadata(info); err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, err
	}

	return info, nil
}

// Open returns a reader for archived content
func (s *LocalArchive) Open(ctx context.Context, hash string) (io.ReadCloser, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	info, err := s.info(hash)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.basePath, info.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, info, nil
}

// List returns every archived file, oldest first
func (s *LocalArchive) List(ctx context.Context) ([]*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.basePath, ".meta"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	files := make([]*FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		info, err := s.info(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		files = append(files, info)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}

// Close is a no-op for the local archive.
func (s *LocalArchive) Close() error {
	return nil
}

func (s *LocalArchive) metaPath(hash string) string {
	return filepath.Join(s.basePath, ".meta", filepath.Base(hash)+".json")
}

func (s *LocalArchive) info(hash string) (*FileInfo, error) {
	data, err := os.ReadFile(s.metaPath(hash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &info, nil
}

// saveMetadata writes through a temp file and rename
func (s *LocalArchive) saveMetadata(info *FileInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	metaPath := s.metaPath(info.Hash)
	tmp := metaPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := os.Rename(tmp, metaPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
