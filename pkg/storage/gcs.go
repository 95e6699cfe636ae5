package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
)

// Object metadata keys.
const (
	metaID       = "ingest-id"
	metaFilename = "ingest-filename"
	metaFormat   = "ingest-format"
)

// GCSArchive implements Archive on a Google Cloud Storage bucket. Objects are
// named <prefix>/<hash[:2]>/<hash>; the original filename travels as metadata.
type GCSArchive struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSArchive opens the archive at a gs://bucket/prefix URI. Credentials
// come from Application Default Credentials unless opts say otherwise.
func NewGCSArchive(ctx context.Context, uri string, opts ...option.ClientOption) (*GCSArchive, error) {
	bucket, prefix, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSArchive{client: client, bucket: bucket, prefix: prefix}, nil
}

// ParseGCSURI splits gs://bucket/some/prefix into bucket and prefix.
func ParseGCSURI(uri string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	bucket, prefix, _ = strings.Cut(trimmed, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no bucket): %s", uri)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

func (a *GCSArchive) objectName(hash string) string {
	if len(hash) < 2 {
		return path.Join(a.prefix, hash)
	}
	return path.Join(a.prefix, hash[:2], hash)
}

func (a *GCSArchive) object(hash string) *gcs.ObjectHandle {
	return a.client.Bucket(a.bucket).Object(a.objectName(hash))
}

// Has reports whether content with this hash is archived
func (a *GCSArchive) Has(ctx context.Context, hash string) (bool, error) {
	_, err := a.object(hash).Attrs(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gcs.ErrObjectNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat GCS object: %w", err)
	}
}

// Put stores data under its content hash
func (a *GCSArchive) Put(ctx context.Context, filename string, data []byte) (*FileInfo, error) {
	hash := sniffer.ContentHash(data)
	obj := a.object(hash)

	if attrs, err := obj.Attrs(ctx); err == nil {
		return a.fileInfo(attrs), nil
	} else if !errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, fmt.Errorf("stat GCS object: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	// A concurrent writer of the same bytes wins; we then read its metadata.
	w := obj.If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	w.Metadata = map[string]string{
		metaID:       uuid.NewString(),
		metaFilename: filename,
		metaFormat:   string(sniffer.DetectFormat(filename, data)),
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("copy statement to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != http.StatusPreconditionFailed {
			return nil, fmt.Errorf("finalize upload: %w", err)
		}
		attrs, err := obj.Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("stat GCS object: %w", err)
		}
		return a.fileInfo(attrs), nil
	}

	return a.fileInfo(w.Attrs()), nil
}

// Open returns a reader for archived content
func (a *GCSArchive) Open(ctx context.Context, hash string) (io.ReadCloser, *FileInfo, error) {
	obj := a.object(hash)

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return nil, nil, fmt.Errorf("stat GCS object: %w", err)
	}

	rc, err := obj.NewReader(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	return rc, a.fileInfo(attrs), nil
}

// List returns every archived file, oldest first
func (a *GCSArchive) List(ctx context.Context) ([]*FileInfo, error) {
	query := &gcs.Query{}
	if a.prefix != "" {
		query.Prefix = a.prefix + "/"
	}

	var files []*FileInfo
	it := a.client.Bucket(a.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list GCS objects: %w", err)
		}
		files = append(files, a.fileInfo(attrs))
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}

// Close releases the storage client.
func (a *GCSArchive) Close() error {
	return a.client.Close()
}

func (a *GCSArchive) fileInfo(attrs *gcs.ObjectAttrs) *FileInfo {
	info := &FileInfo{
		Hash:      path.Base(attrs.Name),
		Name:      attrs.Metadata[metaFilename],
		Size:      attrs.Size,
		Format:    attrs.Metadata[metaFormat],
		Path:      fmt.Sprintf("gs://%s/%s", attrs.Bucket, attrs.Name),
		CreatedAt: attrs.Created,
	}
	if id, err := uuid.Parse(attrs.Metadata[metaID]); err == nil {
		info.ID = id
	}
	return info
}
