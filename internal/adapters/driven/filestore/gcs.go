package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*GCSStore)(nil)

const (
	gcsWriteTimeout = 2 * time.Minute
	gcsOpTimeout    = 30 * time.Second
)

// GCSStore stores files as objects in one bucket, optionally below a prefix.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore opens a storage client for bucket. Credentials come from the
// environment unless opts say otherwise.
func NewGCSStore(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// objectName maps a file key to its object name in the bucket.
func (s *GCSStore) objectName(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return cleaned, nil
	}
	return s.prefix + "/" + cleaned, nil
}

func (s *GCSStore) object(key string) (*storage.ObjectHandle, error) {
	name, err := s.objectName(key)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(s.bucket).Object(name), nil
}

// Write uploads r to the object for key.
func (s *GCSStore) Write(ctx context.Context, key string, r io.Reader) (int64, error) {
	obj, err := s.object(key)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, gcsWriteTimeout)
	defer cancel()

	w := obj.NewWriter(ctx)
	w.ContentType = contentTypeForKey(key)

	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close object writer %s: %w", key, err)
	}
	return n, nil
}

// Read downloads the object for key.
func (s *GCSStore) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.object(key)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, gcsOpTimeout)
	defer cancel()

	rc, err := obj.NewReader(ctx)
	if err != nil {
		return nil, mapObjectError(key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the object for key. Missing objects are ignored.
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	obj, err := s.object(key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, gcsOpTimeout)
	defer cancel()

	err = mapObjectError(key, obj.Delete(ctx))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Close releases the storage client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func mapObjectError(key string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrObjectNotExist):
		return domain.ErrNotFound
	default:
		return fmt.Errorf("object %s: %w", key, err)
	}
}

// contentTypeForKey guesses a MIME type from the key's extension.
func contentTypeForKey(key string) string {
	switch ext := strings.ToLower(path.Ext(key)); ext {
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	case "":
		return "application/octet-stream"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}
