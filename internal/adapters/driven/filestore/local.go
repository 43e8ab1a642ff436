// Package filestore keeps uploaded document bytes on local disk or in a
// Google Cloud Storage bucket.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*LocalStore)(nil)

// LocalStore stores files below a root directory through a fileblob bucket.
// Keys are slash-separated and may not escape the root.
type LocalStore struct {
	root   string
	bucket *blob.Bucket
}

// NewLocalStore creates the root directory if needed and returns a store over it.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("upload directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload directory: %w", err)
	}
	// Temp files live next to their target so the final rename stays on one filesystem
	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{CreateDir: true, NoTempDir: true})
	if err != nil {
		return nil, fmt.Errorf("open upload directory: %w", err)
	}
	return &LocalStore{root: abs, bucket: bucket}, nil
}

// cleanKey normalises a key and rejects ones that leave the store.
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: invalid file key %q", domain.ErrInvalidInput, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: invalid file key %q", domain.ErrInvalidInput, key)
	}
	return cleaned, nil
}

// Write stores r under key. The file appears atomically once fully written.
func (s *LocalStore) Write(ctx context.Context, key string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cleaned, err := cleanKey(key)
	if err != nil {
		return 0, err
	}

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(writeCtx, cleaned, &blob.WriterOptions{ContentType: contentTypeForKey(cleaned)})
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	n, err := io.Copy(w, r)
	if err != nil {
		// Closing after cancel discards the partial file
		cancel()
		_ = w.Close()
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", key, err)
	}
	return n, nil
}

// Read returns the content stored under key.
func (s *LocalStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	data, err := s.bucket.ReadAll(ctx, cleaned)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the file stored under key. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, cleaned); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close releases the bucket.
func (s *LocalStore) Close() error {
	return s.bucket.Close()
}
