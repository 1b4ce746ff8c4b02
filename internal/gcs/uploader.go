// Package gcs uploads exported files to Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrInvalidURI is returned for anything that is not gs://bucket[/object].
var ErrInvalidURI = errors.New("invalid GCS URI")

const uploadTimeout = 2 * time.Minute

// Location is a parsed gs:// URI.
type Location struct {
	Bucket string
	Object string
}

// String formats the location as a gs:// URI.
func (l Location) String() string {
	return "gs://" + l.Bucket + "/" + l.Object
}

// ParseURI splits gs://bucket/path/to/object. When the URI names only a
// bucket or ends in "/", Object is the prefix and Resolve must supply a
// file name.
func ParseURI(uri string) (Location, error) {
	if !strings.HasPrefix(uri, "gs://") {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	bucket, object, _ := strings.Cut(trimmed, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: missing bucket in %q", ErrInvalidURI, uri)
	}
	return Location{Bucket: bucket, Object: object}, nil
}

// Resolve fills in name when the location is a prefix.
func (l Location) Resolve(name string) Location {
	if l.Object == "" || strings.HasSuffix(l.Object, "/") {
		l.Object += path.Base(name)
	}
	return l
}

type writerFunc func(ctx context.Context, loc Location, contentType string) io.WriteCloser

// Uploader writes objects with Application Default Credentials unless other
// client options are given.
type Uploader struct {
	client *storage.Client
	logger *slog.Logger
	open   writerFunc
}

// NewUploader creates a storage client.
func NewUploader(ctx context.Context, opts ...option.ClientOption) (*Uploader, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	u := &Uploader{
		client: client,
		logger: slog.Default().With("component", "gcs"),
	}
	u.open = func(ctx context.Context, loc Location, contentType string) io.WriteCloser {
		w := client.Bucket(loc.Bucket).Object(loc.Object).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}
	return u, nil
}

// Upload copies r to loc.
func (u *Uploader) Upload(ctx context.Context, loc Location, r io.Reader, contentType string) error {
	if loc.Object == "" || strings.HasSuffix(loc.Object, "/") {
		return fmt.Errorf("%w: no object name in %s", ErrInvalidURI, loc)
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := u.open(ctx, loc, contentType)
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("copy to %s: %w", loc, err)
	}
	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload to %s: %w", loc, err)
	}

	u.logger.Info("Uploaded export", "uri", loc.String(), "bytes", n)
	return nil
}

// Close releases the storage client.
func (u *Uploader) Close() error {
	if u.client == nil {
		return nil
	}
	return u.client.Close()
}
