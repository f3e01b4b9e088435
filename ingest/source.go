// SPDX-License-Identifier: MIT

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const (
	schemeFile = "file://"
	schemeGCS  = "gs://"
)

// Location is a parsed source URI.
type Location struct {
	URI    string // as given
	Path   string // local path; empty for remote objects
	Bucket string // GCS bucket; empty for local files
	Object string // GCS object name
}

// Local reports whether the location is on the local filesystem.
func (l Location) Local() bool { return l.Bucket == "" }

// ParseLocation classifies a URI. Plain paths and file:// are local;
// gs://bucket/object is Google Cloud Storage.
func ParseLocation(uri string) (Location, error) {
	switch {
	case uri == "":
		return Location{}, fmt.Errorf("%w: empty uri", ErrUnsupportedSource)
	case strings.HasPrefix(uri, schemeGCS):
		bucket, object, ok := strings.Cut(strings.TrimPrefix(uri, schemeGCS), "/")
		if !ok || bucket == "" || object == "" {
			return Location{}, fmt.Errorf("%w: %q is not gs://bucket/object", ErrUnsupportedSource, uri)
		}
		return Location{URI: uri, Bucket: bucket, Object: object}, nil
	case strings.HasPrefix(uri, schemeFile):
		return Location{URI: uri, Path: strings.TrimPrefix(uri, schemeFile)}, nil
	case strings.Contains(uri, "://"):
		return Location{}, fmt.Errorf("%w: %q", ErrUnsupportedSource, uri)
	default:
		return Location{URI: uri, Path: uri}, nil
	}
}

// Info describes a source object for fingerprinting.
type Info struct {
	Location
	Size    int64
	ModTime time.Time
}

// NewGCSClient opens a storage client, using credentialsFile when set and
// application default credentials otherwise.
func NewGCSClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, fmt.Errorf("ingest: gcs credentials %s: %w", credentialsFile, err)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ingest: create gcs client: %w", err)
	}

	return client, nil
}

// open returns a reader for loc.
func (ld *Loader) open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if loc.Local() {
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("ingest: open %s: %w", loc.URI, err)
		}
		return f, nil
	}
	if ld.gcs == nil {
		return nil, fmt.Errorf("%w: %s (no gcs client configured)", ErrUnsupportedSource, loc.URI)
	}
	rc, err := ld.gcs.Bucket(loc.Bucket).Object(loc.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", loc.URI, err)
	}

	return rc, nil
}

// Stat returns size and modification time for uri.
func (ld *Loader) Stat(ctx context.Context, uri string) (Info, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return Info{}, err
	}
	if loc.Local() {
		fi, err := os.Stat(loc.Path)
		if err != nil {
			return Info{}, fmt.Errorf("ingest: stat %s: %w", uri, err)
		}
		return Info{Location: loc, Size: fi.Size(), ModTime: fi.ModTime()}, nil
	}
	if ld.gcs == nil {
		return Info{}, fmt.Errorf("%w: %s (no gcs client configured)", ErrUnsupportedSource, uri)
	}
	attrs, err := ld.gcs.Bucket(loc.Bucket).Object(loc.Object).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return Info{}, fmt.Errorf("ingest: stat %s: %w", uri, os.ErrNotExist)
	}
	if err != nil {
		return Info{}, fmt.Errorf("ingest: stat %s: %w", uri, err)
	}

	return Info{Location: loc, Size: attrs.Size, ModTime: attrs.Updated}, nil
}
