// Package storage holds uploaded product media in named buckets and
// serves them under public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	BucketProductImages = "product-images"
	BucketVideos        = "videos"

	// PublicPathPrefix is the URL path under which bucket objects are served
	PublicPathPrefix = "/storage/v1/object/public"
)

var (
	ErrObjectExists = errors.New("object already exists")
	ErrInvalidPath  = errors.New("invalid object path")
)

// Object describes one stored file
type Object struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Bucket is a named object store
type Bucket interface {
	Name() string
	// Upload stores a new object; existing objects are never overwritten
	Upload(ctx context.Context, objectPath string, r io.Reader) error
	// Remove deletes objects. Missing objects are not an error.
	Remove(ctx context.Context, objectPaths ...string) error
	List(ctx context.Context) ([]Object, error)
	PublicURL(objectPath string) string
	// PathFromURL extracts the object path from one of this bucket's public URLs
	PathFromURL(rawURL string) (string, bool)
}

// LocalBucket keeps objects in a directory on local disk
type LocalBucket struct {
	name       string
	dir        string
	publicBase string
}

// NewLocalBucket creates the bucket directory under rootDir if needed
func NewLocalBucket(rootDir, name, publicBaseURL string) (*LocalBucket, error) {
	dir := filepath.Join(rootDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return &LocalBucket{
		name:       name,
		dir:        dir,
		publicBase: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (b *LocalBucket) Name() string {
	return b.name
}

// Dir is the directory served for this bucket
func (b *LocalBucket) Dir() string {
	return b.dir
}

func (b *LocalBucket) resolve(objectPath string) (string, string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+objectPath), "/")
	if clean == "" || clean != strings.TrimPrefix(objectPath, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	return clean, filepath.Join(b.dir, filepath.FromSlash(clean)), nil
}

func (b *LocalBucket) Upload(ctx context.Context, objectPath string, r io.Reader) error {
	_, full, err := b.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrObjectExists, objectPath)
	}
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("upload failed: %w", err)
	}
	return f.Close()
}

func (b *LocalBucket) Remove(ctx context.Context, objectPaths ...string) error {
	for _, p := range objectPaths {
		_, full, err := b.resolve(p)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete failed: %w", err)
		}
	}
	return nil
}

func (b *LocalBucket) List(ctx context.Context) ([]Object, error) {
	objects := []Object{}
	err := filepath.WalkDir(b.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(b.dir, p)
		if err != nil {
			return err
		}
		objects = append(objects, Object{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket %s: %w", b.name, err)
	}
	return objects, nil
}

func (b *LocalBucket) PublicURL(objectPath string) string {
	return b.publicBase + "/" + b.name + "/" + strings.TrimPrefix(objectPath, "/")
}

func (b *LocalBucket) PathFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	marker := PublicPathPrefix + "/" + b.name + "/"
	i := strings.Index(u.Path, marker)
	if i < 0 {
		return "", false
	}
	p := u.Path[i+len(marker):]
	if p == "" {
		return "", false
	}
	return p, true
}
