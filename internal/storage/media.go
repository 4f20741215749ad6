package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ThumbnailWidth is the width of generated image thumbnails; height keeps the aspect ratio
const ThumbnailWidth = 300

var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedVideoTypes = map[string]bool{
		"video/mp4":  true,
		"video/webm": true,
		"video/ogg":  true,
	}
)

// InvalidFileError is a rejected upload. Its message is safe to show to users.
type InvalidFileError struct {
	Message string
}

func (e *InvalidFileError) Error() string {
	return e.Message
}

// File is an upload as received from a form
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult points at a stored object
type UploadResult struct {
	URL          string `json:"url"`
	Path         string `json:"path"`
	Bucket       string `json:"bucket"`
	ThumbnailURL string `json:"thumbnail,omitempty"`
}

// MediaStore uploads and removes product images and videos
type MediaStore struct {
	images   Bucket
	videos   Bucket
	maxImage int64
	maxVideo int64
	now      func() time.Time
}

// NewMediaStore creates a media store over the image and video buckets
func NewMediaStore(images, videos Bucket, cfg *config.StorageConfig) *MediaStore {
	return &MediaStore{
		images:   images,
		videos:   videos,
		maxImage: cfg.MaxImageBytes,
		maxVideo: cfg.MaxVideoBytes,
		now:      time.Now,
	}
}

// ValidateImage checks the type and size of an image upload
func (s *MediaStore) ValidateImage(f *File) error {
	if !allowedImageTypes[f.ContentType] {
		return &InvalidFileError{Message: "Invalid file type. Please upload JPEG, PNG, WebP, or GIF images."}
	}
	if f.Size > s.maxImage {
		return &InvalidFileError{Message: fmt.Sprintf("File size too large. Please upload images smaller than %dMB.", s.maxImage>>20)}
	}
	return nil
}

// ValidateVideo checks the type and size of a video upload
func (s *MediaStore) ValidateVideo(f *File) error {
	if !allowedVideoTypes[f.ContentType] {
		return &InvalidFileError{Message: "Invalid video type. Please upload MP4, WebM, or OGG videos."}
	}
	if f.Size > s.maxVideo {
		return &InvalidFileError{Message: fmt.Sprintf("Video file too large. Please upload videos smaller than %dMB.", s.maxVideo>>20)}
	}
	return nil
}

// objectName builds "{folder}/{unixmillis}-{random}.{ext}"
func (s *MediaStore) objectName(folder, filename string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		folder = "products"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + random

	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		name += "." + strings.ToLower(filename[i+1:])
	}
	return folder + "/" + name
}

// readLimited reads at most max bytes and rejects anything larger
func readLimited(r io.Reader, max int64, tooLarge string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, &InvalidFileError{Message: tooLarge}
	}
	return data, nil
}

// UploadImage stores an image under folder (default "products") and,
// when the image decodes, a ThumbnailWidth-wide JPEG thumbnail next to it.
func (s *MediaStore) UploadImage(ctx context.Context, f File, folder string) (*UploadResult, error) {
	result, err := s.uploadImage(ctx, f, folder)
	metrics.RecordMediaUpload(BucketProductImages, err)
	return result, err
}

func (s *MediaStore) uploadImage(ctx context.Context, f File, folder string) (*UploadResult, error) {
	if err := s.ValidateImage(&f); err != nil {
		return nil, err
	}
	data, err := readLimited(f.Body, s.maxImage, "File size too large.")
	if err != nil {
		return nil, err
	}

	objectPath := s.objectName(folder, f.Name)
	if err := s.images.Upload(ctx, objectPath, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	result := &UploadResult{
		URL:    s.images.PublicURL(objectPath),
		Path:   objectPath,
		Bucket: s.images.Name(),
	}

	if thumbPath, err := s.storeThumbnail(ctx, objectPath, data); err != nil {
		logger.FromContext(ctx).Debug("Thumbnail not generated",
			zap.String("path", objectPath),
			zap.Error(err))
	} else {
		result.ThumbnailURL = s.images.PublicURL(thumbPath)
	}
	return result, nil
}

func (s *MediaStore) storeThumbnail(ctx context.Context, objectPath string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", err
	}

	thumbPath := ThumbnailPath(objectPath)
	if err := s.images.Upload(ctx, thumbPath, &buf); err != nil {
		return "", err
	}
	return thumbPath, nil
}

// ThumbnailPath is the object path of an image's thumbnail
func ThumbnailPath(objectPath string) string {
	ext := path.Ext(objectPath)
	return strings.TrimSuffix(objectPath, ext) + "_thumb.jpg"
}

// UploadVideo stores a video in the videos bucket
func (s *MediaStore) UploadVideo(ctx context.Context, f File) (*UploadResult, error) {
	result, err := s.uploadVideo(ctx, f)
	metrics.RecordMediaUpload(BucketVideos, err)
	return result, err
}

func (s *MediaStore) uploadVideo(ctx context.Context, f File) (*UploadResult, error) {
	if err := s.ValidateVideo(&f); err != nil {
		return nil, err
	}

	objectPath := s.objectName("products", f.Name)
	body := io.LimitReader(f.Body, s.maxVideo)
	if err := s.videos.Upload(ctx, objectPath, body); err != nil {
		return nil, fmt.Errorf("video upload failed: %w", err)
	}
	return &UploadResult{
		URL:    s.videos.PublicURL(objectPath),
		Path:   objectPath,
		Bucket: s.videos.Name(),
	}, nil
}

// DeleteImage removes an image and its thumbnail
func (s *MediaStore) DeleteImage(ctx context.Context, objectPath string) error {
	if err := s.images.Remove(ctx, objectPath, ThumbnailPath(objectPath)); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// DeleteVideo removes a video
func (s *MediaStore) DeleteVideo(ctx context.Context, objectPath string) error {
	if err := s.videos.Remove(ctx, objectPath); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// ExtractPathFromURL returns the image object path behind a public URL
func (s *MediaStore) ExtractPathFromURL(rawURL string) (string, bool) {
	return s.images.PathFromURL(rawURL)
}

// PublicURL returns the public URL of an image object
func (s *MediaStore) PublicURL(objectPath string) string {
	return s.images.PublicURL(objectPath)
}

// RemoveURL deletes whichever stored object the URL points at.
// URLs served elsewhere are ignored.
func (s *MediaStore) RemoveURL(ctx context.Context, rawURL string) error {
	if p, ok := s.images.PathFromURL(rawURL); ok {
		return s.DeleteImage(ctx, p)
	}
	if p, ok := s.videos.PathFromURL(rawURL); ok {
		return s.DeleteVideo(ctx, p)
	}
	return nil
}

// CountFiles reports how many objects the image bucket holds
func (s *MediaStore) CountFiles(ctx context.Context) (int, error) {
	objects, err := s.images.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(objects), nil
}
