package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/abdul977/muahibstores/internal/storage"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MediaHandler serves admin uploads to the product image and video buckets
type MediaHandler struct {
	store *storage.MediaStore
}

// NewMediaHandler creates a media handler
func NewMediaHandler(store *storage.MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// UploadImage stores the multipart "file" field in the image bucket.
// The optional "folder" field defaults to products.
func (h *MediaHandler) UploadImage(c echo.Context) error {
	return h.upload(c, func(ctx context.Context, f storage.File) (*storage.UploadResult, error) {
		return h.store.UploadImage(ctx, f, c.FormValue("folder"))
	})
}

// UploadVideo stores the multipart "file" field in the video bucket
func (h *MediaHandler) UploadVideo(c echo.Context) error {
	return h.upload(c, h.store.UploadVideo)
}

func (h *MediaHandler) upload(c echo.Context, store func(context.Context, storage.File) (*storage.UploadResult, error)) error {
	log := logger.FromEcho(c)

	fh, err := c.FormFile("file")
	if err != nil {
		log.Warn("Missing upload file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file provided"})
	}
	body, err := fh.Open()
	if err != nil {
		log.Error("Failed to open upload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Could not read the uploaded file"})
	}
	defer body.Close()

	res, err := store(c.Request().Context(), storage.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        body,
	})
	if err != nil {
		var invalid *storage.InvalidFileError
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": invalid.Message})
		}
		log.Error("Upload failed", zap.String("filename", fh.Filename), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to upload file. Please try again."})
	}

	log.Info("File uploaded", zap.String("bucket", res.Bucket), zap.String("path", res.Path))
	return c.JSON(http.StatusCreated, res)
}

type deleteMediaRequest struct {
	URL string `json:"url"`
}

// DeleteMedia removes the stored object behind a public URL.
// URLs not served by this store are accepted and left alone.
func (h *MediaHandler) DeleteMedia(c echo.Context) error {
	var req deleteMediaRequest
	if err := c.Bind(&req); err != nil || req.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url is required"})
	}
	if err := h.store.RemoveURL(c.Request().Context(), req.URL); err != nil {
		logger.FromEcho(c).Error("Failed to delete media", zap.String("url", req.URL), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete file. Please try again."})
	}
	return c.NoContent(http.StatusNoContent)
}
