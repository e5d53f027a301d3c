package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultPresignedURLExpiry is how long issued URLs stay valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// mediaKeyPrefix scopes every stored object under the exercise media tree.
const mediaKeyPrefix = "exercises/"

var (
	ErrInvalidMediaKey      = errors.New("invalid media object key")
	ErrUnsupportedMediaType = errors.New("unsupported media content type")
)

// allowedMediaTypes lists the demo media formats clients may upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"video/mp4":       true,
	"video/quicktime": true,
}

// IsAllowedMediaType reports whether contentType is accepted as exercise
// demo media.
func IsAllowedMediaType(contentType string) bool {
	return allowedMediaTypes[strings.ToLower(contentType)]
}

// ValidateMediaKey checks that key addresses the exercise media tree,
// exercises/{userId}/{exerciseId}/{mediaId}, with no empty or traversal
// segments. Every storage operation runs through this check, so a caller
// cannot reach objects outside the tree.
func ValidateMediaKey(key string) error {
	if !strings.HasPrefix(key, mediaKeyPrefix) {
		return ErrInvalidMediaKey
	}
	parts := strings.Split(key, "/")
	if len(parts) != 4 {
		return ErrInvalidMediaKey
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidMediaKey
		}
	}
	return nil
}

// FileStorage issues presigned URLs for exercise demo media. Uploads go
// straight from the browser to the bucket; the API only hands out URLs and
// records object keys.
type FileStorage interface {
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}
