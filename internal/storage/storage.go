// Package storage persists uploaded ad images and returns their public URLs.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

type ImageStore interface {
	// Save stores size bytes from body under key and returns the URL
	// clients should use to fetch it.
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// imageExts lists the accepted image types. Keys are what
// http.DetectContentType reports.
var imageExts = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// ImageExt returns the file extension for an accepted image content type.
func ImageExt(contentType string) (string, bool) {
	ext, ok := imageExts[contentType]
	return ext, ok
}

// ImageKey builds a collision-free object key. ext must come from ImageExt
// so that the stored name never carries a client supplied extension.
func ImageKey(ext string) string {
	return path.Join("ad_images", uuid.NewString()+ext)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
