// Package imagestore keeps recipe photos on local disk or in an
// S3-compatible bucket.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// MaxWidth is the widest an upload is stored.
const MaxWidth = 1200

const jpegQuality = 85

var (
	ErrNotFound   = errors.New("image not found")
	ErrInvalidKey = errors.New("invalid image key")
)

// Store saves, reads and deletes image blobs by key.
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Key names an upload after its owner and the upload time.
func Key(userID int64, now time.Time) string {
	return fmt.Sprintf("%d_%d.jpg", userID, now.UnixNano())
}

// ValidKey rejects anything that could escape the image directory.
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return filepath.Base(key) == key && !strings.ContainsAny(key, `/\`)
}

// Normalize decodes an uploaded image, applies EXIF orientation, shrinks it
// to MaxWidth and re-encodes it as JPEG.
func Normalize(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Upload normalizes r and stores it under a fresh key, which it returns.
func Upload(ctx context.Context, s Store, userID int64, r io.Reader, now time.Time) (string, error) {
	data, err := Normalize(r)
	if err != nil {
		return "", err
	}
	key := Key(userID, now)
	if err := s.Save(ctx, key, data); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}
