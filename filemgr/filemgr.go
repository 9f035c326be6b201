// Package filemgr stores uploaded images on local disk under static/ and
// produces a 200px-wide thumbnail for each one.
package filemgr

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type EntityType string

const (
	EntityProduct EntityType = "product"
	EntityUser    EntityType = "user"
)

const (
	maxUploadSize  = 10 << 20
	thumbnailWidth = 200
)

var (
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrMissingFile      = errors.New("file is required")
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var allowedMIMEs = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
}

// ResolvePath maps an entity to its upload directory.
func ResolvePath(entity EntityType) string {
	switch entity {
	case EntityUser:
		return "./static/userpic"
	default:
		return "./static/productpic"
	}
}

// SaveFormFile pulls formKey out of a parsed multipart form, validates it as
// an image, writes it under the entity's directory with a random name, and
// generates a thumbnail. Returns the stored filename. A missing file is an
// error only when required.
func SaveFormFile(form *multipart.Form, formKey string, entity EntityType, required bool) (string, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		if required {
			return "", ErrMissingFile
		}
		return "", nil
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return saveImage(file, header, entity)
}

func saveImage(file multipart.File, header *multipart.FileHeader, entity EntityType) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}
	if header.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read header: %w", err)
	}
	mimeType := http.DetectContentType(head[:n])
	if !allowedMIMEs[mimeType] {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	destDir := ResolvePath(entity)
	if err := os.MkdirAll(filepath.Join(destDir, "thumb"), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	filename := uuid.New().String() + ext
	if err := imaging.Save(img, filepath.Join(destDir, filename)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	if err := generateThumbnail(img, destDir, filename); err != nil {
		// The full-size image is already stored; a missing thumbnail is not
		// worth failing the upload over.
		log.Printf("thumbnail for %s failed: %v", filename, err)
	}

	return filename, nil
}

func generateThumbnail(img image.Image, destDir, filename string) error {
	resized := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	return imaging.Save(resized, filepath.Join(destDir, "thumb", filename))
}

// PublicURL returns the path a stored filename is served under.
func PublicURL(entity EntityType, filename string) string {
	if filename == "" {
		return ""
	}
	return strings.TrimPrefix(ResolvePath(entity), ".") + "/" + filename
}
