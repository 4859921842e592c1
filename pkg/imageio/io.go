// Package imageio loads images from disk into feature grids and writes
// rendered images back out.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff" // Register TIFF decoder

	"segfeatures/pkg/features"
)

// ErrUnsupportedFormat is returned by Save for an extension it cannot encode.
var ErrUnsupportedFormat = errors.New("imageio: unsupported output format")

// Image is a decoded image file.
type Image struct {
	// Grid holds the grayscale pixel data
	Grid *features.PixelGrid

	// Format is the decoder name reported by image.Decode ("bmp", "png", ...)
	Format string

	// Path is the file the image was loaded from, empty for Decode
	Path string
}

// Load opens path and decodes it into a grayscale grid. BMP is the primary
// input format; PNG, JPEG, GIF and TIFF are accepted as well and colour
// images are converted to luma.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	img.Path = path

	return img, nil
}

// Decode reads a single image from r.
func Decode(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	grid, err := features.GridFromImage(src)
	if err != nil {
		return nil, err
	}

	return &Image{Grid: grid, Format: format}, nil
}

// Save encodes img to path, choosing the encoder from the file extension.
// Supported extensions are .png, .jpg, .jpeg and .bmp; a path with no
// extension is written as PNG.
func Save(img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	var encode func(io.Writer, image.Image) error
	switch ext {
	case ".png", "":
		encode = png.Encode
	case ".jpg", ".jpeg":
		encode = func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 90})
		}
	case ".bmp":
		encode = bmp.Encode
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	return file.Close()
}
