package headless

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"backdrop/internal/gpu"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an image file format for captured frames.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ErrNoImage is returned when a canvas cannot be read back.
var ErrNoImage = errors.New("headless: canvas has no readable image")

// ParseFormat accepts png, bmp, tiff or tif in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("headless: unknown image format %q", s)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return fmt.Errorf("headless: unknown image format %q", f)
}

// Capture reads the current frame from a canvas that keeps one in memory.
func Capture(c gpu.Canvas) (*image.RGBA, error) {
	readable, ok := c.(interface{ Image() *image.RGBA })
	if !ok {
		return nil, ErrNoImage
	}
	img := readable.Image()
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoImage
	}
	return img, nil
}

// FramePath names frame index inside dir.
func FramePath(dir string, index uint64, f Format) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%05d.%s", index, f))
}

// WriteFrame captures c and writes it to FramePath(dir, index, f).
func WriteFrame(c gpu.Canvas, dir string, index uint64, f Format) (path string, err error) {
	img, err := Capture(c)
	if err != nil {
		return "", err
	}
	path = FramePath(dir, index, f)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("headless: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("headless: close %s: %w", path, cerr)
		}
	}()
	if err := Encode(file, img, f); err != nil {
		return "", fmt.Errorf("headless: encode %s: %w", path, err)
	}
	return path, nil
}
