package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
)

// FormatFor picks the output format from a file extension, defaulting to PNG.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return TIFF
	default:
		return PNG
	}
}

func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG, "":
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// Resize scales img to a size×size square with Catmull-Rom filtering.
func Resize(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
