package annoviz

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Registers the WebP decoder.
)

// outputExt returns the file extension for an output encoding.
func outputExt(encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "jpg", "jpeg":
		return ".jpg", nil
	case "png":
		return ".png", nil
	case "webp":
		return ".webp", nil
	}
	return "", fmt.Errorf("unsupported output encoding %q", encoding)
}

// resizeImage scales img by factor. A factor of 1 returns img unchanged.
func resizeImage(img image.Image, factor float64) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	width := int(math.Round(float64(b.Dx()) * factor))
	height := int(math.Round(float64(b.Dy()) * factor))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	filter := imaging.Linear
	if factor < 1 {
		filter = imaging.Box
	}
	return imaging.Resize(img, width, height, filter)
}

// imageShape returns the shape of the image at path as it is drawn on, with the EXIF orientation
// applied.
func imageShape(path string) (ImageShape, error) {
	img, err := loadImage(path)
	if err != nil {
		return ImageShape{}, err
	}
	return ShapeOf(img), nil
}

// loadImage reads and decodes the image at path, applying the EXIF orientation.
func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot load image %q: %w", path, err)
	}
	return img, nil
}

// saveImage saves the image to path, encoding it as PNG, WebP or JPEG, depending on the file
// extension of path. quality applies to JPEG and WebP.
func saveImage(path string, img image.Image, quality int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(quality)}); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	case ".png":
		return imaging.Save(img, path)
	}
	return imaging.Save(img, path, imaging.JPEGQuality(quality))
}
