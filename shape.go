package annoviz

import (
	"fmt"
	"image"
)

// ImageShape is the size of the image that a set of boxes refers to.
type ImageShape struct {
	Height   int
	Width    int
	Channels int // Informational only.
}

// ShapeOf returns the shape of img, assuming three colour channels.
func ShapeOf(img image.Image) ImageShape {
	b := img.Bounds()
	return ImageShape{Height: b.Dy(), Width: b.Dx(), Channels: 3}
}

// Validate returns an error wrapping ErrInvalidShape unless width and height are positive.
func (s ImageShape) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidShape, s.Width, s.Height)
	}
	return nil
}

// maxX is the largest valid pixel x coordinate.
func (s ImageShape) maxX() float64 {
	return float64(s.Width - 1)
}

// maxY is the largest valid pixel y coordinate.
func (s ImageShape) maxY() float64 {
	return float64(s.Height - 1)
}
