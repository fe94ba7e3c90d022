package annoviz

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// Polygon is a closed outline given as flat x, y pairs in pixels, as in COCO segmentations.
type Polygon []float64

// polygonMask rasterizes the union of polygons into a mask of the given size. Polygons with fewer
// than three points are ignored.
func polygonMask(polygons []Polygon, width, height int) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, width, height))
	z := vector.NewRasterizer(width, height)
	for _, p := range polygons {
		if len(p) < 6 {
			continue
		}
		z.MoveTo(float32(p[0]), float32(p[1]))
		for i := 2; i+1 < len(p); i += 2 {
			z.LineTo(float32(p[i]), float32(p[i+1]))
		}
		z.ClosePath()
	}
	z.Draw(m, m.Bounds(), image.Opaque, image.Point{})
	return m
}

// MaskStyle controls how DrawMasks renders instance masks.
type MaskStyle struct {
	Alpha       float64      `yaml:"alpha"`           // Opacity of the mask colour.
	Border      bool         `yaml:"border"`          // Outline the mask.
	BorderWidth int          `yaml:"border_width"`    // Outline width in pixels.
	BorderColor color.NRGBA  `yaml:"border_color"`    // Outline colour.
	Color       *color.NRGBA `yaml:"color,omitempty"` // Fixed mask colour, or nil for the label colour.
}

// DefaultMaskStyle returns the default mask style.
func DefaultMaskStyle() MaskStyle {
	return MaskStyle{
		Alpha:       0.5,
		Border:      true,
		BorderWidth: 2,
		BorderColor: color.NRGBA{255, 255, 255, 255},
	}
}

// DrawMasks blends instance masks into a copy of img. A mask pixel is set when its alpha value is
// non-zero. Every mask must be non-nil and have the size of img. Labels are optional and
// index-aligned to masks; without labels every mask uses the colour of label 1.
func DrawMasks(img image.Image, masks []*image.Alpha, labels []int, style MaskStyle) (
	*image.NRGBA, error) {

	if err := checkAligned(len(masks), len(labels), "labels"); err != nil {
		return nil, err
	}

	dst := imaging.Clone(img)
	size := dst.Bounds().Size()
	for i, m := range masks {
		if m == nil {
			return nil, fmt.Errorf("%w: mask %d is nil", ErrInvalidShape, i)
		}
		if m.Bounds().Size() != size {
			return nil, fmt.Errorf("%w: mask %d is %v, image is %v",
				ErrInvalidShape, i, m.Bounds().Size(), size)
		}
	}

	for i, m := range masks {
		label := 1
		if len(labels) > 0 {
			label = labels[i]
		}
		c := ColorForLabel(label)
		if style.Color != nil {
			c = *style.Color
		}

		blendMask(dst, m, c, style.Alpha)
		if style.Border {
			drawMaskBorder(dst, m, style.BorderColor, maxInt(style.BorderWidth, 1))
		}
	}

	return dst, nil
}

// maskAt reports whether the mask pixel at offset (x, y) from the mask origin is set. Pixels
// outside the mask are unset.
func maskAt(m *image.Alpha, x, y int) bool {
	b := m.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return false
	}
	return m.AlphaAt(b.Min.X+x, b.Min.Y+y).A != 0
}

// blendMask mixes c into every set mask pixel with weight alpha.
func blendMask(img *image.NRGBA, m *image.Alpha, c color.NRGBA, alpha float64) {
	b := img.Bounds()
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*alpha + float64(bg)*(1-alpha) + 0.5)
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if !maskAt(m, x, y) {
				continue
			}
			p := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			img.SetNRGBA(b.Min.X+x, b.Min.Y+y, color.NRGBA{
				R: mix(c.R, p.R),
				G: mix(c.G, p.G),
				B: mix(c.B, p.B),
				A: p.A,
			})
		}
	}
}

// drawMaskBorder paints a square of the given width centered on every set mask pixel that has an
// unset 4-neighbour.
func drawMaskBorder(img *image.NRGBA, m *image.Alpha, c color.NRGBA, width int) {
	b := img.Bounds()
	lo := -(width - 1) / 2
	hi := width / 2
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if !maskAt(m, x, y) {
				continue
			}
			if maskAt(m, x-1, y) && maskAt(m, x+1, y) && maskAt(m, x, y-1) && maskAt(m, x, y+1) {
				continue
			}
			for dy := lo; dy <= hi; dy++ {
				drawHLine(img, b.Min.Y+y+dy, b.Min.X+x+lo, b.Min.X+x+hi, c)
			}
		}
	}
}
