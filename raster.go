package annoviz

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa places the control points of a cubic Bézier quarter circle.
const kappa = 0.5522847498

// newRasterizer returns a rasterizer covering img, compositing with draw.Over.
func newRasterizer(img *image.NRGBA) *vector.Rasterizer {
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

// fillDisc draws a filled circle of radius r centered on (cx, cy).
func fillDisc(img *image.NRGBA, cx, cy, r float32, c color.NRGBA) {
	if r <= 0 {
		return
	}
	k := r * kappa
	z := newRasterizer(img)
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
}

// strokeLine draws the segment (x0, y0)-(x1, y1) with the given thickness and flat caps.
func strokeLine(img *image.NRGBA, x0, y0, x1, y1, thickness float32, c color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 || thickness <= 0 {
		return
	}

	// Offset perpendicular to the segment by half the thickness.
	nx := -dy / length * thickness / 2
	ny := dx / length * thickness / 2

	z := newRasterizer(img)
	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
}
