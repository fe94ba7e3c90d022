package annoviz

// Drawing of boxes with class labels and scores.

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// BoxStyle controls how DrawBoxes renders boxes.
type BoxStyle struct {
	LineWidth   int      `yaml:"line_width"`   // Outline width in pixels, drawn inwards.
	Alpha       float64  `yaml:"alpha"`        // Opacity of the fill and the text background.
	Fill        bool     `yaml:"fill"`         // Fill boxes with the translucent box colour.
	ScoreFormat string   `yaml:"score_format"` // fmt verb applied to scores, e.g. ":%.2f".
	ClassNames  []string `yaml:"-"`            // Optional names by class id.
}

// DefaultBoxStyle returns the default box style.
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		LineWidth:   2,
		Alpha:       0.5,
		ScoreFormat: ":%.2f",
	}
}

// className returns the display name for a class id.
func (s BoxStyle) className(label int) string {
	if label >= 0 && label < len(s.ClassNames) && s.ClassNames[label] != "" {
		return s.ClassNames[label]
	}
	return strconv.Itoa(label)
}

// DrawBoxes draws boxes onto a copy of img and returns the copy.
//
// Labels and scores are optional. If present, they must be index-aligned to boxes. A label
// selects the box colour and its class name is printed at the bottom-left corner of the box,
// followed by the score if available.
func DrawBoxes(img image.Image, boxes NormalizedCornerBatch, labels []int, scores []float64,
	style BoxStyle) (*image.NRGBA, error) {

	if err := checkAligned(len(boxes), len(labels), "labels"); err != nil {
		return nil, err
	}
	if err := checkAligned(len(boxes), len(scores), "scores"); err != nil {
		return nil, err
	}

	dst := imaging.Clone(img)
	bounds := dst.Bounds()
	lineWidth := style.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}

	for i, b := range boxes {
		px := b.Pixels(bounds.Dx(), bounds.Dy())
		r := image.Rect(pixelIndex(px[0]), pixelIndex(px[1]), pixelIndex(px[2]), pixelIndex(px[3]))

		c := defaultBoxColor
		if len(labels) > 0 {
			c = ColorForLabel(labels[i])
		}
		displayStr := style.caption(i, labels, scores)

		if style.Fill {
			dst = overlayRect(dst, r, c, style.Alpha)
		}
		strokeRect(dst, r, c, lineWidth)
		if displayStr != "" {
			dst = drawCaption(dst, r, displayStr, c, style.Alpha, lineWidth)
		}
	}

	return dst, nil
}

// caption returns the text printed for box i: the class name, followed by the formatted score if
// scores are present. Without labels the score is prefixed with "score".
func (s BoxStyle) caption(i int, labels []int, scores []float64) string {
	str := ""
	if len(labels) > 0 {
		str = s.className(labels[i])
	}
	if len(scores) > 0 {
		if str == "" {
			str = "score"
		}
		scoreFormat := s.ScoreFormat
		if scoreFormat == "" {
			scoreFormat = DefaultBoxStyle().ScoreFormat
		}
		str += fmt.Sprintf(scoreFormat, scores[i])
	}
	return str
}

// checkAligned verifies that an optional sequence of length n has either no elements or one per
// box.
func checkAligned(boxes, n int, name string) error {
	if n != 0 && n != boxes {
		return fmt.Errorf("%w: %d %s for %d boxes", ErrLengthMismatch, n, name, boxes)
	}
	return nil
}

// maxPixelIndex bounds pixel indices of untrimmed boxes. It keeps text positions within the range
// of fixed.Int26_6.
const maxPixelIndex = 1 << 24

// pixelIndex truncates a pixel coordinate to the index of the pixel that contains it. NaN maps to 0.
func pixelIndex(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(-maxPixelIndex, math.Min(maxPixelIndex, math.Floor(v))))
}

// strokeRect draws the outline of r, corners inclusive, with the given width inwards.
func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, width int) {
	r = r.Canon()
	for s := 0; s < width; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-s, r.Min.Y, r.Max.Y, c)
	}
}

// drawHLine draws the pixels (x0..x1, y), both ends inclusive and clipped to the image.
func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = maxInt(x0, b.Min.X)
	x1 = minInt(x1, b.Max.X-1)
	for x := x0; x <= x1; x++ {
		img.SetNRGBA(x, y, c)
	}
}

// drawVLine draws the pixels (x, y0..y1), both ends inclusive and clipped to the image.
func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = maxInt(y0, b.Min.Y)
	y1 = minInt(y1, b.Max.Y-1)
	for y := y0; y <= y1; y++ {
		img.SetNRGBA(x, y, c)
	}
}

// overlayRect blends c with the given opacity into the pixels of r, corners inclusive. Only the
// part of r inside the image is blended.
func overlayRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, alpha float64) *image.NRGBA {
	r = r.Canon()
	r = image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1).Intersect(img.Bounds())
	if r.Empty() {
		return img
	}
	patch := imaging.New(r.Dx(), r.Dy(), c)
	return imaging.Overlay(img, patch, r.Min, alpha)
}

// drawCaption prints s on a translucent background inside the bottom-left corner of box r.
func drawCaption(img *image.NRGBA, r image.Rectangle, s string, c color.NRGBA, alpha float64,
	lineWidth int) *image.NRGBA {

	face := basicfont.Face7x13
	r = r.Canon()
	textWidth := font.MeasureString(face, s).Ceil()
	textHeight := face.Metrics().Height.Ceil()
	margin := int(math.Ceil(0.05 * float64(textHeight)))

	left := r.Min.X
	bottom := r.Max.Y
	bg := image.Rect(left+lineWidth, bottom-textHeight-2*margin-lineWidth,
		left+textWidth+lineWidth, bottom-lineWidth)
	img = overlayRect(img, bg, c, alpha)

	top := bottom - textHeight - margin - lineWidth
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(left+margin+lineWidth, top+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	return img
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
