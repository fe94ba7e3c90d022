package annoviz

import "image/color"

// palette seeds the per-class colours.
var palette = [3]int64{1<<11 - 1, 1<<15 - 1, 1<<20 - 1}

// ColorForLabel returns a stable colour for a class id.
func ColorForLabel(label int) color.NRGBA {
	l := int64(label)
	v := l*l - l + 1
	var c [3]uint8
	for i, p := range palette {
		m := (p * v) % 255
		if m < 0 {
			m += 255
		}
		c[i] = uint8(m)
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// CocoColors are the colours of the COCO keypoints and skeleton limbs, by index.
var CocoColors = []color.NRGBA{
	{255, 0, 0, 255},
	{255, 85, 0, 255},
	{255, 170, 0, 255},
	{255, 255, 0, 255},
	{170, 255, 0, 255},
	{85, 255, 0, 255},
	{0, 255, 0, 255},
	{0, 255, 85, 255},
	{0, 255, 170, 255},
	{0, 255, 255, 255},
	{0, 170, 255, 255},
	{0, 85, 255, 255},
	{0, 0, 255, 255},
	{85, 0, 255, 255},
	{170, 0, 255, 255},
	{255, 0, 255, 255},
	{255, 0, 170, 255},
	{255, 0, 85, 255},
	{255, 0, 0, 255},
}

// cocoColor returns CocoColors[i], wrapping around for large indices.
func cocoColor(i int) color.NRGBA {
	if i < 0 {
		i = -i
	}
	return CocoColors[i%len(CocoColors)]
}

var (
	defaultBoxColor = color.NRGBA{0, 255, 0, 255}
	textColor       = color.NRGBA{0, 0, 0, 255}
	jointTextColor  = color.NRGBA{255, 255, 255, 255}
)
