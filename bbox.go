package annoviz

// Bounding box encodings and the conversions between them.

// Center is a box encoded by its center and extent (YOLO). CX and W are fractions of the image
// width, CY and H fractions of the image height. Values outside [0, 1] are legal.
type Center struct {
	CX, CY, W, H float64
}

// Corner is a box encoded by its absolute top-left pixel offset and pixel extent (COCO).
type Corner struct {
	X, Y, W, H float64
}

// NormalizedCorner is a box encoded by its top-left and bottom-right corners (Albumentations).
// X0 and X1 are fractions of the image width, Y0 and Y1 fractions of the image height. This is the
// encoding that the drawing functions consume.
type NormalizedCorner struct {
	X0, Y0, X1, Y1 float64
}

// Array returns cx, cy, w, h.
func (b Center) Array() [4]float64 { return [4]float64{b.CX, b.CY, b.W, b.H} }

// Array returns x, y, w, h.
func (b Corner) Array() [4]float64 { return [4]float64{b.X, b.Y, b.W, b.H} }

// Array returns x0, y0, x1, y1.
func (b NormalizedCorner) Array() [4]float64 { return [4]float64{b.X0, b.Y0, b.X1, b.Y1} }

// Pixels scales the box to absolute pixel corners x0, y0, x1, y1 for an image of the given size.
func (b NormalizedCorner) Pixels(width, height int) [4]float64 {
	w, h := float64(width), float64(height)
	return [4]float64{b.X0 * w, b.Y0 * h, b.X1 * w, b.Y1 * h}
}

// centerEdges scales b to pixels and returns its unclamped edges.
func centerEdges(b Center, s ImageShape) (x0, y0, x1, y1 float64) {
	w := b.W * float64(s.Width)
	h := b.H * float64(s.Height)
	x0 = b.CX*float64(s.Width) - w/2
	y0 = b.CY*float64(s.Height) - h/2
	return x0, y0, x0 + w, y0 + h
}

// CenterToCorner converts a YOLO box to a COCO box, trimmed with policy p.
//
// WidthPreserving reproduces the legacy pixel-space output; EdgeClamp yields the intersection of
// the box with the frame.
func CenterToCorner(b Center, s ImageShape, p TrimPolicy) (Corner, error) {
	if err := s.Validate(); err != nil {
		return Corner{}, err
	}
	return centerToCorner(b, s, p), nil
}

func centerToCorner(b Center, s ImageShape, p TrimPolicy) Corner {
	x0, y0, x1, y1 := centerEdges(b, s)
	x0, x1 = p.edges(x0, x1, s.maxX())
	y0, y1 = p.edges(y0, y1, s.maxY())
	return Corner{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// CornerToNormalizedCorner converts a COCO box to the canonical normalized corner encoding,
// trimmed with policy p.
func CornerToNormalizedCorner(b Corner, s ImageShape, p TrimPolicy) (NormalizedCorner, error) {
	if err := s.Validate(); err != nil {
		return NormalizedCorner{}, err
	}
	return cornerToNormalizedCorner(b, s, p), nil
}

func cornerToNormalizedCorner(b Corner, s ImageShape, p TrimPolicy) NormalizedCorner {
	return normalizeEdges(b.X, b.Y, b.X+b.W, b.Y+b.H, s, p)
}

// CenterToNormalizedCorner converts a YOLO box directly to the canonical normalized corner
// encoding, trimmed with policy p.
func CenterToNormalizedCorner(b Center, s ImageShape, p TrimPolicy) (NormalizedCorner, error) {
	if err := s.Validate(); err != nil {
		return NormalizedCorner{}, err
	}
	return centerToNormalizedCorner(b, s, p), nil
}

func centerToNormalizedCorner(b Center, s ImageShape, p TrimPolicy) NormalizedCorner {
	x0, y0, x1, y1 := centerEdges(b, s)
	return normalizeEdges(x0, y0, x1, y1, s, p)
}

// normalizeEdges trims the pixel edges and divides them by the image size.
func normalizeEdges(x0, y0, x1, y1 float64, s ImageShape, p TrimPolicy) NormalizedCorner {
	x0, x1 = p.edges(x0, x1, s.maxX())
	y0, y1 = p.edges(y0, y1, s.maxY())
	w, h := float64(s.Width), float64(s.Height)
	return NormalizedCorner{X0: x0 / w, Y0: y0 / h, X1: x1 / w, Y1: y1 / h}
}

// ClampNormalized trims an already normalized box with policy p. With EdgeClamp every coordinate
// ends up in [0, (dim-1)/dim], and applying it again is a no-op.
func ClampNormalized(b NormalizedCorner, s ImageShape, p TrimPolicy) (NormalizedCorner, error) {
	if err := s.Validate(); err != nil {
		return NormalizedCorner{}, err
	}
	return clampNormalized(b, s, p), nil
}

func clampNormalized(b NormalizedCorner, s ImageShape, p TrimPolicy) NormalizedCorner {
	w, h := float64(s.Width), float64(s.Height)
	b.X0, b.X1 = p.edges(b.X0, b.X1, s.maxX()/w)
	b.Y0, b.Y1 = p.edges(b.Y0, b.Y1, s.maxY()/h)
	return b
}
