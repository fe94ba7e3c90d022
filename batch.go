package annoviz

import (
	"fmt"
	"strings"
)

// Format identifies a box encoding.
type Format int

// The known box encodings.
const (
	FormatUnknown          Format = iota // If an unknown format is specified.
	FormatCenter                         // YOLO
	FormatCorner                         // COCO
	FormatNormalizedCorner               // Albumentations
)

func (f Format) String() string {
	switch f {
	case FormatCenter:
		return "yolo"
	case FormatCorner:
		return "coco"
	case FormatNormalizedCorner:
		return "albu"
	}
	return "unknown"
}

// ParseFormat returns the format named by s. Both the dataset names (yolo, coco, albu) and the
// encoding names (center, corner, normalized-corner) are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yolo", "center":
		return FormatCenter, nil
	case "coco", "corner":
		return FormatCorner, nil
	case "albu", "normalized-corner":
		return FormatNormalizedCorner, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// MarshalText implements encoding.TextMarshaler. FormatUnknown is encoded as the empty string.
func (f Format) MarshalText() ([]byte, error) {
	if f == FormatUnknown {
		return []byte{}, nil
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The empty string decodes to FormatUnknown.
func (f *Format) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*f = FormatUnknown
		return nil
	}
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Batch is an ordered list of boxes of a single encoding for one image. The only
// implementations are CenterBatch, CornerBatch and NormalizedCornerBatch.
type Batch interface {
	Format() Format
	Len() int

	// normalize converts the batch to the canonical encoding. s has been validated.
	normalize(s ImageShape, p TrimPolicy) NormalizedCornerBatch
}

// CenterBatch is a list of YOLO boxes.
type CenterBatch []Center

// CornerBatch is a list of COCO boxes.
type CornerBatch []Corner

// NormalizedCornerBatch is a list of normalized corner boxes.
type NormalizedCornerBatch []NormalizedCorner

func (CenterBatch) Format() Format           { return FormatCenter }
func (CornerBatch) Format() Format           { return FormatCorner }
func (NormalizedCornerBatch) Format() Format { return FormatNormalizedCorner }

func (b CenterBatch) Len() int           { return len(b) }
func (b CornerBatch) Len() int           { return len(b) }
func (b NormalizedCornerBatch) Len() int { return len(b) }

func (b CenterBatch) normalize(s ImageShape, p TrimPolicy) NormalizedCornerBatch {
	out := make(NormalizedCornerBatch, len(b))
	for i, v := range b {
		out[i] = centerToNormalizedCorner(v, s, p)
	}
	return out
}

func (b CornerBatch) normalize(s ImageShape, p TrimPolicy) NormalizedCornerBatch {
	out := make(NormalizedCornerBatch, len(b))
	for i, v := range b {
		out[i] = cornerToNormalizedCorner(v, s, p)
	}
	return out
}

func (b NormalizedCornerBatch) normalize(s ImageShape, p TrimPolicy) NormalizedCornerBatch {
	out := make(NormalizedCornerBatch, len(b))
	for i, v := range b {
		out[i] = clampNormalized(v, s, p)
	}
	return out
}

// ToCorner converts all boxes to COCO boxes, trimmed with policy p.
func (b CenterBatch) ToCorner(s ImageShape, p TrimPolicy) (CornerBatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := make(CornerBatch, len(b))
	for i, v := range b {
		out[i] = centerToCorner(v, s, p)
	}
	return out, nil
}

// ToNormalizedCorner converts all boxes to the canonical encoding, trimmed with policy p.
func (b CenterBatch) ToNormalizedCorner(s ImageShape, p TrimPolicy) (NormalizedCornerBatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return b.normalize(s, p), nil
}

// ToNormalizedCorner converts all boxes to the canonical encoding, trimmed with policy p.
func (b CornerBatch) ToNormalizedCorner(s ImageShape, p TrimPolicy) (NormalizedCornerBatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return b.normalize(s, p), nil
}

// Pixels scales all boxes to absolute pixel corners, see NormalizedCorner.Pixels.
func (b NormalizedCornerBatch) Pixels(width, height int) [][4]float64 {
	out := make([][4]float64, len(b))
	for i, v := range b {
		out[i] = v.Pixels(width, height)
	}
	return out
}

// Arrays returns the boxes as x0, y0, x1, y1 rows.
func (b NormalizedCornerBatch) Arrays() [][4]float64 {
	out := make([][4]float64, len(b))
	for i, v := range b {
		out[i] = v.Array()
	}
	return out
}

// NewBatch builds a batch of encoding f from raw rows, each holding the four values in the
// order of the encoding's fields.
func NewBatch(f Format, rows [][4]float64) (Batch, error) {
	switch f {
	case FormatCenter:
		b := make(CenterBatch, len(rows))
		for i, r := range rows {
			b[i] = Center{CX: r[0], CY: r[1], W: r[2], H: r[3]}
		}
		return b, nil
	case FormatCorner:
		b := make(CornerBatch, len(rows))
		for i, r := range rows {
			b[i] = Corner{X: r[0], Y: r[1], W: r[2], H: r[3]}
		}
		return b, nil
	case FormatNormalizedCorner:
		b := make(NormalizedCornerBatch, len(rows))
		for i, r := range rows {
			b[i] = NormalizedCorner{X0: r[0], Y0: r[1], X1: r[2], Y1: r[3]}
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
}
