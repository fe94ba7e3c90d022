package annoviz

import "fmt"

// Converter is the single entry point that turns boxes of any encoding into the canonical
// normalized corner encoding expected by the drawing functions.
//
// A Converter holds no mutable state and is safe for concurrent use.
type Converter struct {
	// Trim clamps the output into the image frame with the EdgeClamp policy. When false, the
	// conversion math is applied without any clamping.
	Trim bool
}

// DefaultConverter returns a Converter with trimming enabled.
func DefaultConverter() Converter {
	return Converter{Trim: true}
}

// Policy is the trim policy that c applies.
func (c Converter) Policy() TrimPolicy {
	return trimPolicyFor(c.Trim)
}

// ToNormalizedCorner converts boxes for an image of shape s. The result is newly allocated, has
// the same length and order as boxes, and is never nil.
//
// Normalized corner input is copied, and re-clamped if c.Trim is set.
func (c Converter) ToNormalizedCorner(boxes Batch, s ImageShape) (NormalizedCornerBatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch b := boxes.(type) {
	case CenterBatch:
		return b.normalize(s, c.Policy()), nil
	case CornerBatch:
		return b.normalize(s, c.Policy()), nil
	case NormalizedCornerBatch:
		return b.normalize(s, c.Policy()), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownFormat, boxes)
}

// Convert converts raw rows in encoding f, see NewBatch and ToNormalizedCorner.
func (c Converter) Convert(f Format, rows [][4]float64, s ImageShape) (NormalizedCornerBatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b, err := NewBatch(f, rows)
	if err != nil {
		return nil, err
	}
	return c.ToNormalizedCorner(b, s)
}

// Box converts a single box given as raw values in encoding f.
func (c Converter) Box(f Format, box [4]float64, s ImageShape) (NormalizedCorner, error) {
	out, err := c.Convert(f, [][4]float64{box}, s)
	if err != nil {
		return NormalizedCorner{}, err
	}
	return out[0], nil
}
