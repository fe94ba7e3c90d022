package annoviz

// TrimPolicy selects how computed box edges are clamped into the image frame, so that the
// de-normalized coordinates remain valid pixel indices.
type TrimPolicy int

// The trim policies.
const (
	// EdgeClamp clamps every edge independently into [0, dim-1]. The result is the intersection of
	// the box with the frame.
	EdgeClamp TrimPolicy = iota

	// WidthPreserving is the legacy pixel-space policy. A far edge beyond dim-1 shrinks the extent
	// using the unclamped near edge as pivot, and only then the near edge is raised to 0. A box
	// overshooting the near edge alone is moved, not shrunk.
	WidthPreserving

	// NoTrim leaves the raw values untouched.
	NoTrim
)

func (p TrimPolicy) String() string {
	switch p {
	case EdgeClamp:
		return "edge-clamp"
	case WidthPreserving:
		return "width-preserving"
	case NoTrim:
		return "none"
	}
	return "unknown"
}

// trimPolicyFor maps the facade's trim flag to a policy.
func trimPolicyFor(trim bool) TrimPolicy {
	if trim {
		return EdgeClamp
	}
	return NoTrim
}

// edges applies the policy to the near (lo) and far (hi) edge of one axis, where limit is the
// largest valid coordinate on that axis.
func (p TrimPolicy) edges(lo, hi, limit float64) (float64, float64) {
	switch p {
	case EdgeClamp:
		return clamp(lo, 0, limit), clamp(hi, 0, limit)
	case WidthPreserving:
		extent := hi - lo
		if hi > limit {
			extent = limit - lo
		}
		if lo < 0 {
			lo = 0
		}
		return lo, lo + extent
	}
	return lo, hi
}

// clamp limits v to [lo, hi]. NaN is passed through.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
