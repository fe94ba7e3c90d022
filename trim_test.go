package annoviz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimPolicy_edges(t *testing.T) {
	for _, tc := range []struct {
		name           string
		policy         TrimPolicy
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{"clamp inside", EdgeClamp, 10, 20, 10, 20},
		{"clamp near", EdgeClamp, -10, 30, 0, 30},
		{"clamp far", EdgeClamp, 70, 110, 70, 99},
		{"clamp both", EdgeClamp, -10, 110, 0, 99},
		{"clamp outside", EdgeClamp, 120, 130, 99, 99},
		{"preserve inside", WidthPreserving, 10, 20, 10, 20},
		{"preserve near", WidthPreserving, -10, 30, 0, 40},
		{"preserve far", WidthPreserving, 70, 110, 70, 99},
		{"preserve both", WidthPreserving, -10, 110, 0, 109},
		{"none", NoTrim, -10, 110, -10, 110},
	} {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi := tc.policy.edges(tc.lo, tc.hi, 99)
			assert.Equal(t, tc.wantLo, lo)
			assert.Equal(t, tc.wantHi, hi)
		})
	}
}

func TestTrimPolicy_String(t *testing.T) {
	assert.Equal(t, "edge-clamp", EdgeClamp.String())
	assert.Equal(t, "width-preserving", WidthPreserving.String())
	assert.Equal(t, "none", NoTrim.String())
	assert.Equal(t, "unknown", TrimPolicy(42).String())
}

func TestTrimPolicyFor(t *testing.T) {
	assert.Equal(t, EdgeClamp, trimPolicyFor(true))
	assert.Equal(t, NoTrim, trimPolicyFor(false))
	assert.Equal(t, EdgeClamp, DefaultConverter().Policy())
}

func TestClampNormalized_idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		s := ImageShape{Height: 1 + rng.Intn(1000), Width: 1 + rng.Intn(1000)}
		b := NormalizedCorner{
			X0: rng.Float64()*3 - 1,
			Y0: rng.Float64()*3 - 1,
			X1: rng.Float64()*3 - 1,
			Y1: rng.Float64()*3 - 1,
		}

		once, err := ClampNormalized(b, s, EdgeClamp)
		require.NoError(t, err)
		twice, err := ClampNormalized(once, s, EdgeClamp)
		require.NoError(t, err)
		assert.Equal(t, once, twice)

		for _, v := range []float64{once.X0, once.X1} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, float64(s.Width-1)/float64(s.Width))
		}
		for _, v := range []float64{once.Y0, once.Y1} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, float64(s.Height-1)/float64(s.Height))
		}
	}
}

func TestClampNormalized_noTrim(t *testing.T) {
	b := NormalizedCorner{X0: -0.5, Y0: 0.2, X1: 1.5, Y1: 2}
	out, err := ClampNormalized(b, shape, NoTrim)
	require.NoError(t, err)
	assert.Equal(t, b, out)
}

func TestClampNormalized_singlePixel(t *testing.T) {
	out, err := ClampNormalized(NormalizedCorner{X0: 0.2, Y0: 0.4, X1: 0.9, Y1: 1},
		ImageShape{Height: 1, Width: 1}, EdgeClamp)
	require.NoError(t, err)
	assert.Equal(t, NormalizedCorner{}, out)
}
