package annoviz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_ToNormalizedCorner(t *testing.T) {
	c := DefaultConverter()
	for _, tc := range []struct {
		name     string
		boxes    Batch
		expected [][4]float64
	}{
		{
			name:     "yolo",
			boxes:    yoloBoxes,
			expected: [][4]float64{{0.0, 0.55, 0.3, 0.99}, {0.7, 0.55, 0.995, 0.99}},
		},
		{
			name:     "coco",
			boxes:    cocoBoxes,
			expected: [][4]float64{{0.0, 0.55, 0.15, 0.99}, {0.35, 0.55, 0.995, 0.99}},
		},
		{
			name:     "albu",
			boxes:    NormalizedCornerBatch{{X0: -0.1, Y0: 0.5, X1: 1.2, Y1: 0.6}},
			expected: [][4]float64{{0, 0.5, 0.995, 0.6}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := c.ToNormalizedCorner(tc.boxes, shape)
			require.NoError(t, err)
			assertRows(t, tc.expected, out.Arrays())
		})
	}
}

func TestConverter_noTrim(t *testing.T) {
	c := Converter{Trim: false}
	assert.Equal(t, NoTrim, c.Policy())

	out, err := c.ToNormalizedCorner(yoloBoxes, shape)
	require.NoError(t, err)
	assertRows(t, [][4]float64{{-0.1, 0.55, 0.3, 1.05}, {0.7, 0.55, 1.1, 1.05}}, out.Arrays())

	in := NormalizedCornerBatch{{X0: -0.1, Y0: 0.5, X1: 1.2, Y1: 0.6}}
	out, err = c.ToNormalizedCorner(in, shape)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestConverter_doesNotModifyInput(t *testing.T) {
	in := NormalizedCornerBatch{{X0: -0.1, Y0: 0.5, X1: 1.2, Y1: 0.6}}
	out, err := DefaultConverter().ToNormalizedCorner(in, shape)
	require.NoError(t, err)
	assert.Equal(t, -0.1, in[0].X0)
	assert.Equal(t, 0.0, out[0].X0)
}

func TestConverter_errors(t *testing.T) {
	c := DefaultConverter()

	_, err := c.ToNormalizedCorner(nil, shape)
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = c.ToNormalizedCorner(yoloBoxes, ImageShape{Height: 0, Width: 200})
	assert.True(t, errors.Is(err, ErrInvalidShape))

	_, err = c.Convert(FormatUnknown, [][4]float64{{0, 0, 1, 1}}, shape)
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = c.Box(Format(9), [4]float64{}, shape)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestConverter_empty(t *testing.T) {
	for _, f := range []Format{FormatCenter, FormatCorner, FormatNormalizedCorner} {
		out, err := DefaultConverter().Convert(f, nil, shape)
		require.NoError(t, err, f.String())
		assert.NotNil(t, out, f.String())
		assert.Empty(t, out, f.String())
	}
}

func TestConverter_Box(t *testing.T) {
	b, err := DefaultConverter().Box(FormatCorner, [4]float64{-10, 55, 40, 144}, shape)
	require.NoError(t, err)
	assertRows(t, [][4]float64{{0.0, 0.55, 0.15, 0.99}}, [][4]float64{b.Array()})
}

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Format
	}{
		{"yolo", FormatCenter},
		{"center", FormatCenter},
		{" YOLO ", FormatCenter},
		{"coco", FormatCorner},
		{"corner", FormatCorner},
		{"albu", FormatNormalizedCorner},
		{"normalized-corner", FormatNormalizedCorner},
	} {
		t.Run(tc.in, func(t *testing.T) {
			f, err := ParseFormat(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f)
		})
	}

	f, err := ParseFormat("voc")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Equal(t, FormatUnknown, f)
}

func TestFormat_text(t *testing.T) {
	text, err := FormatCorner.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "coco", string(text))

	text, err = FormatUnknown.MarshalText()
	require.NoError(t, err)
	assert.Empty(t, text)

	var f Format
	require.NoError(t, f.UnmarshalText([]byte("albu")))
	assert.Equal(t, FormatNormalizedCorner, f)
	require.NoError(t, f.UnmarshalText(nil))
	assert.Equal(t, FormatUnknown, f)
	assert.Error(t, f.UnmarshalText([]byte("kitti")))
}

func TestNewBatch(t *testing.T) {
	rows := [][4]float64{{1, 2, 3, 4}}

	b, err := NewBatch(FormatCenter, rows)
	require.NoError(t, err)
	assert.Equal(t, CenterBatch{{CX: 1, CY: 2, W: 3, H: 4}}, b)
	assert.Equal(t, FormatCenter, b.Format())
	assert.Equal(t, 1, b.Len())

	b, err = NewBatch(FormatCorner, rows)
	require.NoError(t, err)
	assert.Equal(t, CornerBatch{{X: 1, Y: 2, W: 3, H: 4}}, b)

	b, err = NewBatch(FormatNormalizedCorner, rows)
	require.NoError(t, err)
	assert.Equal(t, NormalizedCornerBatch{{X0: 1, Y0: 2, X1: 3, Y1: 4}}, b)

	_, err = NewBatch(FormatUnknown, rows)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestConverter_invalidShapeBeforeFormat(t *testing.T) {
	_, err := DefaultConverter().Convert(FormatUnknown, [][4]float64{{0, 0, 1, 1}}, ImageShape{})
	assert.True(t, errors.Is(err, ErrInvalidShape))
	assert.False(t, errors.Is(err, ErrUnknownFormat))

	_, err = DefaultConverter().Box(Format(9), [4]float64{}, ImageShape{Width: 10})
	assert.True(t, errors.Is(err, ErrInvalidShape))
}
