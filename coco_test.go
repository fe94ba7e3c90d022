package annoviz

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCOCOPersons(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persons.json")
	writeFile(t, path, `{
  "b.jpg": [
    {"bbox": [10, 20, 30, 40], "category_id": 1, "score": 0.8,
     "keypoints": [1, 2, 2, 3, 4, 1]},
    {"bbox": [0, 0, 5, 5], "category_id": 3}
  ],
  "/abs/a.jpg": [
    {"bbox": [1, 2, 3, 4], "category_id": 2}
  ]
}`)

	data, err := FromCOCOPersons(path, "images")
	require.NoError(t, err)
	require.Len(t, data, 2)

	a := data[0]
	assert.Equal(t, "/abs/a.jpg", a.FilePath)
	assert.Equal(t, FormatCorner, a.Format)
	assert.Equal(t, [][4]float64{{1, 2, 3, 4}}, a.Boxes)
	assert.Equal(t, []int{2}, a.Labels)
	assert.Nil(t, a.Scores)
	assert.Nil(t, a.Keypoints)

	b := data[1]
	assert.Equal(t, filepath.Join("images", "b.jpg"), b.FilePath)
	assert.Equal(t, [][4]float64{{10, 20, 30, 40}, {0, 0, 5, 5}}, b.Boxes)
	assert.Equal(t, []int{1, 3}, b.Labels)
	assert.Equal(t, []float64{0.8, 0}, b.Scores)
	require.Len(t, b.Keypoints, 2)
	assert.Equal(t, []Keypoint{{X: 1, Y: 2, V: 2}, {X: 3, Y: 4, V: 1}}, b.Keypoints[0])
	assert.Empty(t, b.Keypoints[1])
	assert.NoError(t, b.Validate())
}

func TestFromCOCOPersons_errors(t *testing.T) {
	dir := t.TempDir()

	_, err := FromCOCOPersons(filepath.Join(dir, "missing.json"), "")
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.json")
	writeFile(t, path, `[1, 2]`)
	_, err = FromCOCOPersons(path, "")
	assert.Error(t, err)

	path = filepath.Join(dir, "keypoints.json")
	writeFile(t, path, `{"a.jpg": [{"bbox": [0, 0, 1, 1], "category_id": 1, "keypoints": [1, 2]}]}`)
	_, err = FromCOCOPersons(path, "")
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestFromCOCOPersons_segmentation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persons.json")
	writeFile(t, path, `{
  "a.jpg": [
    {"bbox": [0, 0, 10, 10], "category_id": 1,
     "segmentation": [[0, 0, 10, 0, 10, 10], [1, 1, 2, 1, 2, 2]]},
    {"bbox": [0, 0, 5, 5], "category_id": 1,
     "segmentation": {"counts": [1, 2], "size": [2, 2]}},
    {"bbox": [0, 0, 5, 5], "category_id": 2}
  ]
}`)

	data, err := FromCOCOPersons(path, "")
	require.NoError(t, err)
	require.Len(t, data, 1)

	a := data[0]
	require.Len(t, a.Segments, 3)
	assert.Equal(t, []Polygon{{0, 0, 10, 0, 10, 10}, {1, 1, 2, 1, 2, 2}}, a.Segments[0])
	assert.Empty(t, a.Segments[1])
	assert.Empty(t, a.Segments[2])
	assert.NoError(t, a.Validate())

	path = filepath.Join(dir, "odd.json")
	writeFile(t, path, `{"a.jpg": [{"bbox": [0, 0, 1, 1], "category_id": 1, "segmentation": [[1, 2, 3]]}]}`)
	_, err = FromCOCOPersons(path, "")
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}
