package annoviz

// COCO person annotation specific functionality.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// COCOPersonAnnotation is a single object annotation in COCO style.
type COCOPersonAnnotation struct {
	BBox       [4]float64 `json:"bbox"` // x, y, w, h in pixels.
	CategoryID int        `json:"category_id"`
	Score      *float64   `json:"score,omitempty"`
	Keypoints  []float64  `json:"keypoints,omitempty"` // x, y, v triplets in pixels.

	// Segmentation is a list of polygons, or a run-length encoded mask object. Only polygons are
	// supported.
	Segmentation json.RawMessage `json:"segmentation,omitempty"`
}

// COCOPersonFile maps image paths to their annotations.
type COCOPersonFile map[string][]COCOPersonAnnotation

// FromCOCOPersons reads and parses the COCO style annotation file at path. Relative image paths
// are resolved against imageDir, if it is not empty. The result is sorted by image path.
func FromCOCOPersons(path, imageDir string) (AnnotatedImages, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %q: %w", path, err)
	}

	var cocoData COCOPersonFile
	if err := json.Unmarshal(enc, &cocoData); err != nil {
		return nil, fmt.Errorf("failed to parse COCO input from %q: %w", path, err)
	}

	imagePaths := make([]string, 0, len(cocoData))
	for k := range cocoData {
		imagePaths = append(imagePaths, k)
	}
	sort.Strings(imagePaths)

	// Convert to the intermediate representation.
	data := make(AnnotatedImages, 0, len(cocoData))
	for _, imagePath := range imagePaths {
		annotations := cocoData[imagePath]
		if imageDir != "" && !filepath.IsAbs(imagePath) {
			imagePath = filepath.Join(imageDir, imagePath)
		}

		a, err := fromCOCOAnnotations(imagePath, annotations)
		if err != nil {
			return nil, fmt.Errorf("invalid annotations for %q: %w", imagePath, err)
		}
		data = append(data, a)
	}

	return data, nil
}

// fromCOCOAnnotations converts the annotations of a single image. Scores, keypoints and
// segmentations are only kept if at least one annotation has them; missing entries become zero
// scores and empty lists respectively.
func fromCOCOAnnotations(imagePath string, annotations []COCOPersonAnnotation) (
	AnnotatedImage, error) {

	n := len(annotations)
	data := AnnotatedImage{
		FilePath:  imagePath,
		Format:    FormatCorner,
		Boxes:     make([][4]float64, n),
		Labels:    make([]int, n),
		Scores:    make([]float64, n),
		Keypoints: make([][]Keypoint, n),
		Segments:  make([][]Polygon, n),
	}

	var haveScores, haveKeypoints, haveSegments bool
	for i, a := range annotations {
		data.Boxes[i] = a.BBox
		data.Labels[i] = a.CategoryID
		if a.Score != nil {
			data.Scores[i] = *a.Score
			haveScores = true
		}
		if len(a.Keypoints) > 0 {
			kps, err := KeypointsFromFlat(a.Keypoints, 3)
			if err != nil {
				return AnnotatedImage{}, err
			}
			data.Keypoints[i] = kps
			haveKeypoints = true
		}
		polygons, err := parseSegmentation(a.Segmentation)
		if err != nil {
			return AnnotatedImage{}, err
		}
		if len(polygons) > 0 {
			data.Segments[i] = polygons
			haveSegments = true
		}
	}

	if !haveScores {
		data.Scores = nil
	}
	if !haveKeypoints {
		data.Keypoints = nil
	}
	if !haveSegments {
		data.Segments = nil
	}

	return data, nil
}

// parseSegmentation decodes a COCO segmentation. Run-length encoded masks are logged and skipped.
func parseSegmentation(raw json.RawMessage) ([]Polygon, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		log.Print("Run-length encoded segmentation is not supported, skipping")
		return nil, nil
	}

	var polygons []Polygon
	if err := json.Unmarshal(raw, &polygons); err != nil {
		return nil, fmt.Errorf("invalid segmentation: %w", err)
	}
	for i, p := range polygons {
		if len(p)%2 != 0 {
			return nil, fmt.Errorf("%w: polygon %d has %d values, expected x, y pairs",
				ErrLengthMismatch, i, len(p))
		}
	}
	return polygons, nil
}
