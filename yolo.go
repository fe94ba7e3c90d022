package annoviz

// YOLO label file specific functionality.

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// YOLOAnnotation is a single line of a YOLO label file.
type YOLOAnnotation struct {
	Class  int
	Box    Center
	Score  float64
	Scored bool // Whether the line carried the optional score.
}

// FromYOLO reads YOLO label files (.txt) from labelDir and matches them by base name to the
// images in imageDir.
func FromYOLO(labelDir, imageDir string) (AnnotatedImages, error) {
	return parseLabelsWithOneToOneImages(labelDir, ".txt", imageDir, parseYOLOFile)
}

// parseYOLOFile parses the label file at labelPath for the image at imagePath. Malformed lines are
// logged and skipped. Scores are kept only if every line of the file has one, so that they stay
// aligned to the boxes.
func parseYOLOFile(labelPath, imagePath string) (AnnotatedImage, error) {
	lines, err := readLines(labelPath)
	if err != nil {
		return AnnotatedImage{}, err
	}

	data := AnnotatedImage{
		FilePath: imagePath,
		Format:   FormatCenter,
		Boxes:    make([][4]float64, 0, len(lines)),
		Labels:   make([]int, 0, len(lines)),
		Scores:   make([]float64, 0, len(lines)),
	}
	allScored := true
	for _, line := range lines {
		a, err := parseYOLOAnnotation(line)
		if err != nil {
			log.Printf("Error while parsing %q, skipping line: %v", labelPath, err)
			continue
		}
		data.Boxes = append(data.Boxes, a.Box.Array())
		data.Labels = append(data.Labels, a.Class)
		data.Scores = append(data.Scores, a.Score)
		allScored = allScored && a.Scored
	}
	if !allScored || len(data.Scores) == 0 {
		data.Scores = nil
	}

	return data, nil
}

// parseYOLOAnnotation parses the line "class cx cy w h [score]".
func parseYOLOAnnotation(line string) (YOLOAnnotation, error) {
	a := YOLOAnnotation{}

	tokens := strings.Fields(line)
	if len(tokens) < 5 {
		return a, fmt.Errorf("insufficient tokens in %q", line)
	}

	var err error
	if a.Class, err = strconv.Atoi(tokens[0]); err != nil {
		return a, fmt.Errorf("unexpected class id in %q: %w", line, err)
	}

	var v [4]float64
	for i := 1; i < 5 && err == nil; i++ {
		v[i-1], err = strconv.ParseFloat(tokens[i], 64)
	}
	if err != nil {
		return a, fmt.Errorf("unexpected values in %q: %w", line, err)
	}
	a.Box = Center{CX: v[0], CY: v[1], W: v[2], H: v[3]}

	// Parse the optional confidence score.
	if len(tokens) >= 6 {
		if a.Score, err = strconv.ParseFloat(tokens[5], 64); err != nil {
			return a, fmt.Errorf("unexpected score format in %q: %w", line, err)
		}
		a.Scored = true
	}

	return a, nil
}
