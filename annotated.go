package annoviz

// The intermediate annotation representation and batch rendering.

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// AnnotatedImage holds the annotations of one image. Labels, Scores and Keypoints are optional;
// when present they are index-aligned to Boxes.
type AnnotatedImage struct {
	FilePath  string
	Format    Format       // The encoding of Boxes.
	Boxes     [][4]float64 // Raw box values in Format.
	Labels    []int        // Class ids.
	Scores    []float64    // Confidence scores.
	Keypoints [][]Keypoint // Per-instance keypoints in pixels.
	Segments  [][]Polygon  // Per-instance segmentation polygons in pixels.
}

// Validate checks that the auxiliary sequences are aligned to the boxes.
func (a *AnnotatedImage) Validate() error {
	n := len(a.Boxes)
	if err := checkAligned(n, len(a.Labels), "labels"); err != nil {
		return err
	}
	if err := checkAligned(n, len(a.Scores), "scores"); err != nil {
		return err
	}
	if err := checkAligned(n, len(a.Keypoints), "keypoint instances"); err != nil {
		return err
	}
	return checkAligned(n, len(a.Segments), "segmentations")
}

// Normalize converts the boxes to the canonical encoding, using the shape of the image at
// a.FilePath after its EXIF orientation is applied, as Render does.
func (a *AnnotatedImage) Normalize(c Converter) (NormalizedCornerBatch, error) {
	shape, err := imageShape(a.FilePath)
	if err != nil {
		return nil, err
	}
	return c.Convert(a.Format, a.Boxes, shape)
}

// AnnotatedImages is the annotation data for a list of images.
type AnnotatedImages []AnnotatedImage

// Filter removes annotations whose label is not in labels (an empty list keeps all labels) or
// whose score is below minScore (annotations without scores always pass). The remaining
// annotations keep their order. Images with misaligned annotations are logged and left unchanged.
func (data AnnotatedImages) Filter(labels []int, minScore float64) {
	keepLabel := func(l int) bool {
		if len(labels) == 0 {
			return true
		}
		for _, v := range labels {
			if v == l {
				return true
			}
		}
		return false
	}

	removed := 0
	for i := range data {
		a := &data[i]
		if err := a.Validate(); err != nil {
			log.Printf("Not filtering %q: %v", a.FilePath, err)
			continue
		}

		n := 0
		for j := range a.Boxes {
			if len(a.Labels) > 0 && !keepLabel(a.Labels[j]) {
				continue
			}
			if len(a.Scores) > 0 && a.Scores[j] < minScore {
				continue
			}

			// Compact all index-aligned sequences in place.
			a.Boxes[n] = a.Boxes[j]
			if len(a.Labels) > 0 {
				a.Labels[n] = a.Labels[j]
			}
			if len(a.Scores) > 0 {
				a.Scores[n] = a.Scores[j]
			}
			if len(a.Keypoints) > 0 {
				a.Keypoints[n] = a.Keypoints[j]
			}
			if len(a.Segments) > 0 {
				a.Segments[n] = a.Segments[j]
			}
			n++
		}

		removed += len(a.Boxes) - n
		a.Boxes = a.Boxes[:n]
		if len(a.Labels) > 0 {
			a.Labels = a.Labels[:n]
		}
		if len(a.Scores) > 0 {
			a.Scores = a.Scores[:n]
		}
		if len(a.Keypoints) > 0 {
			a.Keypoints = a.Keypoints[:n]
		}
		if len(a.Segments) > 0 {
			a.Segments = a.Segments[:n]
		}
	}

	log.Printf("Filtered out %d annotations", removed)
}

// Render draws the annotations of every image and writes the results to outDir, using the base
// name of the source image and the extension of cfg.Output.Encoding.
//
// Images are processed concurrently. Processing continues after a failure, and the first error
// encountered is returned.
func (data AnnotatedImages) Render(outDir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	fileExt, err := outputExt(cfg.Output.Encoding)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory %q: %w", outDir, err)
	}
	if len(data) == 0 {
		return nil
	}
	log.Printf("Rendering %d images", len(data))

	// Limit the number of goroutines in flight, as they hold decoded images in memory.
	numTasks := 2 * runtime.NumCPU()
	if len(data) < numTasks {
		numTasks = len(data)
	}
	workQueue := make(chan *AnnotatedImage, 2*numTasks)
	errors := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(numTasks)
	for i := 0; i < numTasks; i++ {
		go func() {
			defer wg.Done()
			for a := range workQueue {
				if err := renderImage(a, outDir, fileExt, cfg); err != nil {
					select {
					case errors <- fmt.Errorf("%s: %w", a.FilePath, err):
					default:
					}
				}
			}
		}()
	}

	for i := range data {
		workQueue <- &data[i]
	}
	close(workQueue)
	wg.Wait()

	close(errors)
	if len(errors) > 0 {
		return <-errors
	}

	return nil
}

// renderImage loads, annotates and saves a single image.
func renderImage(a *AnnotatedImage, outDir, fileExt string, cfg *Config) error {
	if err := a.Validate(); err != nil {
		return err
	}

	img, err := loadImage(a.FilePath)
	if err != nil {
		return err
	}

	format := a.Format
	if cfg.BoxFormat != FormatUnknown {
		format = cfg.BoxFormat
	}
	boxes, err := Converter{Trim: cfg.Trim}.Convert(format, a.Boxes, ShapeOf(img))
	if err != nil {
		return err
	}

	var out image.Image = img
	if len(a.Segments) > 0 {
		masks, labels := a.masks(ShapeOf(img))
		if out, err = DrawMasks(out, masks, labels, cfg.Masks); err != nil {
			return err
		}
	}
	if out, err = DrawBoxes(out, boxes, a.Labels, a.Scores, cfg.boxStyle()); err != nil {
		return err
	}
	if len(a.Keypoints) > 0 {
		if out, err = DrawSkeleton(out, a.Keypoints, cfg.skeleton(), cfg.Keypoints); err != nil {
			return err
		}
		out = DrawKeypoints(out, a.Keypoints, cfg.Keypoints)
	}
	out = resizeImage(out, cfg.Output.Resize)

	inName := filepath.Base(a.FilePath)
	outName := inName[0:len(inName)-len(filepath.Ext(inName))] + fileExt
	return saveImage(filepath.Join(outDir, outName), out, cfg.Output.JPEGQuality)
}

// masks rasterizes the segmentations of all instances that have one, and returns the masks with
// their labels.
func (a *AnnotatedImage) masks(s ImageShape) ([]*image.Alpha, []int) {
	var masks []*image.Alpha
	var labels []int
	for i, polygons := range a.Segments {
		if len(polygons) == 0 {
			continue
		}
		masks = append(masks, polygonMask(polygons, s.Width, s.Height))
		label := 1
		if len(a.Labels) > 0 {
			label = a.Labels[i]
		}
		labels = append(labels, label)
	}
	return masks, labels
}
