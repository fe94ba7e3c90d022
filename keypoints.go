package annoviz

// Drawing of person keypoints and skeletons.

import (
	"fmt"
	"image"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Keypoint is a joint location in pixels with a COCO visibility flag: 0 not labelled, 1 labelled
// but occluded, 2 visible.
type Keypoint struct {
	X, Y, V float64
}

// Visible reports whether the keypoint is drawn.
func (k Keypoint) Visible() bool {
	return k.V >= 2
}

// KeypointsFromFlat splits a flat list of values into keypoints. With stride 3 the values are
// x, y, v triplets as in COCO annotations. With stride 2 they are x, y pairs, and a pair with a
// negative coordinate marks a missing keypoint.
func KeypointsFromFlat(values []float64, stride int) ([]Keypoint, error) {
	if stride != 2 && stride != 3 {
		return nil, fmt.Errorf("unsupported keypoint stride %d", stride)
	}
	if len(values)%stride != 0 {
		return nil, fmt.Errorf("%w: %d keypoint values are not a multiple of %d",
			ErrLengthMismatch, len(values), stride)
	}

	kps := make([]Keypoint, len(values)/stride)
	for i := range kps {
		v := values[i*stride : (i+1)*stride]
		kps[i] = Keypoint{X: v[0], Y: v[1]}
		if stride == 3 {
			kps[i].V = v[2]
		} else if v[0] >= 0 && v[1] >= 0 {
			kps[i].V = 2
		}
	}
	return kps, nil
}

// Skeleton is a keypoint adjacency table. Each entry connects two keypoint indices.
type Skeleton [][2]int

// COCOSkeleton connects the 17 COCO person keypoints.
var COCOSkeleton = Skeleton{
	{15, 13}, {13, 11}, {16, 14}, {14, 12}, {11, 12}, {5, 11}, {6, 12}, {5, 6}, {5, 7}, {6, 8},
	{7, 9}, {8, 10}, {1, 2}, {0, 1}, {0, 2}, {1, 3}, {2, 4}, {3, 5}, {4, 6},
}

// KeypointStyle controls how keypoints and skeletons are drawn.
type KeypointStyle struct {
	Radius        int     `yaml:"radius"`         // Joint disc radius in pixels.
	ShowLabels    bool    `yaml:"show_labels"`    // Print the keypoint index next to each joint.
	LineThickness float64 `yaml:"line_thickness"` // Skeleton segment thickness in pixels.
}

// DefaultKeypointStyle returns the default keypoint style.
func DefaultKeypointStyle() KeypointStyle {
	return KeypointStyle{Radius: 5, ShowLabels: true, LineThickness: 2}
}

// DrawKeypoints draws the visible keypoints of all instances onto a copy of img. Joint j has
// colour CocoColors[j].
func DrawKeypoints(img image.Image, instances [][]Keypoint, style KeypointStyle) *image.NRGBA {
	dst := imaging.Clone(img)
	face := basicfont.Face7x13

	for _, kps := range instances {
		for j, k := range kps {
			if !k.Visible() {
				continue
			}
			x, y := pixelIndex(k.X), pixelIndex(k.Y)
			fillDisc(dst, float32(x)+0.5, float32(y)+0.5, float32(style.Radius), cocoColor(j))

			if style.ShowLabels {
				d := &font.Drawer{
					Dst:  dst,
					Src:  image.NewUniform(jointTextColor),
					Face: face,
					Dot:  fixed.P(x+5, y),
				}
				d.DrawString(strconv.Itoa(j))
			}
		}
	}

	return dst
}

// DrawSkeleton draws the limbs of all instances onto a copy of img. A limb is skipped unless both
// of its keypoints are visible, and takes the colour of its first keypoint.
//
// Instances without keypoints are skipped. An error wrapping ErrLengthMismatch is returned if the
// skeleton references a keypoint index that any other instance does not have.
func DrawSkeleton(img image.Image, instances [][]Keypoint, skeleton Skeleton,
	style KeypointStyle) (*image.NRGBA, error) {

	for i, kps := range instances {
		if len(kps) == 0 {
			continue
		}
		if err := skeleton.check(len(kps)); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
	}

	dst := imaging.Clone(img)
	for _, kps := range instances {
		if len(kps) == 0 {
			continue
		}
		for _, limb := range skeleton {
			p, q := kps[limb[0]], kps[limb[1]]
			if !p.Visible() || !q.Visible() {
				continue
			}
			strokeLine(dst,
				float32(pixelIndex(p.X))+0.5, float32(pixelIndex(p.Y))+0.5,
				float32(pixelIndex(q.X))+0.5, float32(pixelIndex(q.Y))+0.5,
				float32(style.LineThickness), cocoColor(limb[0]))
		}
	}

	return dst, nil
}

// check verifies that all indices of s refer to one of n keypoints.
func (s Skeleton) check(n int) error {
	for _, limb := range s {
		for _, idx := range limb {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: skeleton references keypoint %d of %d",
					ErrLengthMismatch, idx, n)
			}
		}
	}
	return nil
}
