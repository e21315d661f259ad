package transforms

import (
	"fmt"

	"github.com/ironsheep/image-geometry-mcp/internal/features"
)

// Sample is a group of features describing the same scene, e.g. an image
// with its segmentation mask and boxes. Transforming a Sample applies the
// same operation to every member so they stay consistent.
type Sample []features.Feature

// Map applies fn to every feature. It either returns a complete new Sample
// or the first error; the input is never modified.
func (s Sample) Map(fn func(features.Feature) (features.Feature, error)) (Sample, error) {
	out := make(Sample, len(s))
	for i, f := range s {
		g, err := fn(f)
		if err != nil {
			kind, _ := features.KindOf(f)
			return nil, fmt.Errorf("sample member %d (%s): %w", i, kind, err)
		}
		out[i] = g
	}
	return out, nil
}

// Kinds returns the distinct kinds of the members, in order of first
// appearance.
func (s Sample) Kinds() []features.Kind {
	var kinds []features.Kind
	seen := make(map[features.Kind]bool)
	for _, f := range s {
		k, ok := features.KindOf(f)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds
}

// Image returns the first Image of the sample, if any.
func (s Sample) Image() (*features.Image, bool) {
	for _, f := range s {
		if img, ok := f.(*features.Image); ok {
			return img, true
		}
	}
	return nil, false
}

// Masks returns the segmentation masks of the sample in order.
func (s Sample) Masks() []*features.SegmentationMask {
	var masks []*features.SegmentationMask
	for _, f := range s {
		if m, ok := f.(*features.SegmentationMask); ok {
			masks = append(masks, m)
		}
	}
	return masks
}

// Boxes returns the bounding boxes of the sample in order.
func (s Sample) Boxes() []*features.BoundingBox {
	var boxes []*features.BoundingBox
	for _, f := range s {
		if b, ok := f.(*features.BoundingBox); ok {
			boxes = append(boxes, b)
		}
	}
	return boxes
}
