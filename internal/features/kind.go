package features

import (
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// Kind is the dispatch tag of a feature.
type Kind string

// Known kinds.
const (
	KindImage            Kind = "Image"
	KindSegmentationMask Kind = "SegmentationMask"
	KindBoundingBox      Kind = "BoundingBox"
)

// Kinds lists every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindImage, KindSegmentationMask, KindBoundingBox}
}

// Feature is a typed piece of visual data.
type Feature interface {
	// Shape returns the shape of the underlying array.
	Shape() []int

	// Rewrap returns a new feature of the same kind and metadata holding
	// data, with the overrides in meta applied.
	Rewrap(data tensor.Array, meta Meta) (Feature, error)
}

// Meta carries metadata overrides applied when rewrapping raw output.
// Nil fields keep the value of the original feature.
type Meta struct {
	ImageSize *ImageSize
	Format    *BoundingBoxFormat
}

// KindOf resolves the exact kind of f. The second result is false for nil
// values and for any type that is not one of the concrete feature types.
func KindOf(f Feature) (Kind, bool) {
	switch v := f.(type) {
	case *Image:
		return KindImage, v != nil
	case *SegmentationMask:
		return KindSegmentationMask, v != nil
	case *BoundingBox:
		return KindBoundingBox, v != nil
	default:
		return "", false
	}
}

// ImageSize is the spatial extent of an image.
type ImageSize struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}
