package features

import (
	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// pixels is the storage shared by the image-like kinds.
type pixels struct {
	data *tensor.Tensor[uint8]
}

func newPixels(kind Kind, data *tensor.Tensor[uint8]) (pixels, error) {
	if data == nil {
		return pixels{}, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "%s has no data", kind)
	}
	if data.Rank() < 3 {
		return pixels{}, geomerrors.New(geomerrors.ErrCodeShapeMismatch,
			"%s needs shape (..., C, H, W), got %v", kind, data.Shape())
	}
	return pixels{data: data}, nil
}

func pixelData(kind Kind, data tensor.Array) (*tensor.Tensor[uint8], error) {
	t, ok := data.(*tensor.Tensor[uint8])
	if !ok {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "%s output must be a uint8 tensor, got %T", kind, data)
	}
	return t, nil
}

// Data returns the underlying tensor.
func (p pixels) Data() *tensor.Tensor[uint8] { return p.data }

// Shape returns the tensor shape.
func (p pixels) Shape() []int { return p.data.Shape() }

// NumChannels returns the size of the channel axis.
func (p pixels) NumChannels() int {
	s := p.data.Shape()
	return s[len(s)-3]
}

// Size returns the spatial extent (H, W).
func (p pixels) Size() ImageSize {
	s := p.data.Shape()
	return ImageSize{Height: s[len(s)-2], Width: s[len(s)-1]}
}

// Image holds pixel intensities.
type Image struct {
	pixels
}

// NewImage wraps data of shape (..., C, H, W) in an Image.
func NewImage(data *tensor.Tensor[uint8]) (*Image, error) {
	p, err := newPixels(KindImage, data)
	if err != nil {
		return nil, err
	}
	return &Image{pixels: p}, nil
}

// Rewrap implements Feature. Images carry no metadata, so meta is ignored.
func (i *Image) Rewrap(data tensor.Array, _ Meta) (Feature, error) {
	t, err := pixelData(KindImage, data)
	if err != nil {
		return nil, err
	}
	return NewImage(t)
}

// SegmentationMask holds per-pixel label ids.
type SegmentationMask struct {
	pixels
}

// NewSegmentationMask wraps data of shape (..., C, H, W) in a mask.
func NewSegmentationMask(data *tensor.Tensor[uint8]) (*SegmentationMask, error) {
	p, err := newPixels(KindSegmentationMask, data)
	if err != nil {
		return nil, err
	}
	return &SegmentationMask{pixels: p}, nil
}

// Rewrap implements Feature.
func (m *SegmentationMask) Rewrap(data tensor.Array, _ Meta) (Feature, error) {
	t, err := pixelData(KindSegmentationMask, data)
	if err != nil {
		return nil, err
	}
	return NewSegmentationMask(t)
}
