package features

import (
	"fmt"
	"strings"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// BoundingBoxFormat is a coordinate convention for boxes.
type BoundingBoxFormat int

const (
	// XYXY is the corner form (min-x, min-y, max-x, max-y). All conversions
	// pivot through it.
	XYXY BoundingBoxFormat = iota
	// XYWH is the top-left corner plus width and height.
	XYWH
	// CXCYWH is the center plus width and height.
	CXCYWH
)

var formatNames = map[BoundingBoxFormat]string{
	XYXY:   "XYXY",
	XYWH:   "XYWH",
	CXCYWH: "CXCYWH",
}

// Valid reports whether f is a member of the enumeration.
func (f BoundingBoxFormat) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// String implements fmt.Stringer.
func (f BoundingBoxFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("BoundingBoxFormat(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f BoundingBoxFormat) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidFormat, "unknown bounding box format %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *BoundingBoxFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseBoundingBoxFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseBoundingBoxFormat parses a case-insensitive format name.
func ParseBoundingBoxFormat(s string) (BoundingBoxFormat, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, geomerrors.New(geomerrors.ErrCodeInvalidFormat, "unknown bounding box format %q", s)
}

// BoundingBox holds box coordinates with shape (..., 4).
type BoundingBox struct {
	data      *tensor.Tensor[float64]
	format    BoundingBoxFormat
	imageSize ImageSize
}

// NewBoundingBox wraps data of shape (..., 4) in a BoundingBox.
func NewBoundingBox(data *tensor.Tensor[float64], format BoundingBoxFormat, imageSize ImageSize) (*BoundingBox, error) {
	if data == nil {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "bounding box has no data")
	}
	s := data.Shape()
	if len(s) < 1 || s[len(s)-1] != 4 {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch,
			"bounding box needs shape (..., 4), got %v", s)
	}
	if !format.Valid() {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidFormat, "unknown bounding box format %d", int(format))
	}
	return &BoundingBox{data: data, format: format, imageSize: imageSize}, nil
}

// Data returns the underlying tensor.
func (b *BoundingBox) Data() *tensor.Tensor[float64] { return b.data }

// Shape returns the tensor shape.
func (b *BoundingBox) Shape() []int { return b.data.Shape() }

// Format returns the coordinate convention.
func (b *BoundingBox) Format() BoundingBoxFormat { return b.format }

// ImageSize returns the size of the image the coordinates are relative to.
func (b *BoundingBox) ImageSize() ImageSize { return b.imageSize }

// Rewrap implements Feature.
func (b *BoundingBox) Rewrap(data tensor.Array, meta Meta) (Feature, error) {
	t, ok := data.(*tensor.Tensor[float64])
	if !ok {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "BoundingBox output must be a float64 tensor, got %T", data)
	}
	return b.NewLike(t, meta)
}

// NewLike returns a BoundingBox holding data with the metadata of b, with
// the overrides in meta applied.
func (b *BoundingBox) NewLike(data *tensor.Tensor[float64], meta Meta) (*BoundingBox, error) {
	format, size := b.format, b.imageSize
	if meta.Format != nil {
		format = *meta.Format
	}
	if meta.ImageSize != nil {
		size = *meta.ImageSize
	}
	return NewBoundingBox(data, format, size)
}
