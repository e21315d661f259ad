package transforms

import (
	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// ConvertBoundingBoxFormat converts boxes of shape (..., 4) from oldFormat
// to newFormat through the XYXY pivot. When the formats are equal it
// returns boxes itself, or a copy if copy is set; otherwise the result is
// always a new tensor.
func ConvertBoundingBoxFormat(boxes *tensor.Tensor[float64], oldFormat, newFormat features.BoundingBoxFormat, copy bool) (*tensor.Tensor[float64], error) {
	if !oldFormat.Valid() {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidFormat, "unknown source format %s", oldFormat)
	}
	if !newFormat.Valid() {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidFormat, "unknown target format %s", newFormat)
	}
	if err := checkBoxShape(boxes); err != nil {
		return nil, err
	}
	if oldFormat == newFormat {
		if copy {
			return boxes.Clone(), nil
		}
		return boxes, nil
	}

	out := boxes.Clone()
	d := out.Data()
	for i := 0; i < len(d); i += 4 {
		b := (*[4]float64)(d[i : i+4])
		toXYXY(b, oldFormat)
		fromXYXY(b, newFormat)
	}
	return out, nil
}

func checkBoxShape(boxes *tensor.Tensor[float64]) error {
	if boxes == nil {
		return geomerrors.New(geomerrors.ErrCodeShapeMismatch, "no boxes")
	}
	s := boxes.Shape()
	if len(s) == 0 || s[len(s)-1] != 4 {
		return geomerrors.New(geomerrors.ErrCodeShapeMismatch, "boxes need shape (..., 4), got %v", s)
	}
	return nil
}

func toXYXY(b *[4]float64, from features.BoundingBoxFormat) {
	switch from {
	case features.XYWH:
		b[2] += b[0]
		b[3] += b[1]
	case features.CXCYWH:
		cx, cy, hw, hh := b[0], b[1], b[2]/2, b[3]/2
		b[0], b[1], b[2], b[3] = cx-hw, cy-hh, cx+hw, cy+hh
	}
}

func fromXYXY(b *[4]float64, to features.BoundingBoxFormat) {
	switch to {
	case features.XYWH:
		b[2] -= b[0]
		b[3] -= b[1]
	case features.CXCYWH:
		x1, y1, x2, y2 := b[0], b[1], b[2], b[3]
		b[0], b[1], b[2], b[3] = (x1+x2)/2, (y1+y2)/2, x2-x1, y2-y1
	}
}
