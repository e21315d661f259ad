package transforms

import (
	"github.com/ironsheep/image-geometry-mcp/internal/dispatch"
	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/kernels"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// pixelData returns the tensor of an image-like feature. Zero values built
// without NewImage or NewSegmentationMask carry no tensor and are rejected.
func pixelData(in features.Feature) (*tensor.Tensor[uint8], error) {
	var data *tensor.Tensor[uint8]
	switch v := in.(type) {
	case *features.Image:
		data = v.Data()
	case *features.SegmentationMask:
		data = v.Data()
	}
	if data == nil {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "%T has no pixel data", in)
	}
	return data, nil
}

// pixelKernel adapts a tensor kernel into an implementation whose output the
// dispatcher wraps.
func pixelKernel[P any](kernel func(t *tensor.Tensor[uint8], p P) (*tensor.Tensor[uint8], error)) dispatch.RawImpl[P] {
	return func(in features.Feature, p P) (dispatch.Raw, error) {
		data, err := pixelData(in)
		if err != nil {
			return dispatch.Raw{}, err
		}
		out, err := kernel(data, p)
		if err != nil {
			return dispatch.Raw{}, err
		}
		return dispatch.Raw{Data: out}, nil
	}
}

// === horizontal_flip ===

func flipPixels(t *tensor.Tensor[uint8], _ FlipParams) (*tensor.Tensor[uint8], error) {
	return kernels.Flip(t)
}

// HorizontalFlipBoundingBox mirrors boxes horizontally inside an image of
// the given size. The boxes keep their format. Flipping twice restores
// integer-valued coordinates exactly; fractional ones come back within
// float64 rounding (w-(w-x) may differ from x by a few ulps of w).
func HorizontalFlipBoundingBox(boxes *tensor.Tensor[float64], format features.BoundingBoxFormat, size features.ImageSize) (*tensor.Tensor[float64], error) {
	xyxy, err := ConvertBoundingBoxFormat(boxes, format, features.XYXY, true)
	if err != nil {
		return nil, err
	}
	w := float64(size.Width)
	d := xyxy.Data()
	for i := 0; i < len(d); i += 4 {
		d[i], d[i+2] = w-d[i+2], w-d[i]
	}
	return ConvertBoundingBoxFormat(xyxy, features.XYXY, format, false)
}

func flipBoundingBox(in features.Feature, _ FlipParams) (dispatch.Raw, error) {
	b := in.(*features.BoundingBox)
	out, err := HorizontalFlipBoundingBox(b.Data(), b.Format(), b.ImageSize())
	if err != nil {
		return dispatch.Raw{}, err
	}
	return dispatch.Raw{Data: out}, nil
}

// === resize ===

func resizePixels(t *tensor.Tensor[uint8], p ResizeParams) (*tensor.Tensor[uint8], error) {
	return kernels.Resize(t, kernels.ResizeOptions{
		Size:          p.Size,
		Interpolation: p.Interpolation,
		MaxSize:       p.MaxSize,
		Antialias:     p.Antialias,
	})
}

// ResizeBoundingBox rescales box coordinates from oldSize to newSize. The
// x coordinates scale by the width ratio and the y coordinates by the
// height ratio, which holds for every supported format.
func ResizeBoundingBox(boxes *tensor.Tensor[float64], oldSize, newSize features.ImageSize) (*tensor.Tensor[float64], error) {
	if err := checkBoxShape(boxes); err != nil {
		return nil, err
	}
	if oldSize.Width <= 0 || oldSize.Height <= 0 {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "cannot rescale boxes of an empty %dx%d image", oldSize.Width, oldSize.Height)
	}
	rw := float64(newSize.Width) / float64(oldSize.Width)
	rh := float64(newSize.Height) / float64(oldSize.Height)

	out := boxes.Clone()
	d := out.Data()
	for i := 0; i < len(d); i += 2 {
		d[i] *= rw
		d[i+1] *= rh
	}
	return out, nil
}

// resizeBoundingBox builds the output itself because the new image size is
// part of the result. MaxSize is deliberately not applied.
func resizeBoundingBox(in features.Feature, p ResizeParams) (features.Feature, error) {
	b := in.(*features.BoundingBox)
	newSize, err := kernels.OutputSize(b.ImageSize(), p.Size, nil)
	if err != nil {
		return nil, err
	}
	out, err := ResizeBoundingBox(b.Data(), b.ImageSize(), newSize)
	if err != nil {
		return nil, err
	}
	nb, err := b.NewLike(out, features.Meta{ImageSize: &newSize})
	if err != nil {
		return nil, err
	}
	return nb, nil
}

// === center_crop, resized_crop ===

func centerCropPixels(t *tensor.Tensor[uint8], p CenterCropParams) (*tensor.Tensor[uint8], error) {
	return kernels.CenterCrop(t, p.OutputSize)
}

func resizedCropPixels(t *tensor.Tensor[uint8], p ResizedCropParams) (*tensor.Tensor[uint8], error) {
	return kernels.ResizedCrop(t, p.Top, p.Left, p.Height, p.Width, p.Size, p.Interpolation)
}

// === affine, rotate ===

// affinePixels and rotatePixels normalize again so that callers going
// straight through the registry get the same legacy handling.
func affinePixels(t *tensor.Tensor[uint8], p AffineParams) (*tensor.Tensor[uint8], error) {
	p, err := normalizeAffine(p)
	if err != nil {
		return nil, err
	}
	translate, err := pair("translate", p.Translate, false)
	if err != nil {
		return nil, err
	}
	shear, err := pair("shear", p.Shear, true)
	if err != nil {
		return nil, err
	}
	center, err := optionalPoint("center", p.Center)
	if err != nil {
		return nil, err
	}
	return kernels.Affine(t, kernels.AffineOptions{
		Angle:         p.Angle,
		Translate:     translate,
		Scale:         p.Scale,
		Shear:         shear,
		Interpolation: p.Interpolation,
		Fill:          p.Fill,
		Center:        center,
	})
}

func rotatePixels(t *tensor.Tensor[uint8], p RotateParams) (*tensor.Tensor[uint8], error) {
	p, err := normalizeRotate(p)
	if err != nil {
		return nil, err
	}
	center, err := optionalPoint("center", p.Center)
	if err != nil {
		return nil, err
	}
	return kernels.Rotate(t, kernels.RotateOptions{
		Angle:         p.Angle,
		Interpolation: p.Interpolation,
		Expand:        p.Expand,
		Center:        center,
		Fill:          p.Fill,
	})
}
