package transforms

import (
	"image"

	"github.com/ironsheep/image-geometry-mcp/internal/features"
)

// HorizontalFlip mirrors the input left to right.
func HorizontalFlip(in features.Feature) (features.Feature, error) {
	return Operations().HorizontalFlip.Call(in, FlipParams{})
}

// Resize resizes the input. Boxes are rescaled to the new image size.
func Resize(in features.Feature, p ResizeParams) (features.Feature, error) {
	return Operations().Resize.Call(in, p)
}

// CenterCrop extracts the centred window of the requested size.
func CenterCrop(in features.Feature, outputSize []int) (features.Feature, error) {
	return Operations().CenterCrop.Call(in, CenterCropParams{OutputSize: outputSize})
}

// ResizedCrop crops a window and resizes it to p.Size.
func ResizedCrop(in features.Feature, p ResizedCropParams) (features.Feature, error) {
	return Operations().ResizedCrop.Call(in, p)
}

// Affine applies a rotation, translation, scale and shear about a pivot.
func Affine(in features.Feature, p AffineParams) (features.Feature, error) {
	p, err := normalizeAffine(p)
	if err != nil {
		return nil, err
	}
	return Operations().Affine.Call(in, p)
}

// Rotate rotates the input counter-clockwise by p.Angle degrees.
func Rotate(in features.Feature, p RotateParams) (features.Feature, error) {
	p, err := normalizeRotate(p)
	if err != nil {
		return nil, err
	}
	return Operations().Rotate.Call(in, p)
}

// ImageResizeKernel is the signature of the raw image resize kernel.
type ImageResizeKernel = func(img image.Image, out features.ImageSize, mode features.Interpolation) (image.Image, error)

// RawImageResize returns the raw kernel behind Image resize. It resizes a
// decoded image.Image without converting it to a feature.
func RawImageResize() ImageResizeKernel {
	k, ok := Operations().Resize.RawKernel(features.KindImage)
	if !ok {
		return nil
	}
	fn, _ := k.(ImageResizeKernel)
	return fn
}
