package kernels

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// Crop extracts the height x width window whose top-left corner is at
// (left, top). Parts of the window outside the plane are zero.
func Crop(t *tensor.Tensor[uint8], top, left, height, width int) (*tensor.Tensor[uint8], error) {
	if height <= 0 || width <= 0 {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "crop size must be positive, got %dx%d", width, height)
	}
	out := features.ImageSize{Height: height, Width: width}
	return mapPlanes(t, out, func(plane *image.Gray, _ int) (image.Image, error) {
		return cropPlane(plane, top, left, out), nil
	})
}

func cropPlane(plane *image.Gray, top, left int, out features.ImageSize) image.Image {
	window := image.Rect(left, top, left+out.Width, top+out.Height)
	if window.In(plane.Bounds()) {
		return imaging.Crop(plane, window)
	}
	dst := imaging.New(out.Width, out.Height, color.Black)
	return imaging.Paste(dst, plane, image.Pt(-left, -top))
}

// CenterCrop extracts the centred window of outputSize ([h, w] or [s] for a
// square). When the window is larger than the plane, the plane is padded
// with zeros first, with the odd pixel going to the bottom and right.
func CenterCrop(t *tensor.Tensor[uint8], outputSize []int) (*tensor.Tensor[uint8], error) {
	var cropH, cropW int
	switch len(outputSize) {
	case 1:
		cropH, cropW = outputSize[0], outputSize[0]
	case 2:
		cropH, cropW = outputSize[0], outputSize[1]
	default:
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "output_size must have 1 or 2 values, got %d", len(outputSize))
	}
	_, in, err := planeGeometry(t)
	if err != nil {
		return nil, err
	}

	padTop, padLeft := 0, 0
	h, w := in.Height, in.Width
	if cropW > w {
		padLeft = (cropW - w) / 2
		w += padLeft + (cropW-in.Width+1)/2
	}
	if cropH > h {
		padTop = (cropH - h) / 2
		h += padTop + (cropH-in.Height+1)/2
	}
	top := int(math.RoundToEven(float64(h-cropH)/2)) - padTop
	left := int(math.RoundToEven(float64(w-cropW)/2)) - padLeft
	return Crop(t, top, left, cropH, cropW)
}

// ResizedCrop crops the given window and resizes the crop to size.
func ResizedCrop(t *tensor.Tensor[uint8], top, left, height, width int, size []int, mode features.Interpolation) (*tensor.Tensor[uint8], error) {
	cropped, err := Crop(t, top, left, height, width)
	if err != nil {
		return nil, err
	}
	return Resize(cropped, ResizeOptions{Size: size, Interpolation: mode})
}
