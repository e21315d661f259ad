package kernels

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// Flip mirrors every plane along the width axis: column w moves to
// column W-1-w.
func Flip(t *tensor.Tensor[uint8]) (*tensor.Tensor[uint8], error) {
	_, size, err := planeGeometry(t)
	if err != nil {
		return nil, err
	}
	return mapPlanes(t, size, func(plane *image.Gray, _ int) (image.Image, error) {
		return imaging.FlipH(plane), nil
	})
}
