package kernels

import (
	"image"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// planeFunc maps one (H, W) plane. channel is the index on the C axis.
type planeFunc func(plane *image.Gray, channel int) (image.Image, error)

// mapPlanes applies fn to every plane of a (..., C, H, W) tensor and stacks
// the results back into the original leading shape. Every plane must map to
// a plane of size out.
func mapPlanes(t *tensor.Tensor[uint8], out features.ImageSize, fn planeFunc) (*tensor.Tensor[uint8], error) {
	batch, block, count, err := t.Blocks(3)
	if err != nil {
		return nil, err
	}
	channels, h, w := block[0], block[1], block[2]
	src := t.Data()
	planeLen := h * w

	data := make([]uint8, 0, count*channels*out.Height*out.Width)
	for i := 0; i < count*channels; i++ {
		plane := &image.Gray{
			Pix:    src[i*planeLen : (i+1)*planeLen],
			Stride: w,
			Rect:   image.Rect(0, 0, w, h),
		}
		res, err := fn(plane, i%channels)
		if err != nil {
			return nil, err
		}
		b := res.Bounds()
		if b.Dy() != out.Height || b.Dx() != out.Width {
			return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch,
				"plane %d resampled to %dx%d, expected %dx%d", i, b.Dx(), b.Dy(), out.Width, out.Height)
		}
		data = appendPlane(data, res)
	}

	shape := append(batch, channels, out.Height, out.Width)
	return tensor.New(shape, data)
}

// appendPlane appends the samples of img in row-major order. Planes are
// grey, so the red channel carries the sample for colour image types.
func appendPlane(dst []uint8, img image.Image) []uint8 {
	b := img.Bounds()
	switch m := img.(type) {
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := m.PixOffset(b.Min.X, y)
			dst = append(dst, m.Pix[off:off+b.Dx()]...)
		}
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := m.PixOffset(b.Min.X, y)
			for x := 0; x < b.Dx(); x++ {
				dst = append(dst, m.Pix[off+x*4])
			}
		}
	case *image.RGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := m.PixOffset(b.Min.X, y)
			for x := 0; x < b.Dx(); x++ {
				dst = append(dst, m.Pix[off+x*4])
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, _, _, _ := img.At(x, y).RGBA()
				dst = append(dst, uint8(r>>8))
			}
		}
	}
	return dst
}

// fillValues expands fill into one value per channel. A nil fill is zero,
// a single value is broadcast.
func fillValues(fill []float64, channels int) ([]uint8, error) {
	out := make([]uint8, channels)
	switch len(fill) {
	case 0:
		return out, nil
	case 1:
		for i := range out {
			out[i] = clampUint8(fill[0])
		}
		return out, nil
	case channels:
		for i, v := range fill {
			out[i] = clampUint8(v)
		}
		return out, nil
	default:
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument,
			"fill has %d values, image has %d channels", len(fill), channels)
	}
}

func clampUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// planeGeometry returns the channel count and spatial size of a
// (..., C, H, W) tensor.
func planeGeometry(t *tensor.Tensor[uint8]) (int, features.ImageSize, error) {
	_, block, _, err := t.Blocks(3)
	if err != nil {
		return 0, features.ImageSize{}, err
	}
	return block[0], features.ImageSize{Height: block[1], Width: block[2]}, nil
}
