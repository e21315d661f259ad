package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// ChannelCount returns the number of tensor channels img converts to: 1 for
// grayscale, 4 when some pixel is not opaque, 3 otherwise.
func ChannelCount(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return 4
	}
	return 3
}

// ToImage converts img into a (C,H,W) Image feature.
func ToImage(img image.Image) (*features.Image, error) {
	channels := ChannelCount(img)
	if channels == 1 {
		return features.NewImage(grayTensor(img))
	}

	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	h, w := b.Dy(), b.Dx()
	plane := h * w
	data := make([]uint8, channels*plane)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			px := row[x*4 : x*4+4]
			for c := 0; c < channels; c++ {
				data[c*plane+i] = px[c]
			}
		}
	}
	t, err := tensor.New([]int{channels, h, w}, data)
	if err != nil {
		return nil, err
	}
	return features.NewImage(t)
}

// ToMask converts img into a (1,H,W) SegmentationMask. Each label is the
// luma of the pixel.
func ToMask(img image.Image) (*features.SegmentationMask, error) {
	return features.NewSegmentationMask(grayTensor(img))
}

func grayTensor(img image.Image) *tensor.Tensor[uint8] {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	data := make([]uint8, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data[y*w+x] = color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}
	return tensor.MustNew([]int{1, h, w}, data)
}

// FromTensor converts a (C,H,W) tensor with 1, 3 or 4 channels back into an
// image: *image.Gray for one channel, *image.NRGBA otherwise.
func FromTensor(t *tensor.Tensor[uint8]) (image.Image, error) {
	shape := t.Shape()
	if len(shape) != 3 {
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "expected a single (C,H,W) image, got shape %v", shape)
	}
	channels, h, w := shape[0], shape[1], shape[2]
	plane := h * w
	data := t.Data()

	switch channels {
	case 1:
		g := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(g.Pix[y*g.Stride:y*g.Stride+w], data[y*w:(y+1)*w])
		}
		return g, nil
	case 3, 4:
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				o := y*out.Stride + x*4
				out.Pix[o] = data[i]
				out.Pix[o+1] = data[plane+i]
				out.Pix[o+2] = data[2*plane+i]
				out.Pix[o+3] = 255
				if channels == 4 {
					out.Pix[o+3] = data[3*plane+i]
				}
			}
		}
		return out, nil
	default:
		return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "cannot render %d channels as an image", channels)
	}
}
