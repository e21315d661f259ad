package kernels

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// ResizeOptions configures Resize.
//
// Size is either [height, width] or [shorter edge]. With a single value the
// shorter edge is matched to it and the aspect ratio is kept. MaxSize caps
// the longer edge and is only valid together with a single-value Size.
// Antialias only affects bilinear resampling; nil means false.
type ResizeOptions struct {
	Size          []int
	Interpolation features.Interpolation
	MaxSize       *int
	Antialias     *bool
}

// OutputSize computes the spatial extent Resize produces for an input of
// size in.
func OutputSize(in features.ImageSize, size []int, maxSize *int) (features.ImageSize, error) {
	switch len(size) {
	case 1:
		requested := size[0]
		if requested <= 0 {
			return features.ImageSize{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "size must be positive, got %v", size)
		}
		short, long := in.Width, in.Height
		if in.Width > in.Height {
			short, long = in.Height, in.Width
		}
		if short == 0 {
			return features.ImageSize{}, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "cannot resize an empty %dx%d image", in.Width, in.Height)
		}
		newShort, newLong := requested, requested*long/short
		if maxSize != nil {
			if *maxSize <= requested {
				return features.ImageSize{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument,
					"max_size = %d must be strictly greater than the requested size for the smaller edge %d", *maxSize, requested)
			}
			if newLong > *maxSize {
				newShort, newLong = *maxSize*newShort/newLong, *maxSize
			}
		}
		if in.Width <= in.Height {
			return features.ImageSize{Height: newLong, Width: newShort}, nil
		}
		return features.ImageSize{Height: newShort, Width: newLong}, nil
	case 2:
		if maxSize != nil {
			return features.ImageSize{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument,
				"max_size is only allowed when size is a single value, got size %v", size)
		}
		if size[0] <= 0 || size[1] <= 0 {
			return features.ImageSize{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "size must be positive, got %v", size)
		}
		return features.ImageSize{Height: size[0], Width: size[1]}, nil
	default:
		return features.ImageSize{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument,
			"size must have 1 or 2 values, got %d", len(size))
	}
}

// Resize resamples every plane to the size computed by OutputSize.
func Resize(t *tensor.Tensor[uint8], opts ResizeOptions) (*tensor.Tensor[uint8], error) {
	_, in, err := planeGeometry(t)
	if err != nil {
		return nil, err
	}
	out, err := OutputSize(in, opts.Size, opts.MaxSize)
	if err != nil {
		return nil, err
	}
	if out == in {
		return t.Clone(), nil
	}
	resample, err := resampler(opts.Interpolation, opts.Antialias != nil && *opts.Antialias)
	if err != nil {
		return nil, err
	}
	return mapPlanes(t, out, func(plane *image.Gray, _ int) (image.Image, error) {
		return resample(plane, out), nil
	})
}

type resampleFunc func(src image.Image, out features.ImageSize) image.Image

// resampler picks the plane resampler for mode. Bilinear without antialias
// uses a plain 2x2 tap so downscaling matches a point-sampled bilinear grid;
// every other mode uses imaging's separable filters.
func resampler(mode features.Interpolation, antialias bool) (resampleFunc, error) {
	if mode == features.Bilinear && !antialias {
		return func(src image.Image, out features.ImageSize) image.Image {
			dst := image.NewGray(image.Rect(0, 0, out.Width, out.Height))
			draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
			return dst
		}, nil
	}
	filter, err := resampleFilter(mode)
	if err != nil {
		return nil, err
	}
	return func(src image.Image, out features.ImageSize) image.Image {
		return imaging.Resize(src, out.Width, out.Height, filter)
	}, nil
}

func resampleFilter(mode features.Interpolation) (imaging.ResampleFilter, error) {
	switch mode {
	case features.Nearest:
		return imaging.NearestNeighbor, nil
	case features.Bilinear:
		return imaging.Linear, nil
	case features.Bicubic:
		return imaging.CatmullRom, nil
	case features.Box:
		return imaging.Box, nil
	case features.Hamming:
		return imaging.Hamming, nil
	case features.Lanczos:
		return imaging.Lanczos, nil
	default:
		return imaging.ResampleFilter{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "resize does not support interpolation %s", mode)
	}
}

// ResizeImage resizes a decoded image directly, without going through a
// tensor. It backs callers that hold an image.Image rather than an Image
// feature and is the raw kernel of the Image resize implementation.
func ResizeImage(img image.Image, out features.ImageSize, mode features.Interpolation) (image.Image, error) {
	if out.Width <= 0 || out.Height <= 0 {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "size must be positive, got %dx%d", out.Width, out.Height)
	}
	var filter transform.ResampleFilter
	switch mode {
	case features.Nearest:
		filter = transform.NearestNeighbor
	case features.Bilinear:
		filter = transform.Linear
	case features.Bicubic:
		filter = transform.CatmullRom
	case features.Box:
		filter = transform.Box
	case features.Lanczos:
		filter = transform.Lanczos
	default:
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "image resize does not support interpolation %s", mode)
	}
	return transform.Resize(img, out.Width, out.Height, filter), nil
}
