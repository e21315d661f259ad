package kernels

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// AffineOptions configures Affine.
//
// Angle rotates clockwise in degrees, Translate is in pixels, Scale is a
// uniform positive factor and Shear holds the x and y shear angles in
// degrees. Center is the pivot in pixel coordinates; nil means the image
// centre. Pixels mapped from outside the input take the Fill value of their
// channel (see Affine).
type AffineOptions struct {
	Angle         float64
	Translate     [2]float64
	Scale         float64
	Shear         [2]float64
	Interpolation features.Interpolation
	Fill          []float64
	Center        *[2]float64
}

// RotateOptions configures Rotate. Angle rotates counter-clockwise in
// degrees. With Expand the output grows to hold the whole rotated plane.
type RotateOptions struct {
	Angle         float64
	Interpolation features.Interpolation
	Expand        bool
	Center        *[2]float64
	Fill          []float64
}

// Affine warps every plane by the affine map built from opts, keeping the
// spatial size. Fill holds nothing (zero), one value for all channels, or
// one value per channel.
func Affine(t *tensor.Tensor[uint8], opts AffineOptions) (*tensor.Tensor[uint8], error) {
	if !(opts.Scale > 0) {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "scale must be positive, got %v", opts.Scale)
	}
	_, in, err := planeGeometry(t)
	if err != nil {
		return nil, err
	}
	inv := inverseAffine(relativeCenter(opts.Center, in), opts.Angle, opts.Translate, opts.Scale, opts.Shear)
	return warp(t, in, in, inv, opts.Interpolation, opts.Fill)
}

// Rotate rotates every plane about Center.
func Rotate(t *tensor.Tensor[uint8], opts RotateOptions) (*tensor.Tensor[uint8], error) {
	_, in, err := planeGeometry(t)
	if err != nil {
		return nil, err
	}
	inv := inverseAffine(relativeCenter(opts.Center, in), -opts.Angle, [2]float64{}, 1, [2]float64{})
	out := in
	if opts.Expand {
		out = expandedSize(inv, in)
	}
	return warp(t, in, out, inv, opts.Interpolation, opts.Fill)
}

// relativeCenter converts an absolute pivot into coordinates centred on the
// image centre.
func relativeCenter(center *[2]float64, in features.ImageSize) [2]float64 {
	if center == nil {
		return [2]float64{}
	}
	return [2]float64{center[0] - float64(in.Width)*0.5, center[1] - float64(in.Height)*0.5}
}

// inverseAffine returns the output-to-input map of the affine transform, in
// coordinates centred on the image centre, as a row-major 2x3 matrix.
func inverseAffine(center [2]float64, angle float64, translate [2]float64, scale float64, shear [2]float64) [6]float64 {
	rot := angle * math.Pi / 180
	sx := shear[0] * math.Pi / 180
	sy := shear[1] * math.Pi / 180
	cx, cy := center[0], center[1]
	tx, ty := translate[0], translate[1]

	a := math.Cos(rot-sy) / math.Cos(sy)
	b := -math.Cos(rot-sy)*math.Tan(sx)/math.Cos(sy) - math.Sin(rot)
	c := math.Sin(rot-sy) / math.Cos(sy)
	d := -math.Sin(rot-sy)*math.Tan(sx)/math.Cos(sy) + math.Cos(rot)

	m := [6]float64{d, -b, 0, -c, a, 0}
	for i := range m {
		m[i] /= scale
	}
	m[2] += m[0]*(-cx-tx) + m[1]*(-cy-ty)
	m[5] += m[3]*(-cx-tx) + m[4]*(-cy-ty)
	m[2] += cx
	m[5] += cy
	return m
}

// expandedSize returns the canvas that holds the whole plane after applying
// inv to its corners. Extents are truncated to 1e-4 before rounding outwards
// so values like 32.00000000001 do not add a pixel.
func expandedSize(inv [6]float64, in features.ImageSize) features.ImageSize {
	w, h := float64(in.Width), float64(in.Height)
	corners := [4][2]float64{
		{-0.5 * w, -0.5 * h},
		{-0.5 * w, 0.5 * h},
		{0.5 * w, 0.5 * h},
		{0.5 * w, -0.5 * h},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		x := inv[0]*p[0] + inv[1]*p[1] + inv[2]
		y := inv[3]*p[0] + inv[4]*p[1] + inv[5]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	const tol = 1e-4
	trunc := func(v float64) float64 { return math.Trunc(v/tol) * tol }
	width := math.Ceil(trunc(maxX)) - math.Floor(trunc(minX))
	height := math.Ceil(trunc(maxY)) - math.Floor(trunc(minY))
	return features.ImageSize{Height: int(height), Width: int(width)}
}

// warp resamples every plane through inv. inv maps centred output
// coordinates to centred input coordinates; it is shifted to absolute pixel
// coordinates here and inverted, since x/image/draw takes the forward map.
func warp(t *tensor.Tensor[uint8], in, out features.ImageSize, inv [6]float64, mode features.Interpolation, fill []float64) (*tensor.Tensor[uint8], error) {
	interp, err := transformer(mode)
	if err != nil {
		return nil, err
	}
	channels, _, err := planeGeometry(t)
	if err != nil {
		return nil, err
	}
	fills, err := fillValues(fill, channels)
	if err != nil {
		return nil, err
	}

	ow, oh := float64(out.Width)*0.5, float64(out.Height)*0.5
	iw, ih := float64(in.Width)*0.5, float64(in.Height)*0.5
	d2s := [6]float64{
		inv[0], inv[1], inv[2] - inv[0]*ow - inv[1]*oh + iw,
		inv[3], inv[4], inv[5] - inv[3]*ow - inv[4]*oh + ih,
	}
	s2d, ok := invert(d2s)
	if !ok {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "affine matrix is singular")
	}

	return mapPlanes(t, out, func(plane *image.Gray, channel int) (image.Image, error) {
		dst := image.NewGray(image.Rect(0, 0, out.Width, out.Height))
		for i := range dst.Pix {
			dst.Pix[i] = fills[channel]
		}
		// Transform leaves destination pixels that map outside the source
		// untouched, so they keep the fill value.
		interp.Transform(dst, f64.Aff3(s2d), plane, plane.Bounds(), draw.Src, nil)
		return dst, nil
	})
}

func transformer(mode features.Interpolation) (draw.Transformer, error) {
	switch mode {
	case features.Nearest:
		return draw.NearestNeighbor, nil
	case features.Bilinear:
		return draw.BiLinear, nil
	case features.Bicubic:
		return draw.CatmullRom, nil
	default:
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "affine warping does not support interpolation %s", mode)
	}
}

func invert(m [6]float64) ([6]float64, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return [6]float64{}, false
	}
	return [6]float64{
		m[4] / det, -m[1] / det, (m[1]*m[5] - m[4]*m[2]) / det,
		-m[3] / det, m[0] / det, (m[3]*m[2] - m[0]*m[5]) / det,
	}, true
}
