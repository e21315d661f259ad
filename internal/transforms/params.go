package transforms

import (
	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
)

// Operation names.
const (
	OpHorizontalFlip = "horizontal_flip"
	OpResize         = "resize"
	OpCenterCrop     = "center_crop"
	OpResizedCrop    = "resized_crop"
	OpAffine         = "affine"
	OpRotate         = "rotate"
)

// FlipParams is the (empty) parameter set of horizontal_flip.
type FlipParams struct{}

// ResizeParams configures resize.
type ResizeParams struct {
	// Size is [height, width], or [s] to match the shorter edge to s.
	Size []int `json:"size" toml:"size"`

	// Interpolation defaults to bilinear for images and nearest for masks.
	Interpolation features.Interpolation `json:"interpolation" toml:"interpolation"`

	// MaxSize caps the longer edge; only valid with a single-value Size.
	// Not honoured for bounding boxes.
	MaxSize *int `json:"max_size,omitempty" toml:"max_size"`

	// Antialias smooths bilinear downscaling. Nil means false.
	Antialias *bool `json:"antialias,omitempty" toml:"antialias"`
}

// CenterCropParams configures center_crop.
type CenterCropParams struct {
	// OutputSize is [height, width] or [s] for a square.
	OutputSize []int `json:"output_size" toml:"output_size"`
}

// ResizedCropParams configures resized_crop.
type ResizedCropParams struct {
	Top           int                    `json:"top" toml:"top"`
	Left          int                    `json:"left" toml:"left"`
	Height        int                    `json:"height" toml:"height"`
	Width         int                    `json:"width" toml:"width"`
	Size          []int                  `json:"size" toml:"size"`
	Interpolation features.Interpolation `json:"interpolation" toml:"interpolation"`
}

// AffineParams configures affine.
type AffineParams struct {
	// Angle rotates clockwise, in degrees.
	Angle float64 `json:"angle" toml:"angle"`

	// Translate is the [x, y] translation in pixels. Nil means none.
	Translate []float64 `json:"translate,omitempty" toml:"translate"`

	// Scale is the uniform scale factor; it must be positive.
	Scale float64 `json:"scale" toml:"scale"`

	// Shear is [x, y] in degrees, or [s] for the same shear on both axes.
	Shear []float64 `json:"shear,omitempty" toml:"shear"`

	Interpolation features.Interpolation `json:"interpolation" toml:"interpolation"`

	// Fill is the value of pixels mapped from outside the input: one value
	// for all channels or one per channel. Nil means zero.
	Fill []float64 `json:"fill,omitempty" toml:"fill"`

	// Resample is the legacy integer spelling of Interpolation.
	Resample *int `json:"resample,omitempty" toml:"resample"`

	// FillColor is the legacy spelling of Fill.
	FillColor []float64 `json:"fillcolor,omitempty" toml:"fillcolor"`

	// Center is the [x, y] pivot in pixels. Nil means the image centre.
	Center []float64 `json:"center,omitempty" toml:"center"`
}

// RotateParams configures rotate.
type RotateParams struct {
	// Angle rotates counter-clockwise, in degrees.
	Angle         float64                `json:"angle" toml:"angle"`
	Interpolation features.Interpolation `json:"interpolation" toml:"interpolation"`

	// Expand grows the output to hold the whole rotated image.
	Expand bool      `json:"expand" toml:"expand"`
	Center []float64 `json:"center,omitempty" toml:"center"`
	Fill   []float64 `json:"fill,omitempty" toml:"fill"`

	// Resample is the legacy integer spelling of Interpolation.
	Resample *int `json:"resample,omitempty" toml:"resample"`
}

func resolveInterpolation(p, def features.Interpolation) features.Interpolation {
	if p == features.InterpolationDefault {
		return def
	}
	return p
}

func resolveResize(p, def ResizeParams) ResizeParams {
	p.Interpolation = resolveInterpolation(p.Interpolation, def.Interpolation)
	return p
}

func resolveResizedCrop(p, def ResizedCropParams) ResizedCropParams {
	p.Interpolation = resolveInterpolation(p.Interpolation, def.Interpolation)
	return p
}

func resolveAffine(p, def AffineParams) AffineParams {
	p.Interpolation = resolveInterpolation(p.Interpolation, def.Interpolation)
	return p
}

func resolveRotate(p, def RotateParams) RotateParams {
	p.Interpolation = resolveInterpolation(p.Interpolation, def.Interpolation)
	return p
}

// normalizeAffine folds the legacy parameters into their current names.
func normalizeAffine(p AffineParams) (AffineParams, error) {
	if p.Resample != nil {
		mode, err := features.InterpolationFromResample(*p.Resample)
		if err != nil {
			return p, err
		}
		getLogger().Warn("affine: resample is deprecated, use interpolation", "resample", *p.Resample, "interpolation", mode)
		p.Interpolation = mode
		p.Resample = nil
	}
	if p.FillColor != nil {
		getLogger().Warn("affine: fillcolor is deprecated, use fill")
		p.Fill = p.FillColor
		p.FillColor = nil
	}
	return p, nil
}

// normalizeRotate folds the legacy resample parameter into Interpolation.
func normalizeRotate(p RotateParams) (RotateParams, error) {
	if p.Resample != nil {
		mode, err := features.InterpolationFromResample(*p.Resample)
		if err != nil {
			return p, err
		}
		getLogger().Warn("rotate: resample is deprecated, use interpolation", "resample", *p.Resample, "interpolation", mode)
		p.Interpolation = mode
		p.Resample = nil
	}
	return p, nil
}

func pair(name string, v []float64, broadcast bool) ([2]float64, error) {
	switch {
	case len(v) == 0:
		return [2]float64{}, nil
	case len(v) == 1 && broadcast:
		return [2]float64{v[0], v[0]}, nil
	case len(v) == 2:
		return [2]float64{v[0], v[1]}, nil
	default:
		return [2]float64{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "%s must have 2 values, got %d", name, len(v))
	}
}

func optionalPoint(name string, v []float64) (*[2]float64, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 2 {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "%s must have 2 values, got %d", name, len(v))
	}
	return &[2]float64{v[0], v[1]}, nil
}
