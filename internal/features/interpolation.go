package features

import (
	"fmt"
	"strings"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
)

// Interpolation selects the resampling method of a pixel kernel.
type Interpolation int

const (
	// InterpolationDefault asks for the default of the input's kind. It is
	// resolved before any kernel runs and never reaches one.
	InterpolationDefault Interpolation = iota
	Nearest
	Bilinear
	Bicubic
	Box
	Hamming
	Lanczos
)

var interpolationNames = map[Interpolation]string{
	InterpolationDefault: "default",
	Nearest:              "nearest",
	Bilinear:             "bilinear",
	Bicubic:              "bicubic",
	Box:                  "box",
	Hamming:              "hamming",
	Lanczos:              "lanczos",
}

// String implements fmt.Stringer.
func (i Interpolation) String() string {
	if name, ok := interpolationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation parses a case-insensitive interpolation name. The empty
// string and "default" yield InterpolationDefault.
func ParseInterpolation(s string) (Interpolation, error) {
	if s == "" {
		return InterpolationDefault, nil
	}
	for mode, name := range interpolationNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "unknown interpolation %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Interpolation) UnmarshalText(text []byte) error {
	mode, err := ParseInterpolation(string(text))
	if err != nil {
		return err
	}
	*i = mode
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i Interpolation) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// legacy resample codes, numbered like the PIL filter constants
var resampleCodes = map[int]Interpolation{
	0: Nearest,
	1: Lanczos,
	2: Bilinear,
	3: Bicubic,
	4: Box,
	5: Hamming,
}

// InterpolationFromResample maps a legacy integer resample code onto an
// Interpolation.
func InterpolationFromResample(code int) (Interpolation, error) {
	mode, ok := resampleCodes[code]
	if !ok {
		return 0, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "unknown resample code %d", code)
	}
	return mode, nil
}
