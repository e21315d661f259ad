// Package pipeline chains geometry operations into a reusable recipe.
//
// A recipe is a TOML document with one [[step]] table per operation. The
// op key names the operation and the remaining keys are its parameters,
// spelled as in the JSON tool arguments:
//
//	name = "thumbnail"
//
//	[[step]]
//	op = "resize"
//	size = [256]
//	max_size = 512
//
//	[[step]]
//	op = "center_crop"
//	output_size = [224, 224]
//
// Applying a recipe runs every step over every member of a sample, so an
// image, its masks and its boxes stay aligned.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/transforms"
)

// Decoder fills v with the parameters of one step.
type Decoder func(v any) error

// Step is one configured operation.
type Step struct {
	Op     string
	Params any
	apply  func(features.Feature) (features.Feature, error)
}

// Apply runs the step on a single feature.
func (s Step) Apply(in features.Feature) (features.Feature, error) {
	return s.apply(in)
}

// NewStep builds a step for op, decoding its parameters with decode.
func NewStep(op string, decode Decoder) (Step, error) {
	op = strings.TrimSpace(op)
	switch op {
	case transforms.OpHorizontalFlip:
		return Step{Op: op, Params: transforms.FlipParams{}, apply: transforms.HorizontalFlip}, nil
	case transforms.OpResize:
		var p transforms.ResizeParams
		return build(op, decode, &p, func(in features.Feature) (features.Feature, error) {
			return transforms.Resize(in, p)
		})
	case transforms.OpCenterCrop:
		var p transforms.CenterCropParams
		return build(op, decode, &p, func(in features.Feature) (features.Feature, error) {
			return transforms.CenterCrop(in, p.OutputSize)
		})
	case transforms.OpResizedCrop:
		var p transforms.ResizedCropParams
		return build(op, decode, &p, func(in features.Feature) (features.Feature, error) {
			return transforms.ResizedCrop(in, p)
		})
	case transforms.OpAffine:
		p := transforms.AffineParams{Scale: 1}
		step, err := build(op, decode, &p, func(in features.Feature) (features.Feature, error) {
			return transforms.Affine(in, p)
		})
		if err == nil {
			err = hexFill(decode, &p.Fill)
		}
		if err != nil {
			return Step{}, err
		}
		return step, nil
	case transforms.OpRotate:
		var p transforms.RotateParams
		step, err := build(op, decode, &p, func(in features.Feature) (features.Feature, error) {
			return transforms.Rotate(in, p)
		})
		if err == nil {
			err = hexFill(decode, &p.Fill)
		}
		if err != nil {
			return Step{}, err
		}
		return step, nil
	case "":
		return Step{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "step has no op")
	default:
		return Step{}, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "unknown operation %q (available: %s)",
			op, strings.Join(transforms.Operations().Catalog().Names(), ", "))
	}
}

func build[P any](op string, decode Decoder, p *P, apply func(features.Feature) (features.Feature, error)) (Step, error) {
	if decode != nil {
		if err := decode(p); err != nil {
			return Step{}, geomerrors.Wrap(geomerrors.ErrCodeInvalidArgument, err, "%s parameters", op)
		}
	}
	return Step{Op: op, Params: p, apply: apply}, nil
}

// hexFill lets affine and rotate steps give their fill as fill_hex =
// "#RRGGBB", which becomes a three-channel fill. It overrides fill.
func hexFill(decode Decoder, fill *[]float64) error {
	if decode == nil {
		return nil
	}
	var h struct {
		FillHex string `json:"fill_hex" toml:"fill_hex"`
	}
	if err := decode(&h); err != nil {
		return geomerrors.Wrap(geomerrors.ErrCodeInvalidArgument, err, "fill_hex")
	}
	if h.FillHex == "" {
		return nil
	}
	c, err := colorful.Hex(h.FillHex)
	if err != nil {
		return geomerrors.Wrap(geomerrors.ErrCodeInvalidArgument, err, "fill_hex %q", h.FillHex)
	}
	r, g, b := c.RGB255()
	*fill = []float64{float64(r), float64(g), float64(b)}
	return nil
}

// Pipeline is an ordered list of steps.
type Pipeline struct {
	Name  string
	Steps []Step
}

type recipe struct {
	Name string           `toml:"name"`
	Step []toml.Primitive `toml:"step"`
}

// Parse reads a TOML recipe. Keys that no step understands are rejected,
// so a misspelt parameter does not silently fall back to its default.
func Parse(data string) (*Pipeline, error) {
	var r recipe
	md, err := toml.Decode(data, &r)
	if err != nil {
		return nil, geomerrors.Wrap(geomerrors.ErrCodeInvalidArgument, err, "parse recipe")
	}

	p := &Pipeline{Name: r.Name}
	for i, prim := range r.Step {
		var head struct {
			Op string `toml:"op"`
		}
		if err := md.PrimitiveDecode(prim, &head); err != nil {
			return nil, geomerrors.Wrap(geomerrors.ErrCodeInvalidArgument, err, "step %d", i+1)
		}
		step, err := NewStep(head.Op, func(v any) error { return md.PrimitiveDecode(prim, v) })
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		p.Steps = append(p.Steps, step)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "unknown recipe keys: %s", strings.Join(keys, ", "))
	}
	if len(p.Steps) == 0 {
		return nil, geomerrors.New(geomerrors.ErrCodeInvalidArgument, "recipe has no steps")
	}
	return p, nil
}

// Load reads a TOML recipe from path.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	p, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Ops lists the step operation names in order.
func (p *Pipeline) Ops() []string {
	ops := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ops[i] = s.Op
	}
	return ops
}

// Apply runs every step over the sample. The context is checked between
// steps; the logger attached with log.WithContext receives progress.
func (p *Pipeline) Apply(ctx context.Context, s transforms.Sample) (transforms.Sample, error) {
	logger := log.FromContext(ctx)
	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("applying step", "index", i+1, "op", step.Op, "members", len(s))
		out, err := s.Map(step.Apply)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		s = out
	}
	return s, nil
}

// Validate reports the steps that cannot run on the given kinds, without
// running anything. Callers run it against Sample.Kinds before Apply.
func (p *Pipeline) Validate(kinds ...features.Kind) error {
	catalog := transforms.Operations().Catalog()
	var problems []string
	for i, step := range p.Steps {
		for _, k := range kinds {
			if !catalog.Supports(step.Op, k) {
				problems = append(problems, fmt.Sprintf("step %d (%s) does not support %s", i+1, step.Op, k))
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return geomerrors.New(geomerrors.ErrCodeUnsupportedKind, "%s", strings.Join(problems, "; "))
}
