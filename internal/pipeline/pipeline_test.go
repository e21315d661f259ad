package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
	"github.com/ironsheep/image-geometry-mcp/internal/transforms"
)

const thumbnail = `
name = "thumbnail"

[[step]]
op = "resize"
size = [32]
max_size = 48
interpolation = "nearest"

[[step]]
op = "horizontal_flip"
`

func testSample(t *testing.T) transforms.Sample {
	t.Helper()
	img, err := features.NewImage(tensor.MustNew([]int{3, 64, 96}, make([]uint8, 3*64*96)))
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	box, err := features.NewBoundingBox(tensor.MustNew([]int{4}, []float64{0, 0, 48, 32}),
		features.XYXY, features.ImageSize{Height: 64, Width: 96})
	if err != nil {
		t.Fatalf("NewBoundingBox failed: %v", err)
	}
	return transforms.Sample{img, box}
}

func TestParse(t *testing.T) {
	p, err := Parse(thumbnail)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.Name != "thumbnail" {
		t.Errorf("Name: got %q, want thumbnail", p.Name)
	}
	ops := p.Ops()
	if len(ops) != 2 || ops[0] != transforms.OpResize || ops[1] != transforms.OpHorizontalFlip {
		t.Fatalf("Ops: got %v", ops)
	}

	params, ok := p.Steps[0].Params.(*transforms.ResizeParams)
	if !ok {
		t.Fatalf("Params type: got %T", p.Steps[0].Params)
	}
	if len(params.Size) != 1 || params.Size[0] != 32 {
		t.Errorf("Size: got %v, want [32]", params.Size)
	}
	if params.MaxSize == nil || *params.MaxSize != 48 {
		t.Errorf("MaxSize: got %v, want 48", params.MaxSize)
	}
	if params.Interpolation != features.Nearest {
		t.Errorf("Interpolation: got %v, want nearest", params.Interpolation)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		recipe string
	}{
		{"no steps", `name = "empty"`},
		{"unknown op", "[[step]]\nop = \"vertical_flip\"\n"},
		{"missing op", "[[step]]\nsize = [3]\n"},
		{"bad interpolation", "[[step]]\nop = \"resize\"\nsize = [3]\ninterpolation = \"sharp\"\n"},
		{"malformed", "[[step]\nop = "},
		{"misspelt parameter", "[[step]]\nop = \"resize\"\nsize = [3]\ninterpolaton = \"nearest\"\n"},
		{"fill_hex on resize", "[[step]]\nop = \"resize\"\nsize = [3]\nfill_hex = \"#ffffff\"\n"},
		{"numeric fill_hex", "[[step]]\nop = \"affine\"\nfill_hex = 5\n"},
		{"unknown top-level key", "title = \"x\"\n[[step]]\nop = \"horizontal_flip\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.recipe)
			if !errors.Is(err, geomerrors.ErrInvalidArgument) {
				t.Errorf("got %v, want invalid argument", err)
			}
		})
	}
}

func TestAffineDefaultsToUnitScale(t *testing.T) {
	p, err := Parse("[[step]]\nop = \"affine\"\nangle = 15.0\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	params := p.Steps[0].Params.(*transforms.AffineParams)
	if params.Scale != 1 || params.Angle != 15 {
		t.Errorf("got scale %v angle %v, want 1 and 15", params.Scale, params.Angle)
	}
}

func TestApply(t *testing.T) {
	p, err := Parse(thumbnail)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, err := p.Apply(context.Background(), testSample(t))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	img, ok := out.Image()
	if !ok {
		t.Fatal("result has no image")
	}
	// 64x96 -> short edge 32, long edge 48 (within max_size)
	if got := img.Size(); got != (features.ImageSize{Height: 32, Width: 48}) {
		t.Errorf("image size: got %+v, want 32x48", got)
	}

	box := out.Boxes()[0]
	if box.ImageSize() != img.Size() {
		t.Errorf("box image size %+v does not match image %+v", box.ImageSize(), img.Size())
	}
	want := []float64{24, 0, 48, 16}
	for i, v := range box.Data().Data() {
		if v != want[i] {
			t.Fatalf("box: got %v, want %v", box.Data().Data(), want)
		}
	}
}

func TestApply_Cancelled(t *testing.T) {
	p, err := Parse(thumbnail)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Apply(ctx, testSample(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestApply_UnsupportedMember(t *testing.T) {
	p, err := Parse("[[step]]\nop = \"rotate\"\nangle = 90.0\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := p.Validate(features.KindImage, features.KindBoundingBox); !errors.Is(err, geomerrors.ErrUnsupportedKind) {
		t.Errorf("Validate: got %v, want unsupported kind", err)
	}
	if err := p.Validate(features.KindImage); err != nil {
		t.Errorf("Validate image only: %v", err)
	}
	if _, err := p.Apply(context.Background(), testSample(t)); !errors.Is(err, geomerrors.ErrUnsupportedKind) {
		t.Errorf("Apply: got %v, want unsupported kind", err)
	}
}

func TestNewStep_JSON(t *testing.T) {
	raw := json.RawMessage(`{"top": 0, "left": 0, "height": 32, "width": 32, "size": [8, 8], "interpolation": "bicubic"}`)
	step, err := NewStep("resized_crop", func(v any) error { return json.Unmarshal(raw, v) })
	if err != nil {
		t.Fatalf("NewStep failed: %v", err)
	}
	out, err := step.Apply(testSample(t)[0])
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := out.(*features.Image).Size(); got != (features.ImageSize{Height: 8, Width: 8}) {
		t.Errorf("size: got %+v, want 8x8", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.toml")
	if err := os.WriteFile(path, []byte(thumbnail), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(p.Steps) != 2 {
		t.Errorf("steps: got %d, want 2", len(p.Steps))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestFillHex(t *testing.T) {
	p, err := Parse("[[step]]\nop = \"rotate\"\nangle = 45.0\nfill_hex = \"#ff8000\"\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	fill := p.Steps[0].Params.(*transforms.RotateParams).Fill
	if len(fill) != 3 || fill[0] != 255 || fill[1] != 128 || fill[2] != 0 {
		t.Errorf("fill: got %v, want [255 128 0]", fill)
	}

	if _, err := Parse("[[step]]\nop = \"affine\"\nfill_hex = \"orange\"\n"); !errors.Is(err, geomerrors.ErrInvalidArgument) {
		t.Errorf("got %v, want invalid argument", err)
	}

	raw := json.RawMessage(`{"angle": 10, "fill_hex": 5}`)
	if _, err := NewStep("rotate", func(v any) error { return json.Unmarshal(raw, v) }); !errors.Is(err, geomerrors.ErrInvalidArgument) {
		t.Errorf("numeric fill_hex in JSON: got %v, want invalid argument", err)
	}
}

func TestParse_NamesUnknownKeys(t *testing.T) {
	_, err := Parse("[[step]]\nop = \"resize\"\nsize = [3]\ninterpolaton = \"nearest\"\n")
	if err == nil || !strings.Contains(err.Error(), "step.interpolaton") {
		t.Errorf("got %v, want an error naming step.interpolaton", err)
	}
}
