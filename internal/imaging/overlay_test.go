package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

func TestOverlay_Boxes(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	box, err := features.NewBoundingBox(tensor.MustNew([]int{4}, []float64{5, 5, 10, 10}),
		features.XYWH, features.ImageSize{Height: 20, Width: 20})
	if err != nil {
		t.Fatal(err)
	}

	out, err := Overlay(src, nil, []*features.BoundingBox{box}, OverlayOptions{BoxColor: "#00ff00", Thickness: 1})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	green := color.NRGBA{0, 255, 0, 255}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{5, 5, green},   // corner
		{14, 10, green}, // right edge, x2 exclusive
		{10, 14, green}, // bottom edge
		{10, 10, color.NRGBA{}},
		{15, 15, color.NRGBA{}},
		{4, 4, color.NRGBA{}},
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if src.NRGBAAt(5, 5) != (color.NRGBA{}) {
		t.Error("Overlay modified its input")
	}
}

func TestOverlay_Mask(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 255})
	mask, err := features.NewSegmentationMask(tensor.MustNew([]int{1, 1, 2}, []uint8{0, 3}))
	if err != nil {
		t.Fatal(err)
	}

	out, err := Overlay(src, []*features.SegmentationMask{mask}, nil, OverlayOptions{MaskColor: "#ffffff", MaskOpacity: 1})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("background pixel tinted: %v", got)
	}
	if got := out.NRGBAAt(1, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("labelled pixel: got %v, want white", got)
	}
}

func TestOverlay_Errors(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	mask, _ := features.NewSegmentationMask(tensor.MustNew([]int{1, 2, 2}, []uint8{1, 1, 1, 1}))
	if _, err := Overlay(src, []*features.SegmentationMask{mask}, nil, OverlayOptions{}); err == nil {
		t.Error("expected an error for a mask of the wrong size")
	}

	box, _ := features.NewBoundingBox(tensor.MustNew([]int{4}, []float64{0, 0, 1, 1}), features.XYXY, features.ImageSize{Height: 4, Width: 4})
	if _, err := Overlay(src, nil, []*features.BoundingBox{box}, OverlayOptions{BoxColor: "green"}); err == nil {
		t.Error("expected an error for an invalid color")
	}
}

func TestPalette(t *testing.T) {
	colors := Palette(4)
	if len(colors) != 4 {
		t.Fatalf("len: got %d, want 4", len(colors))
	}
	seen := map[string]bool{}
	for _, c := range colors {
		seen[c.Hex()] = true
	}
	if len(seen) != 4 {
		t.Errorf("palette colors are not distinct: %v", seen)
	}
	if len(Palette(0)) != 0 {
		t.Error("Palette(0) should be empty")
	}
}
