package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/transforms"
)

// OverlayOptions controls how boxes and masks are drawn over an image.
type OverlayOptions struct {
	// BoxColor is a "#RRGGBB" hex color. Empty picks a distinct color per box.
	BoxColor string

	// Thickness is the box outline width in pixels; values below 1 mean 2.
	Thickness int

	// MaskColor is the "#RRGGBB" tint for non-zero mask labels. Empty means red.
	MaskColor string

	// MaskOpacity is the tint strength in [0,1]; 0 means 0.5.
	MaskOpacity float64
}

// Palette returns n evenly spaced, saturated colors.
func Palette(n int) []colorful.Color {
	colors := make([]colorful.Color, n)
	for i := range colors {
		colors[i] = colorful.Hsv(float64(i)*360/float64(max(n, 1)), 0.85, 0.95)
	}
	return colors
}

// Overlay draws the masks and then the box outlines over a copy of img.
func Overlay(img image.Image, masks []*features.SegmentationMask, boxes []*features.BoundingBox, opts OverlayOptions) (*image.NRGBA, error) {
	out := imaging.Clone(img)

	for _, m := range masks {
		if err := tintMask(out, m, opts); err != nil {
			return nil, err
		}
	}
	for _, b := range boxes {
		if err := drawBoxes(out, b, opts); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseColor(hex, fallback string) (colorful.Color, error) {
	if hex == "" {
		hex = fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

func tintMask(dst *image.NRGBA, m *features.SegmentationMask, opts OverlayOptions) error {
	tint, err := parseColor(opts.MaskColor, "#ff0000")
	if err != nil {
		return err
	}
	opacity := opts.MaskOpacity
	if opacity <= 0 {
		opacity = 0.5
	}
	opacity = math.Min(opacity, 1)

	size := m.Size()
	b := dst.Bounds()
	if size.Height != b.Dy() || size.Width != b.Dx() {
		return fmt.Errorf("mask is %dx%d but the image is %dx%d", size.Width, size.Height, b.Dx(), b.Dy())
	}

	labels := m.Data().Data()
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			if labels[y*size.Width+x] == 0 {
				continue
			}
			o := y*dst.Stride + x*4
			base := colorful.Color{
				R: float64(dst.Pix[o]) / 255,
				G: float64(dst.Pix[o+1]) / 255,
				B: float64(dst.Pix[o+2]) / 255,
			}
			dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2] = base.BlendRgb(tint, opacity).Clamped().RGB255()
		}
	}
	return nil
}

func drawBoxes(dst *image.NRGBA, b *features.BoundingBox, opts OverlayOptions) error {
	xyxy, err := transforms.ConvertBoundingBoxFormat(b.Data(), b.Format(), features.XYXY, false)
	if err != nil {
		return err
	}
	coords := xyxy.Data()
	n := len(coords) / 4

	colors := Palette(n)
	if opts.BoxColor != "" {
		c, err := parseColor(opts.BoxColor, "")
		if err != nil {
			return err
		}
		for i := range colors {
			colors[i] = c
		}
	}
	thickness := opts.Thickness
	if thickness < 1 {
		thickness = 2
	}

	for i := 0; i < n; i++ {
		r := image.Rect(
			int(math.Round(coords[4*i])), int(math.Round(coords[4*i+1])),
			int(math.Round(coords[4*i+2])), int(math.Round(coords[4*i+3])),
		)
		outline(dst, r, thickness, colors[i])
	}
	return nil
}

// outline strokes the inside edge of r, clipped to dst.
func outline(dst draw.Image, r image.Rectangle, thickness int, c color.Color) {
	src := image.NewUniform(c)
	t := min(thickness, r.Dx(), r.Dy())
	if t <= 0 {
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}
