package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"

	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
)

// quadrants returns an image with red, green, blue and white quadrants.
func quadrants(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.NRGBA{255, 0, 0, 255}
			case y < height/2:
				c = color.NRGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.NRGBA{0, 0, 255, 255}
			default:
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestToImage(t *testing.T) {
	img, err := ToImage(quadrants(4, 2))
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	shape := img.Shape()
	if len(shape) != 3 || shape[0] != 3 || shape[1] != 2 || shape[2] != 4 {
		t.Fatalf("shape: got %v, want [3 2 4]", shape)
	}
	// channel-first: red plane, green plane, blue plane
	want := []uint8{
		255, 255, 0, 0, 0, 0, 255, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
		0, 0, 0, 0, 255, 255, 255, 255,
	}
	if got := img.Data().Data(); !bytes.Equal(got, want) {
		t.Errorf("data:\ngot  %v\nwant %v", got, want)
	}
}

func TestToImage_Alpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 4})
	src.SetNRGBA(1, 0, color.NRGBA{5, 6, 7, 255})

	img, err := ToImage(src)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	if got := img.NumChannels(); got != 4 {
		t.Fatalf("channels: got %d, want 4", got)
	}
	if got, want := img.Data().Data(), []uint8{1, 5, 2, 6, 3, 7, 4, 255}; !bytes.Equal(got, want) {
		t.Errorf("data: got %v, want %v", got, want)
	}
}

func TestToMask(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(src.Pix, []uint8{0, 1, 2, 3, 4, 5})

	m, err := ToMask(src)
	if err != nil {
		t.Fatalf("ToMask failed: %v", err)
	}
	if got := m.Size(); got != (features.ImageSize{Height: 2, Width: 3}) {
		t.Errorf("size: got %+v", got)
	}
	if got := m.Data().Data(); !bytes.Equal(got, []uint8{0, 1, 2, 3, 4, 5}) {
		t.Errorf("labels: got %v", got)
	}
}

func TestFromTensor_RoundTrip(t *testing.T) {
	src := quadrants(6, 4)
	img, err := ToImage(src)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	back, err := FromTensor(img.Data())
	if err != nil {
		t.Fatalf("FromTensor failed: %v", err)
	}
	nrgba, ok := back.(*image.NRGBA)
	if !ok {
		t.Fatalf("type: got %T, want *image.NRGBA", back)
	}
	if !bytes.Equal(nrgba.Pix, src.Pix) {
		t.Error("round trip changed the pixels")
	}

	gray := tensor.MustNew([]int{1, 2, 2}, []uint8{9, 8, 7, 6})
	g, err := FromTensor(gray)
	if err != nil {
		t.Fatalf("FromTensor gray failed: %v", err)
	}
	if got := g.(*image.Gray).GrayAt(1, 1).Y; got != 6 {
		t.Errorf("gray pixel: got %d, want 6", got)
	}
}

func TestFromTensor_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
	}{
		{"batched", []int{2, 3, 2, 2}},
		{"two channels", []int{2, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, _ := tensor.Zeros[uint8](tt.shape...)
			if _, err := FromTensor(z); !errors.Is(err, geomerrors.ErrShapeMismatch) {
				t.Errorf("got %v, want shape mismatch", err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	src := quadrants(8, 6)

	tests := []struct {
		format string
		mime   string
		decode func([]byte) (image.Image, error)
	}{
		{"", "image/png", func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }},
		{"webp", "image/webp", func(b []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(b)) }},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			enc, err := Encode(src, tt.format)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if enc.MimeType != tt.mime || enc.Width != 8 || enc.Height != 6 {
				t.Errorf("got %s %dx%d", enc.MimeType, enc.Width, enc.Height)
			}
			raw, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
			if err != nil {
				t.Fatalf("invalid base64: %v", err)
			}
			img, err := tt.decode(raw)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
				t.Errorf("decoded size: %v", img.Bounds())
			}
		})
	}

	if _, err := Encode(src, "bmp"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	cache := NewImageCache()
	for _, name := range []string{"out.png", "out.webp", "out.jpg"} {
		path := filepath.Join(dir, name)
		if err := Save(path, quadrants(10, 4)); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
		dims, err := GetDimensions(cache, path)
		if err != nil {
			t.Fatalf("reload %s: %v", name, err)
		}
		if dims.Width != 10 || dims.Height != 4 {
			t.Errorf("%s: got %dx%d, want 10x4", name, dims.Width, dims.Height)
		}
	}
}
