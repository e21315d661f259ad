package imaging

import (
	geomerrors "github.com/ironsheep/image-geometry-mcp/internal/errors"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/tensor"
	"github.com/ironsheep/image-geometry-mcp/internal/transforms"
)

// SampleSource names the files and boxes that make up one sample.
type SampleSource struct {
	ImagePath string
	MaskPath  string // optional
	Boxes     [][]float64
	BoxFormat features.BoundingBoxFormat
}

// LoadSample loads the image, the optional mask and the optional boxes as a
// Sample, in that order. The boxes take the image's size; the mask must
// match it.
func LoadSample(cache *ImageCache, src SampleSource) (transforms.Sample, error) {
	decoded, err := cache.Load(src.ImagePath)
	if err != nil {
		return nil, err
	}
	img, err := ToImage(decoded)
	if err != nil {
		return nil, err
	}
	sample := transforms.Sample{img}

	if src.MaskPath != "" {
		decoded, err := cache.Load(src.MaskPath)
		if err != nil {
			return nil, err
		}
		mask, err := ToMask(decoded)
		if err != nil {
			return nil, err
		}
		if mask.Size() != img.Size() {
			return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "mask is %dx%d but the image is %dx%d",
				mask.Size().Width, mask.Size().Height, img.Size().Width, img.Size().Height)
		}
		sample = append(sample, mask)
	}

	if len(src.Boxes) > 0 {
		data, err := BoxTensor(src.Boxes)
		if err != nil {
			return nil, err
		}
		boxes, err := features.NewBoundingBox(data, src.BoxFormat, img.Size())
		if err != nil {
			return nil, err
		}
		sample = append(sample, boxes)
	}
	return sample, nil
}

// BoxTensor packs rows of four coordinates into an (N,4) tensor.
func BoxTensor(rows [][]float64) (*tensor.Tensor[float64], error) {
	data := make([]float64, 0, 4*len(rows))
	for i, r := range rows {
		if len(r) != 4 {
			return nil, geomerrors.New(geomerrors.ErrCodeShapeMismatch, "box %d has %d coordinates, want 4", i, len(r))
		}
		data = append(data, r...)
	}
	return tensor.New([]int{len(rows), 4}, data)
}

// BoxRows unpacks a (..., 4) tensor into rows of four coordinates.
func BoxRows(t *tensor.Tensor[float64]) [][]float64 {
	d := t.Data()
	rows := make([][]float64, 0, len(d)/4)
	for i := 0; i+4 <= len(d); i += 4 {
		rows = append(rows, append([]float64(nil), d[i:i+4]...))
	}
	return rows
}
