package transforms

import (
	"sync"

	"github.com/ironsheep/image-geometry-mcp/internal/dispatch"
	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/kernels"
)

// Registry holds the sealed operations.
type Registry struct {
	HorizontalFlip *dispatch.Operation[FlipParams]
	Resize         *dispatch.Operation[ResizeParams]
	CenterCrop     *dispatch.Operation[CenterCropParams]
	ResizedCrop    *dispatch.Operation[ResizedCropParams]
	Affine         *dispatch.Operation[AffineParams]
	Rotate         *dispatch.Operation[RotateParams]

	catalog *dispatch.Catalog
}

// Catalog indexes the operations by name.
func (r *Registry) Catalog() *dispatch.Catalog {
	return r.catalog
}

var registry = sync.OnceValue(newRegistry)

// Operations returns the process-wide registry, building it on first use.
func Operations() *Registry {
	return registry()
}

func newRegistry() *Registry {
	r := &Registry{
		HorizontalFlip: dispatch.Define[FlipParams](OpHorizontalFlip, nil).
			Register(features.KindImage, pixelKernel(flipPixels)).
			Register(features.KindSegmentationMask, pixelKernel(flipPixels)).
			Register(features.KindBoundingBox, flipBoundingBox).
			Seal(),

		Resize: dispatch.Define[ResizeParams](OpResize, resolveResize).
			Register(features.KindImage, pixelKernel(resizePixels),
				dispatch.WithDefaults(ResizeParams{Interpolation: features.Bilinear}),
				dispatch.WithRawKernel[ResizeParams](kernels.ResizeImage)).
			Register(features.KindSegmentationMask, pixelKernel(resizePixels),
				dispatch.WithDefaults(ResizeParams{Interpolation: features.Nearest})).
			Implements(features.KindBoundingBox, resizeBoundingBox).
			Seal(),

		CenterCrop: dispatch.Define[CenterCropParams](OpCenterCrop, nil).
			Register(features.KindImage, pixelKernel(centerCropPixels)).
			Seal(),

		ResizedCrop: dispatch.Define[ResizedCropParams](OpResizedCrop, resolveResizedCrop).
			Register(features.KindImage, pixelKernel(resizedCropPixels),
				dispatch.WithDefaults(ResizedCropParams{Interpolation: features.Bilinear})).
			Seal(),

		Affine: dispatch.Define[AffineParams](OpAffine, resolveAffine).
			Register(features.KindImage, pixelKernel(affinePixels),
				dispatch.WithDefaults(AffineParams{Interpolation: features.Nearest})).
			Seal(),

		Rotate: dispatch.Define[RotateParams](OpRotate, resolveRotate).
			Register(features.KindImage, pixelKernel(rotatePixels),
				dispatch.WithDefaults(RotateParams{Interpolation: features.Nearest})).
			Seal(),
	}
	r.catalog = dispatch.NewCatalog(r.HorizontalFlip, r.Resize, r.CenterCrop, r.ResizedCrop, r.Affine, r.Rotate)
	return r
}
