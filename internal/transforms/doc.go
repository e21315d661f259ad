// Package transforms applies named geometric transforms uniformly across
// images, segmentation masks and bounding boxes.
//
// Each operation dispatches on the exact kind of its input and adapts the
// maths to the representation: a flip of an Image mirrors pixels while a
// flip of a BoundingBox mirrors coordinates; a resize of an Image resamples
// pixels while a resize of a BoundingBox rescales coordinates.
//
// # Operations
//
//	operation         Image  SegmentationMask  BoundingBox
//	horizontal_flip   yes    yes               yes
//	resize            yes    yes               yes
//	center_crop       yes    -                 -
//	resized_crop      yes    -                 -
//	affine            yes    -                 -
//	rotate            yes    -                 -
//
// Calling an operation on a kind it does not list fails with an
// UNSUPPORTED_KIND error.
//
// # Kind-Specific Defaults
//
// Parameters of type features.Interpolation left at InterpolationDefault
// take the default of the input's kind: resize uses bilinear for images and
// nearest for masks (nearest never invents label ids), resized_crop uses
// bilinear, affine and rotate use nearest.
//
// # Legacy Parameters
//
// Affine accepts Resample and FillColor, and Rotate accepts Resample, for
// callers written against the older parameter names. They are folded into
// Interpolation and Fill on entry, before dispatch, and a deprecation
// warning is logged.
//
// # Known Limitation
//
// Resize on a BoundingBox ignores MaxSize. When an Image is resized with
// MaxSize set, resize its boxes with the explicit [height, width] of the
// resized image instead.
//
// # Thread Safety
//
// The operation registry is built once on first use and is read-only
// afterwards. All functions are safe for concurrent use on independent
// inputs; inputs are never mutated.
package transforms
