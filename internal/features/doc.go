// Package features defines the typed visual annotations the geometric
// transforms operate on.
//
// Three kinds exist:
//   - Image: uint8 intensities with shape (..., C, H, W)
//   - SegmentationMask: uint8 label ids with the same shape convention
//   - BoundingBox: float64 coordinates with shape (..., 4), a coordinate
//     Format and the ImageSize the coordinates are relative to
//
// Any number of leading batch axes is allowed for every kind.
//
// # Kinds
//
// The Kind of a value is resolved by its exact concrete type (see KindOf).
// A type that embeds *Image is not an Image for dispatch purposes.
//
// # Immutability
//
// Feature values are treated as immutable by the transforms: every operation
// builds a new value. Data() exposes the backing tensor for reading and for
// constructing inputs; callers must not mutate a tensor after handing it to a
// feature that is shared with other goroutines.
package features
