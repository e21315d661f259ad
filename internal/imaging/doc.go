// Package imaging moves pixels between files, image.Image values and the
// channel-first tensors the geometry operations work on.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Box corners follow the
// same convention; (x2,y2) is exclusive.
//
// # Tensor Layout
//
// Images are converted to uint8 tensors of shape (C,H,W) with C = 3 (RGB)
// or C = 4 (RGBA). Masks are converted to (1,H,W) using the luma of each
// pixel, which preserves the labels of a grayscale label map.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The conversion and
// overlay functions are stateless and never modify their inputs.
package imaging
