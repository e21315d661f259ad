// Package kernels implements the pixel-level primitives behind the
// geometric transforms.
//
// Every kernel takes a uint8 tensor of shape (..., C, H, W) and returns a new
// tensor of shape (..., C, H', W'). The leading axes are collapsed, and each
// (H, W) plane is resampled independently through an image library:
//   - github.com/disintegration/imaging for flipping, cropping, padding and
//     filter-based (antialiased) resizing
//   - golang.org/x/image/draw for non-antialiased bilinear resizing and for
//     general affine warping
//
// The kernels know nothing about annotation kinds. Callers pick the
// interpolation; InterpolationDefault is rejected here because it must be
// resolved against the kind of the input before a kernel runs.
//
// # Coordinate System
//
// Pixel (0, 0) is the top-left corner. Pixel centres sit at half-integer
// continuous coordinates, so a plane of width W spans [0, W) horizontally.
// Angles are in degrees.
package kernels
