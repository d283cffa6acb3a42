// Package imaging provides pixel-format-aware images and the operations built
// on them.
//
// Two Image implementations share one interface. VolatileImage borrows
// caller-owned memory and never copies; BufferedImage owns its storage and
// can be loaded from any source the conversion engine understands and
// converted between formats, in place when the target is no wider than the
// source.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Memory Layout
//
// Rows are Stride bytes apart and Stride is at least Width*PixelSize. Buffers
// allocated by this package pad rows to the engine alignment (4 bytes by
// default). Multi-byte samples are little-endian.
//
// # Thread Safety
//
// Read-only operations can run concurrently on the same image. Load, Convert
// and Clear mutate a BufferedImage and must be synchronized by the caller.
//
// # Error Handling
//
// Errors wrap the package sentinels (ErrUnsupportedFormat, ErrProbeFailure,
// ErrAllocationFailure, ErrConversionFailure, ErrInvalidDimensions) and can be
// tested with errors.Is. A BufferedImage whose Load or Convert fails after it
// started writing is left empty rather than half converted.
package imaging
