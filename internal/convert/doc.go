// Package convert is the pixel conversion engine.
//
// An Engine maps (source fourcc, target fourcc) pairs to Transcoders. It
// answers two questions for the image layer:
//
//  1. Probe: how many bytes does the converted image need? A result of 0
//     means the pair is unsupported or the source is degenerate.
//  2. Transcode: write the converted pixels into a destination buffer.
//
// Output rows are padded to the engine alignment (4 bytes by default):
//
//	stride = width*pixelSize + (4 - width*pixelSize%4) % 4
//
// TranscodeInPlace reuses the source storage. It is only attempted when
// neither pixels nor rows grow, so every destination byte is written after
// the source bytes it overlaps have been read.
//
// # Built-in transcoders
//
//   - rgb-swizzle: RGB3, RGB4, BGR3, BGR4 in any combination
//   - rgb-to-luma: color to GREY or Y16 (BT.601 weights 0.299, 0.587, 0.114)
//   - luma-to-rgb: GREY or Y16 to color
//   - mono-depth: GREY and Y16
//   - yuyv-to-rgb: YUYV or YUY2 to color
//   - copy: identical source and target layout
//
// Engines are immutable after New and safe for concurrent use.
package convert
