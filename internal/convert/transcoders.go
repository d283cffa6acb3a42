package convert

import (
	"encoding/binary"
	"fmt"

	"github.com/ironsheep/image-core/internal/pixfmt"
)

var (
	colorCodes = []pixfmt.FourCC{
		pixfmt.FourCCRGB24, pixfmt.FourCCRGB32,
		pixfmt.FourCCBGR24, pixfmt.FourCCBGR32,
	}
	monoCodes = []pixfmt.FourCC{pixfmt.FourCCGrey, pixfmt.FourCCY16}
	yuvCodes  = []pixfmt.FourCC{pixfmt.FourCCYUYV, pixfmt.FourCCYUY2}
)

// Builtins returns the transcoders every engine starts with. Identity pairs
// are listed last so they resolve to a plain row copy.
func Builtins() []Transcoder {
	out := []Transcoder{
		{Name: "rgb-swizzle", From: colorCodes, To: colorCodes, Convert: swizzle},
		{Name: "rgb-to-luma", From: colorCodes, To: monoCodes, Convert: rgbToLuma},
		{Name: "luma-to-rgb", From: monoCodes, To: colorCodes, Convert: lumaToRGB},
		{Name: "mono-depth", From: monoCodes, To: monoCodes, Convert: monoDepth},
		{Name: "yuyv-to-rgb", From: yuvCodes, To: colorCodes, Convert: yuyvToRGB},
	}
	for _, code := range append(append([]pixfmt.FourCC{}, colorCodes...), monoCodes...) {
		out = append(out, Transcoder{
			Name:    "copy",
			From:    []pixfmt.FourCC{code},
			To:      []pixfmt.FourCC{code},
			Convert: copyRows,
		})
	}
	return out
}

// channelOrder returns the byte offsets of R, G and B within a pixel and the
// pixel size.
func channelOrder(code pixfmt.FourCC) (r, g, b, size int, err error) {
	switch code {
	case pixfmt.FourCCRGB24:
		return 0, 1, 2, 3, nil
	case pixfmt.FourCCRGB32:
		return 0, 1, 2, 4, nil
	case pixfmt.FourCCBGR24:
		return 2, 1, 0, 3, nil
	case pixfmt.FourCCBGR32:
		return 2, 1, 0, 4, nil
	}
	return 0, 0, 0, 0, fmt.Errorf("%w: %v is not an RGB layout", ErrUnsupportedFormat, code)
}

// copyRows duplicates rows of identical layout, re-striding as needed.
func copyRows(dst, src Plane) error {
	if dst.FourCC != src.FourCC {
		return fmt.Errorf("%w: copy cannot convert %v to %v", ErrUnsupportedFormat, src.FourCC, dst.FourCC)
	}
	n := RowBytes(src.FourCC, src.Width)
	for y := 0; y < src.Height; y++ {
		copy(dst.Data[y*dst.Stride:y*dst.Stride+n], src.Data[y*src.Stride:y*src.Stride+n])
	}
	return nil
}

// swizzle reorders and repacks RGB/BGR pixels. The padding byte of 32-bit
// output is zeroed.
func swizzle(dst, src Plane) error {
	sr, sg, sb, spx, err := channelOrder(src.FourCC)
	if err != nil {
		return err
	}
	dr, dg, db, dpx, err := channelOrder(dst.FourCC)
	if err != nil {
		return err
	}
	for y := 0; y < src.Height; y++ {
		in := src.Data[y*src.Stride:]
		out := dst.Data[y*dst.Stride:]
		for x := 0; x < src.Width; x++ {
			s := x * spx
			r, g, b := in[s+sr], in[s+sg], in[s+sb]
			d := x * dpx
			out[d+dr], out[d+dg], out[d+db] = r, g, b
			if dpx == 4 {
				out[d+3] = 0
			}
		}
	}
	return nil
}

// luma returns the BT.601 luminance of an 8-bit RGB triple.
func luma(r, g, b byte) float32 {
	return 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)
}

// rgbToLuma writes BT.601 luminance. GREY output is truncated to 8 bits; Y16
// output is scaled to the full 16-bit range and stored little-endian.
func rgbToLuma(dst, src Plane) error {
	sr, sg, sb, spx, err := channelOrder(src.FourCC)
	if err != nil {
		return err
	}
	wide := dst.FourCC == pixfmt.FourCCY16
	if !wide && dst.FourCC != pixfmt.FourCCGrey {
		return fmt.Errorf("%w: %v is not a mono layout", ErrUnsupportedFormat, dst.FourCC)
	}
	for y := 0; y < src.Height; y++ {
		in := src.Data[y*src.Stride:]
		out := dst.Data[y*dst.Stride:]
		for x := 0; x < src.Width; x++ {
			s := x * spx
			l := min(luma(in[s+sr], in[s+sg], in[s+sb]), 255)
			if wide {
				binary.LittleEndian.PutUint16(out[x*2:], uint16(l*257))
			} else {
				out[x] = byte(l)
			}
		}
	}
	return nil
}

// lumaToRGB replicates a mono sample into every color channel.
func lumaToRGB(dst, src Plane) error {
	dr, dg, db, dpx, err := channelOrder(dst.FourCC)
	if err != nil {
		return err
	}
	wide := src.FourCC == pixfmt.FourCCY16
	for y := 0; y < src.Height; y++ {
		in := src.Data[y*src.Stride:]
		out := dst.Data[y*dst.Stride:]
		// Output pixels are at least as wide as input pixels, so in-place runs
		// are rejected before this point.
		for x := 0; x < src.Width; x++ {
			var v byte
			if wide {
				v = byte(binary.LittleEndian.Uint16(in[x*2:]) >> 8)
			} else {
				v = in[x]
			}
			d := x * dpx
			out[d+dr], out[d+dg], out[d+db] = v, v, v
			if dpx == 4 {
				out[d+3] = 0
			}
		}
	}
	return nil
}

// monoDepth converts between 8-bit and 16-bit gray.
func monoDepth(dst, src Plane) error {
	if src.FourCC == dst.FourCC {
		return copyRows(dst, src)
	}
	toWide := dst.FourCC == pixfmt.FourCCY16
	for y := 0; y < src.Height; y++ {
		in := src.Data[y*src.Stride:]
		out := dst.Data[y*dst.Stride:]
		for x := 0; x < src.Width; x++ {
			if toWide {
				v := uint16(in[x])
				binary.LittleEndian.PutUint16(out[x*2:], v<<8|v)
			} else {
				out[x] = byte(binary.LittleEndian.Uint16(in[x*2:]) >> 8)
			}
		}
	}
	return nil
}

// yuyvToRGB decodes packed 4:2:2 (Y0 U Y1 V) with the integer BT.601
// coefficients. An odd width drops the second pixel of the last macropixel.
func yuyvToRGB(dst, src Plane) error {
	dr, dg, db, dpx, err := channelOrder(dst.FourCC)
	if err != nil {
		return err
	}
	for y := 0; y < src.Height; y++ {
		in := src.Data[y*src.Stride:]
		out := dst.Data[y*dst.Stride:]
		for x := 0; x < src.Width; x += 2 {
			m := x / 2 * 4
			y0, u, y1, v := int(in[m]), int(in[m+1])-128, int(in[m+2]), int(in[m+3])-128
			for i, yy := range [2]int{y0, y1} {
				if x+i >= src.Width {
					break
				}
				c := 298 * (yy - 16)
				d := (x + i) * dpx
				out[d+dr] = clampByte((c + 409*v + 128) >> 8)
				out[d+dg] = clampByte((c - 100*u - 208*v + 128) >> 8)
				out[d+db] = clampByte((c + 516*u + 128) >> 8)
				if dpx == 4 {
					out[d+3] = 0
				}
			}
		}
	}
	return nil
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
