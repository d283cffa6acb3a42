// Package pixfmt is the read-only registry of pixel formats.
//
// Each Format has a Descriptor (color layout, channel count, bytes per
// channel, pixel size) and a unique fourcc. Lookups in either direction fail
// with distinct sentinels: Unknown for formats and 0 for codes. Neither is
// ever a registered value.
package pixfmt

import "fmt"

// FourCC is a four-character code packed little-endian: a | b<<8 | c<<16 | d<<24.
type FourCC uint32

// MakeFourCC packs four characters into a FourCC.
func MakeFourCC(a, b, c, d byte) FourCC {
	return FourCC(a) | FourCC(b)<<8 | FourCC(c)<<16 | FourCC(d)<<24
}

// ParseFourCC packs a string of up to four characters, right-padded with
// spaces.
func ParseFourCC(s string) (FourCC, error) {
	if len(s) == 0 || len(s) > 4 {
		return 0, fmt.Errorf("invalid fourcc %q: want 1 to 4 characters", s)
	}
	var b [4]byte
	for i := range b {
		b[i] = ' '
	}
	copy(b[:], s)
	return MakeFourCC(b[0], b[1], b[2], b[3]), nil
}

// String returns the four characters of the code.
func (f FourCC) String() string {
	if f == 0 {
		return "none"
	}
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// Color is the channel layout of a format.
type Color uint8

const (
	ColorUnknown Color = iota
	Mono
	RGB
	BGR
)

func (c Color) String() string {
	switch c {
	case Mono:
		return "mono"
	case RGB:
		return "rgb"
	case BGR:
		return "bgr"
	default:
		return "unknown"
	}
}

// Format enumerates the registered pixel formats.
type Format uint8

const (
	Unknown Format = iota
	Gray8
	Gray16
	BGR24
	BGR32
	RGB24
	RGB32
)

// Known fourcc codes. YUYV and YUY2 are accepted as conversion sources but
// have no Format of their own.
var (
	FourCCGrey  = MakeFourCC('G', 'R', 'E', 'Y')
	FourCCY16   = MakeFourCC('Y', '1', '6', ' ')
	FourCCBGR24 = MakeFourCC('B', 'G', 'R', '3')
	FourCCBGR32 = MakeFourCC('B', 'G', 'R', '4')
	FourCCRGB24 = MakeFourCC('R', 'G', 'B', '3')
	FourCCRGB32 = MakeFourCC('R', 'G', 'B', '4')
	FourCCYUYV  = MakeFourCC('Y', 'U', 'Y', 'V')
	FourCCYUY2  = MakeFourCC('Y', 'U', 'Y', '2')
)

// Descriptor holds the static metadata for a format.
type Descriptor struct {
	Format          Format
	Name            string
	Color           Color
	BytesPerChannel uint8
	Channels        uint8
	// PixelSize is the byte size of one pixel, including the padding byte of
	// 32-bit RGB/BGR layouts.
	PixelSize uint8
	FourCC    FourCC
}

// Bits returns the bit depth of one pixel.
func (d Descriptor) Bits() uint32 {
	return uint32(d.PixelSize) * 8
}

var descriptors = [...]Descriptor{
	{Format: Gray8, Name: "gray8", Color: Mono, BytesPerChannel: 1, Channels: 1, PixelSize: 1, FourCC: FourCCGrey},
	{Format: Gray16, Name: "gray16", Color: Mono, BytesPerChannel: 2, Channels: 1, PixelSize: 2, FourCC: FourCCY16},
	{Format: BGR24, Name: "bgr24", Color: BGR, BytesPerChannel: 1, Channels: 3, PixelSize: 3, FourCC: FourCCBGR24},
	{Format: BGR32, Name: "bgr32", Color: BGR, BytesPerChannel: 1, Channels: 3, PixelSize: 4, FourCC: FourCCBGR32},
	{Format: RGB24, Name: "rgb24", Color: RGB, BytesPerChannel: 1, Channels: 3, PixelSize: 3, FourCC: FourCCRGB24},
	{Format: RGB32, Name: "rgb32", Color: RGB, BytesPerChannel: 1, Channels: 3, PixelSize: 4, FourCC: FourCCRGB32},
}

var byFourCC = func() map[FourCC]Format {
	m := make(map[FourCC]Format, len(descriptors))
	for _, d := range descriptors {
		m[d.FourCC] = d.Format
	}
	return m
}()

// All returns the descriptors of every registered format.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors[:])
	return out
}

// Describe returns the descriptor of f. ok is false for Unknown and
// unregistered values.
func Describe(f Format) (d Descriptor, ok bool) {
	if f == Unknown || int(f) > len(descriptors) {
		return Descriptor{}, false
	}
	return descriptors[f-1], true
}

// FormatFor returns the format registered for code, or Unknown.
func FormatFor(code FourCC) Format {
	if f, ok := byFourCC[code]; ok {
		return f
	}
	return Unknown
}

// FourCCFor returns the code of f, or 0 if f has none.
func FourCCFor(f Format) FourCC {
	d, _ := Describe(f)
	return d.FourCC
}

// Bits returns the bit depth of one pixel of f, or 0 if f is not registered.
func Bits(f Format) uint32 {
	d, _ := Describe(f)
	return d.Bits()
}

// Channels returns the channel count of f, or 0 if f is not registered.
func Channels(f Format) uint32 {
	d, _ := Describe(f)
	return uint32(d.Channels)
}

// PixelSize returns the bytes per pixel of f, or 0 if f is not registered.
func PixelSize(f Format) int {
	d, _ := Describe(f)
	return int(d.PixelSize)
}

// Parse resolves a format from its name ("rgb24") or fourcc ("RGB3").
func Parse(s string) (Format, error) {
	for _, d := range descriptors {
		if d.Name == s {
			return d.Format, nil
		}
	}
	if code, err := ParseFourCC(s); err == nil {
		if f := FormatFor(code); f != Unknown {
			return f, nil
		}
	}
	return Unknown, fmt.Errorf("unknown pixel format %q", s)
}

func (f Format) String() string {
	if d, ok := Describe(f); ok {
		return d.Name
	}
	return "unknown"
}

// MarshalText encodes f as its name.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText accepts a format name or fourcc, as Parse does.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
