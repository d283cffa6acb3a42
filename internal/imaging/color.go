package imaging

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-core/internal/pixfmt"
)

// RGBPixel is an 8-bit RGB color.
type RGBPixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Color returns the pixel as a go-colorful color for perceptual math.
func (p RGBPixel) Color() colorful.Color {
	return colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
}

// Hex returns the color as "#RRGGBB".
func (p RGBPixel) Hex() string {
	return strings.ToUpper(p.Color().Hex())
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBPixel `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// pixelBytes returns a copy of the bytes of the pixel at (x, y).
func pixelBytes(img Image, x, y int) ([]byte, error) {
	if x < 0 || y < 0 || x >= img.Width() || y >= img.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d",
			x, y, img.Width(), img.Height())
	}
	px := pixfmt.PixelSize(img.Format())
	if px == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, img.Format())
	}
	out := make([]byte, px)
	copy(out, img.Row(y)[x*px:])
	return out, nil
}

// PixelRGB decodes the pixel at (x, y) into 8-bit RGB.
//
// Gray pixels are replicated into all three channels; 16-bit gray keeps only
// its high byte. The padding byte of 32-bit formats is ignored.
func PixelRGB(img Image, x, y int) (RGBPixel, error) {
	b, err := pixelBytes(img, x, y)
	if err != nil {
		return RGBPixel{}, err
	}
	switch img.Format() {
	case pixfmt.Gray8:
		return RGBPixel{b[0], b[0], b[0]}, nil
	case pixfmt.Gray16:
		v := uint8(binary.LittleEndian.Uint16(b) >> 8)
		return RGBPixel{v, v, v}, nil
	case pixfmt.RGB24, pixfmt.RGB32:
		return RGBPixel{b[0], b[1], b[2]}, nil
	case pixfmt.BGR24, pixfmt.BGR32:
		return RGBPixel{b[2], b[1], b[0]}, nil
	}
	return RGBPixel{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, img.Format())
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) as hex, RGB and HSL.
//   - error: Non-nil if coordinates are outside the image bounds or the
//     format is not registered.
//
// HSL values come from go-colorful and are rounded to whole degrees and
// percentages.
func SampleColor(img Image, x, y int) (*ColorResult, error) {
	p, err := PixelRGB(img, x, y)
	if err != nil {
		return nil, err
	}
	h, s, l := p.Color().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return &ColorResult{
		Hex: p.Hex(),
		RGB: p,
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}, nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is inclusive and (X2, Y2) is exclusive.
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBPixel `json:"rgb"`        // RGB components (quantized)
}

// DominantColors returns up to count of the most common colors in img or in
// region, most frequent first.
//
// # Color Quantization
//
// Each component is quantized by dividing by 16 and rounding down, so colors
// within 16 units of each other per component are grouped:
//
//	quantized = (original / 16) * 16
//
// Ties are broken by hex string so results are deterministic.
func DominantColors(img Image, count int, region *Region) ([]ColorFrequency, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	r, err := resolveRegion(img, region)
	if err != nil {
		return nil, err
	}

	counts := make(map[RGBPixel]int)
	total := 0
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			p, err := PixelRGB(img, x, y)
			if err != nil {
				return nil, err
			}
			counts[RGBPixel{p.R / 16 * 16, p.G / 16 * 16, p.B / 16 * 16}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for p, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        p.Hex(),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        p,
		})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})
	if len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}

// NearestColor returns the index of the palette entry perceptually closest to
// p, using CIE Lab distance.
func NearestColor(p RGBPixel, palette []RGBPixel) int {
	best, bestDist := -1, math.Inf(1)
	c := p.Color()
	for i, q := range palette {
		if d := c.DistanceLab(q.Color()); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
