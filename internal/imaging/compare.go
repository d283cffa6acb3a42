package imaging

import (
	"fmt"
	"math"
)

// CompareResult summarizes the pixel differences between two regions.
type CompareResult struct {
	// SimilarityScore is the fraction of compared pixels that match, 0..1.
	SimilarityScore float64 `json:"similarity_score"`

	// PixelsDifferent counts pixels whose mean channel difference exceeds
	// the tolerance.
	PixelsDifferent int `json:"pixels_different"`

	// TotalPixels is the number of pixels compared.
	TotalPixels int `json:"total_pixels"`

	// SameSize reports whether both regions have identical dimensions.
	SameSize bool `json:"same_size"`

	// AverageColorDiff is the mean per-channel difference over all compared
	// pixels, 0..255.
	AverageColorDiff float64 `json:"average_color_diff"`

	// MaxColorDiff is the largest single-channel difference seen.
	MaxColorDiff int `json:"max_color_diff"`
}

// Compare measures how similar region ra of a is to region rb of b. Nil
// regions select the whole image. Images may have different formats: pixels
// are compared as 8-bit RGB.
//
// When the regions differ in size, only the overlapping top-left area is
// compared. A pixel counts as different when its mean channel difference
// exceeds tolerance.
func Compare(a, b Image, ra, rb *Region, tolerance int) (*CompareResult, error) {
	r1, err := resolveRegion(a, ra)
	if err != nil {
		return nil, err
	}
	r2, err := resolveRegion(b, rb)
	if err != nil {
		return nil, err
	}

	w1, h1 := r1.X2-r1.X1, r1.Y2-r1.Y1
	w2, h2 := r2.X2-r2.X1, r2.Y2-r2.Y1
	minW, minH := min(w1, w2), min(h1, h2)

	total := minW * minH
	different, maxDiff := 0, 0
	var totalDiff float64
	for dy := 0; dy < minH; dy++ {
		for dx := 0; dx < minW; dx++ {
			p, err := PixelRGB(a, r1.X1+dx, r1.Y1+dy)
			if err != nil {
				return nil, err
			}
			q, err := PixelRGB(b, r2.X1+dx, r2.Y1+dy)
			if err != nil {
				return nil, err
			}
			dr, dg, db := absDiff(p.R, q.R), absDiff(p.G, q.G), absDiff(p.B, q.B)
			maxDiff = max(maxDiff, dr, dg, db)
			diff := float64(dr+dg+db) / 3.0
			totalDiff += diff
			if diff > float64(tolerance) {
				different++
			}
		}
	}

	return &CompareResult{
		SimilarityScore:  math.Round((1.0-float64(different)/float64(total))*1000) / 1000,
		PixelsDifferent:  different,
		TotalPixels:      total,
		SameSize:         w1 == w2 && h1 == h2,
		AverageColorDiff: math.Round(totalDiff/float64(total)*100) / 100,
		MaxColorDiff:     maxDiff,
	}, nil
}

func resolveRegion(img Image, r *Region) (Region, error) {
	out := Region{X1: 0, Y1: 0, X2: img.Width(), Y2: img.Height()}
	if r != nil {
		out = *r
	}
	if out.X1 < 0 || out.Y1 < 0 || out.X2 > img.Width() || out.Y2 > img.Height() || out.X1 >= out.X2 || out.Y1 >= out.Y2 {
		return Region{}, fmt.Errorf("invalid region (%d,%d)-(%d,%d) for %dx%d image",
			out.X1, out.Y1, out.X2, out.Y2, img.Width(), img.Height())
	}
	return out, nil
}

// absDiff returns the absolute difference between two uint8 values.
func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
