package matrix

import "fmt"

// EdgeHandling selects how kernel taps outside the input are sampled.
type EdgeHandling int

const (
	// EdgeZero treats out-of-bounds samples as zero.
	EdgeZero EdgeHandling = iota
	// EdgeClamp replicates the nearest in-bounds row and column.
	EdgeClamp
)

func (e EdgeHandling) String() string {
	switch e {
	case EdgeZero:
		return "zero"
	case EdgeClamp:
		return "clamp"
	default:
		return fmt.Sprintf("EdgeHandling(%d)", int(e))
	}
}

// Convolve centres kernel on every cell of m and returns the unnormalized sum
// of products. The result has m's shape. Both kernel dimensions must be odd.
//
// Callers normalize by pre-dividing the kernel weights or by scaling the
// result, e.g. DivScalar(273) after a 5x5 Gaussian.
func Convolve[T Number](m, kernel Reader[T], edge EdgeHandling) (*Matrix[T], error) {
	return ConvolveInterleaved(m, 1, kernel, 1, edge)
}

// ConvolveInterleaved convolves a matrix whose rows hold channels interleaved
// values per pixel (e.g. B,G,R,B,G,R,...). channels must be 1 or 3.
//
// The kernel is either single-channel, applied to every channel, or carries
// one weight per channel for each tap, interleaved the same way
// (kernelChannels == channels). Edge handling works on pixel coordinates so
// channels never bleed into each other.
func ConvolveInterleaved[T Number](m Reader[T], channels int, kernel Reader[T], kernelChannels int, edge EdgeHandling) (*Matrix[T], error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: %d channels, want 1 or 3", ErrInvalidKernel, channels)
	}
	if kernelChannels != 1 && kernelChannels != channels {
		return nil, fmt.Errorf("%w: %d kernel channels for %d image channels",
			ErrInvalidKernel, kernelChannels, channels)
	}
	if m.Cols()%channels != 0 {
		return nil, fmt.Errorf("%w: %d columns not divisible into %d channels",
			ErrDimensionMismatch, m.Cols(), channels)
	}
	if kernel.Cols()%kernelChannels != 0 {
		return nil, fmt.Errorf("%w: %d kernel columns not divisible into %d channels",
			ErrInvalidKernel, kernel.Cols(), kernelChannels)
	}
	kh, kw := kernel.Rows(), kernel.Cols()/kernelChannels
	if kh%2 == 0 || kw%2 == 0 {
		return nil, fmt.Errorf("%w: %dx%d kernel must be odd-sized", ErrInvalidKernel, kh, kw)
	}
	if edge != EdgeZero && edge != EdgeClamp {
		return nil, fmt.Errorf("%w: unknown edge handling %v", ErrInvalidKernel, edge)
	}

	rows, width := m.Rows(), m.Cols()/channels
	out, err := New[T](rows, m.Cols())
	if err != nil {
		return nil, err
	}
	cy, cx := kh/2, kw/2

	forRows(rows, rows*m.Cols()*kh*kw, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst := out.Row(i)
			for x := 0; x < width; x++ {
				for c := 0; c < channels; c++ {
					kc := 0
					if kernelChannels > 1 {
						kc = c
					}
					var sum T
					for ky := 0; ky < kh; ky++ {
						y := i + ky - cy
						if y < 0 || y >= rows {
							if edge == EdgeZero {
								continue
							}
							y = clamp(y, 0, rows-1)
						}
						src, weights := m.Row(y), kernel.Row(ky)
						for kx := 0; kx < kw; kx++ {
							px := x + kx - cx
							if px < 0 || px >= width {
								if edge == EdgeZero {
									continue
								}
								px = clamp(px, 0, width-1)
							}
							sum += src[px*channels+c] * weights[kx*kernelChannels+kc]
						}
					}
					dst[x*channels+c] = sum
				}
			}
		}
	})
	return out, nil
}

// clamp constrains v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
