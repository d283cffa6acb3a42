package imaging

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/image-core/internal/matrix"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

// Kernel is an integer convolution kernel. Each output sample is the weighted
// sum divided by Divisor, then saturated to 0..255.
type Kernel struct {
	Name    string
	Weights *matrix.Matrix[int32]
	Divisor int32
}

func mustKernel(name string, divisor int32, rows [][]int32) Kernel {
	w, err := matrix.FromRows(rows)
	if err != nil {
		panic(err)
	}
	return Kernel{Name: name, Weights: w, Divisor: divisor}
}

// GaussianKernel returns the 5x5 Gaussian blur kernel (sigma about 1.4):
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// The weights sum to 273.
func GaussianKernel() Kernel {
	return mustKernel("gaussian", 273, [][]int32{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	})
}

// BoxKernel returns a size x size mean filter. size must be odd and positive.
func BoxKernel(size int) (Kernel, error) {
	if size < 1 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("%w: box size %d must be odd and positive", matrix.ErrInvalidKernel, size)
	}
	w, err := matrix.New[int32](size, size)
	if err != nil {
		return Kernel{}, err
	}
	w.Fill(1)
	return Kernel{Name: fmt.Sprintf("box%d", size), Weights: w, Divisor: int32(size * size)}, nil
}

// SharpenKernel returns the 3x3 unsharp kernel.
func SharpenKernel() Kernel {
	return mustKernel("sharpen", 1, [][]int32{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	})
}

// SobelXKernel returns the horizontal Sobel gradient kernel.
func SobelXKernel() Kernel {
	return mustKernel("sobel-x", 1, [][]int32{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
}

// SobelYKernel returns the vertical Sobel gradient kernel.
func SobelYKernel() Kernel {
	return mustKernel("sobel-y", 1, [][]int32{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
}

var namedKernels = map[string]func() (Kernel, error){
	"gaussian": func() (Kernel, error) { return GaussianKernel(), nil },
	"box3":     func() (Kernel, error) { return BoxKernel(3) },
	"box5":     func() (Kernel, error) { return BoxKernel(5) },
	"sharpen":  func() (Kernel, error) { return SharpenKernel(), nil },
	"sobel-x":  func() (Kernel, error) { return SobelXKernel(), nil },
	"sobel-y":  func() (Kernel, error) { return SobelYKernel(), nil },
}

// KernelNames lists the names accepted by KernelByName, sorted.
func KernelNames() []string {
	names := make([]string, 0, len(namedKernels))
	for n := range namedKernels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// KernelByName returns a built-in kernel.
func KernelByName(name string) (Kernel, error) {
	mk, ok := namedKernels[name]
	if !ok {
		return Kernel{}, fmt.Errorf("unknown kernel %q", name)
	}
	return mk()
}

// workingFormat maps a format to the 8-bit layout filters operate on and its
// interleaved channel count.
func workingFormat(f pixfmt.Format) (pixfmt.Format, int) {
	switch f {
	case pixfmt.Gray8, pixfmt.Gray16:
		return pixfmt.Gray8, 1
	case pixfmt.RGB24, pixfmt.RGB32:
		return pixfmt.RGB24, 3
	case pixfmt.BGR24, pixfmt.BGR32:
		return pixfmt.BGR24, 3
	}
	return pixfmt.Unknown, 0
}

// asFormat returns img itself when it already has format f, or a converted
// copy.
func asFormat(img Image, f pixfmt.Format, opts []Option) (Image, error) {
	if img.Format() == f {
		return img, nil
	}
	b, err := NewBufferedImageFrom(img, opts...)
	if err != nil {
		return nil, err
	}
	if err := b.Convert(f); err != nil {
		return nil, err
	}
	return b, nil
}

// Filter convolves every channel of img with k and returns a new image in
// img's format. 16-bit gray and 32-bit color inputs are filtered at 8 bits per
// channel and converted back.
func Filter(img Image, k Kernel, edge matrix.EdgeHandling, opts ...Option) (*BufferedImage, error) {
	if k.Weights == nil || k.Divisor == 0 {
		return nil, fmt.Errorf("%w: kernel %q has no weights or a zero divisor", matrix.ErrInvalidKernel, k.Name)
	}
	work, channels := workingFormat(img.Format())
	if channels == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, img.Format())
	}
	src, err := asFormat(img, work, opts)
	if err != nil {
		return nil, err
	}

	wide, err := matrix.Cast[int32](src.Buffer())
	if err != nil {
		return nil, err
	}
	sums, err := matrix.ConvolveInterleaved[int32](wide, channels, k.Weights, 1, edge)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s kernel: %w", k.Name, err)
	}

	out, err := NewBufferedImage(src.Width(), src.Height(), work, opts...)
	if err != nil {
		return nil, err
	}
	for y := 0; y < out.Height(); y++ {
		dst := out.Row(y)
		for x, v := range sums.Row(y) {
			dst[x] = saturate(v / k.Divisor)
		}
	}
	if err := out.Convert(img.Format()); err != nil {
		return nil, err
	}
	return out, nil
}

// gradients returns the Sobel X and Y responses of the Gray8 image img.
func gradients(img Image, edge matrix.EdgeHandling) (gx, gy *matrix.Matrix[int32], err error) {
	wide, err := matrix.Cast[int32](img.Buffer())
	if err != nil {
		return nil, nil, err
	}
	if gx, err = matrix.Convolve[int32](wide, SobelXKernel().Weights, edge); err != nil {
		return nil, nil, err
	}
	if gy, err = matrix.Convolve[int32](wide, SobelYKernel().Weights, edge); err != nil {
		return nil, nil, err
	}
	return gx, gy, nil
}

// SobelMagnitude returns the Gray8 gradient magnitude sqrt(gx² + gy²) of img,
// saturated to 255. Borders replicate edge pixels.
func SobelMagnitude(img Image, opts ...Option) (*BufferedImage, error) {
	gray, err := asFormat(img, pixfmt.Gray8, opts)
	if err != nil {
		return nil, err
	}
	gx, gy, err := gradients(gray, matrix.EdgeClamp)
	if err != nil {
		return nil, err
	}
	out, err := NewBufferedImage(gray.Width(), gray.Height(), pixfmt.Gray8, opts...)
	if err != nil {
		return nil, err
	}
	for y := 0; y < out.Height(); y++ {
		dst := out.Row(y)
		rx, ry := gx.Row(y), gy.Row(y)
		for x := range dst {
			dst[x] = saturate(int32(math.Sqrt(float64(rx[x])*float64(rx[x]) + float64(ry[x])*float64(ry[x]))))
		}
	}
	return out, nil
}

// EdgeDetect performs Canny-style edge detection and returns a Gray8 image
// where edges are 255 and everything else is 0.
//
// # Algorithm
//
//  1. Grayscale conversion through the conversion engine (BT.601 luma).
//  2. 5x5 Gaussian blur with replicated borders.
//  3. Sobel gradients; magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx).
//  4. Non-maximum suppression thins edges to one pixel along the gradient.
//  5. Hysteresis: magnitudes at or above thresholdHigh are strong edges;
//     those between thresholdLow and thresholdHigh are kept only next to a
//     strong edge.
//
// Thresholds are in 8-bit gradient units. Clean diagrams usually work with
// 50/150, photographs with 100/200.
func EdgeDetect(img Image, thresholdLow, thresholdHigh int, opts ...Option) (*BufferedImage, error) {
	if thresholdLow < 0 || thresholdHigh <= 0 || thresholdHigh < thresholdLow {
		return nil, fmt.Errorf("invalid thresholds %d/%d", thresholdLow, thresholdHigh)
	}
	gray, err := asFormat(img, pixfmt.Gray8, opts)
	if err != nil {
		return nil, err
	}
	blurred, err := Filter(gray, GaussianKernel(), matrix.EdgeClamp, opts...)
	if err != nil {
		return nil, err
	}
	gx, gy, err := gradients(blurred, matrix.EdgeClamp)
	if err != nil {
		return nil, err
	}

	width, height := blurred.Width(), blurred.Height()
	mag, err := matrix.New[float64](height, width)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		rx, ry, dst := gx.Row(y), gy.Row(y), mag.Row(y)
		for x := range dst {
			dst[x] = math.Hypot(float64(rx[x]), float64(ry[x]))
		}
	}

	suppressed, err := matrix.New[float64](height, width)
	if err != nil {
		return nil, err
	}
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			m := mag.At(y, x)
			angle := math.Atan2(float64(gy.At(y, x)), float64(gx.At(y, x)))
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = mag.At(y, x-1), mag.At(y, x+1)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag.At(y-1, x+1), mag.At(y+1, x-1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag.At(y-1, x), mag.At(y+1, x)
			default:
				n1, n2 = mag.At(y-1, x-1), mag.At(y+1, x+1)
			}
			if m >= n1 && m >= n2 {
				suppressed.Set(y, x, m)
			}
		}
	}

	out, err := NewBufferedImage(width, height, pixfmt.Gray8, opts...)
	if err != nil {
		return nil, err
	}
	low, high := float64(thresholdLow), float64(thresholdHigh)
	strongNear := func(y, x int) bool {
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				py, px := y+ky, x+kx
				if py >= 0 && py < height && px >= 0 && px < width && suppressed.At(py, px) >= high {
					return true
				}
			}
		}
		return false
	}
	for y := 0; y < height; y++ {
		dst := out.Row(y)
		for x := range dst {
			v := suppressed.At(y, x)
			if v >= high || (v >= low && v > 0 && strongNear(y, x)) {
				dst[x] = 255
			}
		}
	}
	return out, nil
}

func saturate(v int32) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
