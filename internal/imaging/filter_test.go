package imaging

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/ironsheep/image-core/internal/matrix"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

func newGrayImage(t *testing.T, w, h int, fn func(x, y int) uint8) *BufferedImage {
	t.Helper()
	b, err := NewBufferedImage(w, h, pixfmt.Gray8)
	if err != nil {
		t.Fatalf("NewBufferedImage failed: %v", err)
	}
	for y := 0; y < h; y++ {
		row := b.Row(y)
		for x := range row {
			row[x] = fn(x, y)
		}
	}
	return b
}

func uniform(v uint8) func(x, y int) uint8 {
	return func(int, int) uint8 { return v }
}

func TestFilter_UniformPreserved(t *testing.T) {
	img := newGrayImage(t, 6, 5, uniform(200))
	box3, err := BoxKernel(3)
	if err != nil {
		t.Fatalf("BoxKernel failed: %v", err)
	}

	for _, k := range []Kernel{GaussianKernel(), box3, SharpenKernel()} {
		t.Run(k.Name, func(t *testing.T) {
			out, err := Filter(img, k, matrix.EdgeClamp)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			for y := 0; y < out.Height(); y++ {
				if !bytes.Equal(out.Row(y), img.Row(y)) {
					t.Errorf("row %d = %v, want all 200", y, out.Row(y))
				}
			}
		})
	}
}

func TestFilter_ZeroEdges(t *testing.T) {
	img := newGrayImage(t, 3, 3, uniform(9))
	box3, _ := BoxKernel(3)
	out, err := Filter(img, box3, matrix.EdgeZero)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	want := [][]byte{{4, 6, 4}, {6, 9, 6}, {4, 6, 4}}
	for y, row := range want {
		if !bytes.Equal(out.Row(y), row) {
			t.Errorf("row %d = %v, want %v", y, out.Row(y), row)
		}
	}
}

func TestFilter_KeepsFormat(t *testing.T) {
	tests := []struct {
		name string
		img  func(t *testing.T) *BufferedImage
	}{
		{"rgb32", func(t *testing.T) *BufferedImage {
			return newRGBImage(t, 4, 4, pixfmt.RGB32, solid(RGBPixel{10, 120, 230}))
		}},
		{"bgr24", func(t *testing.T) *BufferedImage {
			return newRGBImage(t, 4, 4, pixfmt.BGR24, solid(RGBPixel{10, 120, 230}))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := tt.img(t)
			out, err := Filter(img, GaussianKernel(), matrix.EdgeClamp)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			if out.Format() != img.Format() || out.Width() != 4 || out.Height() != 4 {
				t.Fatalf("got %dx%d %v", out.Width(), out.Height(), out.Format())
			}
			p, _ := PixelRGB(out, 3, 3)
			if p != (RGBPixel{10, 120, 230}) {
				t.Errorf("pixel = %+v, want {10 120 230}", p)
			}
		})
	}
}

func TestFilter_Gray16(t *testing.T) {
	v, err := NewVolatileImage(bytes.Repeat([]byte{0x80, 0x80}, 9), 3, 3, pixfmt.Gray16, 0)
	if err != nil {
		t.Fatalf("NewVolatileImage failed: %v", err)
	}
	out, err := Filter(v, SharpenKernel(), matrix.EdgeClamp)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if out.Format() != pixfmt.Gray16 {
		t.Fatalf("Format = %v, want gray16", out.Format())
	}
	if !bytes.Equal(out.Row(1), []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80}) {
		t.Errorf("row 1 = %v", out.Row(1))
	}
}

func TestFilter_InvalidKernel(t *testing.T) {
	img := newGrayImage(t, 3, 3, uniform(1))
	even, err := matrix.FromRows([][]int32{{1, 1}, {1, 1}})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	tests := []struct {
		name string
		k    Kernel
	}{
		{"empty", Kernel{Name: "empty"}},
		{"zero divisor", Kernel{Name: "zero", Weights: even, Divisor: 0}},
		{"even size", Kernel{Name: "even", Weights: even, Divisor: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Filter(img, tt.k, matrix.EdgeZero); !errors.Is(err, matrix.ErrInvalidKernel) {
				t.Errorf("got %v, want ErrInvalidKernel", err)
			}
		})
	}
}

func TestBoxKernel(t *testing.T) {
	k, err := BoxKernel(5)
	if err != nil {
		t.Fatalf("BoxKernel failed: %v", err)
	}
	if k.Divisor != 25 || k.Weights.Rows() != 5 || k.Name != "box5" {
		t.Errorf("got %+v", k)
	}
	for _, size := range []int{0, -3, 4} {
		if _, err := BoxKernel(size); !errors.Is(err, matrix.ErrInvalidKernel) {
			t.Errorf("BoxKernel(%d): got %v, want ErrInvalidKernel", size, err)
		}
	}
}

func TestGaussianKernel_Sum(t *testing.T) {
	k := GaussianKernel()
	var sum int32
	for y := 0; y < k.Weights.Rows(); y++ {
		for _, v := range k.Weights.Row(y) {
			sum += v
		}
	}
	if sum != k.Divisor || sum != 273 {
		t.Errorf("sum = %d, divisor = %d, want 273", sum, k.Divisor)
	}
}

func TestKernelByName(t *testing.T) {
	for _, name := range KernelNames() {
		k, err := KernelByName(name)
		if err != nil {
			t.Errorf("KernelByName(%q) failed: %v", name, err)
			continue
		}
		if k.Name != name {
			t.Errorf("KernelByName(%q).Name = %q", name, k.Name)
		}
	}
	if !slices.IsSorted(KernelNames()) {
		t.Error("KernelNames should be sorted")
	}
	if _, err := KernelByName("emboss"); err == nil {
		t.Error("unknown kernel should fail")
	}
}

// stepImage is dark on the left half and bright on the right half.
func stepImage(t *testing.T, w, h int) *BufferedImage {
	t.Helper()
	return newGrayImage(t, w, h, func(x, y int) uint8 {
		if x < w/2 {
			return 0
		}
		return 255
	})
}

func TestSobelMagnitude(t *testing.T) {
	flat, err := SobelMagnitude(newGrayImage(t, 5, 5, uniform(90)))
	if err != nil {
		t.Fatalf("SobelMagnitude failed: %v", err)
	}
	for y := 0; y < 5; y++ {
		if !bytes.Equal(flat.Row(y), make([]byte, 5)) {
			t.Errorf("uniform row %d = %v, want zeros", y, flat.Row(y))
		}
	}

	edges, err := SobelMagnitude(stepImage(t, 6, 6))
	if err != nil {
		t.Fatalf("SobelMagnitude failed: %v", err)
	}
	row := edges.Row(3)
	if row[0] != 0 || row[5] != 0 {
		t.Errorf("flat areas = %d, %d, want 0", row[0], row[5])
	}
	if row[2] != 255 || row[3] != 255 {
		t.Errorf("edge = %d, %d, want 255", row[2], row[3])
	}
}

func TestEdgeDetect_UniformImage(t *testing.T) {
	out, err := EdgeDetect(newGrayImage(t, 20, 20, uniform(128)), 50, 150)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}
	for y := 0; y < out.Height(); y++ {
		if !bytes.Equal(out.Row(y), make([]byte, 20)) {
			t.Fatalf("row %d has edges in a uniform image: %v", y, out.Row(y))
		}
	}
}

func TestEdgeDetect_StrongEdge(t *testing.T) {
	out, err := EdgeDetect(stepImage(t, 20, 20), 50, 150)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}
	if out.Format() != pixfmt.Gray8 || out.Width() != 20 || out.Height() != 20 {
		t.Fatalf("got %dx%d %v", out.Width(), out.Height(), out.Format())
	}
	edges := 0
	for y := 0; y < 20; y++ {
		row := out.Row(y)
		for x, v := range row {
			if v == 255 {
				edges++
			}
			if (x < 6 || x > 13) && v != 0 {
				t.Errorf("unexpected edge at (%d,%d)", x, y)
			}
		}
	}
	if edges == 0 {
		t.Error("expected edges along the step")
	}
}

func TestEdgeDetect_ColorInput(t *testing.T) {
	img := newRGBImage(t, 16, 16, pixfmt.BGR32, func(x, y int) RGBPixel {
		if y < 8 {
			return RGBPixel{0, 0, 0}
		}
		return RGBPixel{255, 255, 255}
	})
	out, err := EdgeDetect(img, 50, 150)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}
	if out.Format() != pixfmt.Gray8 {
		t.Errorf("Format = %v, want gray8", out.Format())
	}
}

func TestEdgeDetect_InvalidThresholds(t *testing.T) {
	img := newGrayImage(t, 4, 4, uniform(0))
	tests := []struct {
		name      string
		low, high int
	}{
		{"negative low", -1, 100},
		{"zero high", 0, 0},
		{"high below low", 150, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EdgeDetect(img, tt.low, tt.high); err == nil {
				t.Error("EdgeDetect should fail")
			}
		})
	}
}
