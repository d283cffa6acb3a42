package matrix

import (
	"errors"
	"testing"
)

func edgeKernel(t *testing.T) *Matrix[int] {
	t.Helper()
	return mustRows(t, [][]int{
		{-1, -1, -1},
		{-1, 5, -1},
		{-1, -1, -1},
	})
}

func gaussKernel(t *testing.T) *Matrix[int] {
	t.Helper()
	return mustRows(t, [][]int{
		{1, 1, 1, 1, 1},
		{1, 2, 2, 2, 1},
		{1, 2, 4, 2, 1},
		{1, 2, 2, 2, 1},
		{1, 1, 1, 1, 1},
	})
}

func TestConvolve(t *testing.T) {
	ramp := [][]int{{10, 20, 30}, {20, 30, 40}, {30, 40, 50}}
	flat := [][]int{{10, 10, 10}, {10, 10, 10}, {10, 10, 10}}

	tests := []struct {
		name   string
		input  [][]int
		kernel func(*testing.T) *Matrix[int]
		edge   EdgeHandling
		want   [][]int
	}{
		{
			name:   "edge kernel clamp",
			input:  ramp,
			kernel: edgeKernel,
			edge:   EdgeClamp,
			want:   [][]int{{-90, -90, -90}, {-90, -90, -90}, {-90, -90, -90}},
		},
		{
			name:   "edge kernel zero",
			input:  ramp,
			kernel: edgeKernel,
			edge:   EdgeZero,
			want:   [][]int{{-20, -30, 60}, {-30, -90, 30}, {60, 30, 140}},
		},
		{
			name:   "gauss 5x5 clamp",
			input:  flat,
			kernel: gaussKernel,
			edge:   EdgeClamp,
			want:   [][]int{{360, 360, 360}, {360, 360, 360}, {360, 360, 360}},
		},
		{
			name:   "gauss 5x5 zero",
			input:  flat,
			kernel: gaussKernel,
			edge:   EdgeZero,
			want:   [][]int{{150, 170, 150}, {170, 200, 170}, {150, 170, 150}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convolve[int](mustRows(t, tt.input), tt.kernel(t), tt.edge)
			if err != nil {
				t.Fatalf("Convolve failed: %v", err)
			}
			assertCells[int](t, got, tt.want)
		})
	}
}

func TestConvolve_PreservesShape(t *testing.T) {
	kernels := []*Matrix[float64]{}
	for _, size := range [][2]int{{1, 1}, {3, 3}, {5, 5}, {1, 3}, {7, 3}} {
		k, _ := New[float64](size[0], size[1])
		k.Fill(1)
		kernels = append(kernels, k)
	}
	shapes := [][2]int{{1, 1}, {2, 7}, {6, 4}, {9, 9}}

	for _, s := range shapes {
		m, _ := New[float64](s[0], s[1])
		for _, k := range kernels {
			got, err := Convolve[float64](m, k, EdgeClamp)
			if err != nil {
				t.Fatalf("Convolve %dx%d with %dx%d kernel failed: %v", s[0], s[1], k.Rows(), k.Cols(), err)
			}
			if got.Rows() != s[0] || got.Cols() != s[1] {
				t.Errorf("shape: got %dx%d, want %dx%d", got.Rows(), got.Cols(), s[0], s[1])
			}
		}
	}
}

func TestConvolve_InvalidKernel(t *testing.T) {
	m := mustRows(t, [][]int{{1, 2}, {3, 4}})
	tests := []struct {
		name   string
		kernel [][]int
	}{
		{"even width", [][]int{{1, 1}}},
		{"even height", [][]int{{1}, {1}}},
		{"empty", [][]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convolve[int](m, mustRows(t, tt.kernel), EdgeClamp)
			if !errors.Is(err, ErrInvalidKernel) {
				t.Errorf("got %v, want ErrInvalidKernel", err)
			}
		})
	}

	if _, err := Convolve[int](m, mustRows(t, [][]int{{1}}), EdgeHandling(9)); !errors.Is(err, ErrInvalidKernel) {
		t.Errorf("unknown edge: got %v, want ErrInvalidKernel", err)
	}
}

func TestConvolve_Parallel(t *testing.T) {
	SetParallelThreshold(1)
	t.Cleanup(func() { SetParallelThreshold(DefaultParallelThreshold) })

	m, _ := New[int](40, 40)
	m.Fill(10)
	got, err := Convolve[int](m, gaussKernel(t), EdgeClamp)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	for i := 0; i < got.Rows(); i++ {
		for j, v := range got.Row(i) {
			if v != 360 {
				t.Fatalf("cell (%d,%d) = %d, want 360", i, j, v)
			}
		}
	}
}

func TestConvolveInterleaved(t *testing.T) {
	// Two BGR pixels per row.
	m := mustRows(t, [][]int{
		{1, 2, 3, 4, 5, 6},
		{7, 8, 9, 10, 11, 12},
	})

	t.Run("shared identity kernel", func(t *testing.T) {
		k := mustRows(t, [][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
		got, err := ConvolveInterleaved[int](m, 3, k, 1, EdgeClamp)
		if err != nil {
			t.Fatalf("ConvolveInterleaved failed: %v", err)
		}
		if !Equal[int](got, m) {
			t.Errorf("identity kernel changed data: %v", got)
		}
	})

	t.Run("per-channel weights", func(t *testing.T) {
		k := mustRows(t, [][]int{{1, 10, 100}})
		got, err := ConvolveInterleaved[int](m, 3, k, 3, EdgeZero)
		if err != nil {
			t.Fatalf("ConvolveInterleaved failed: %v", err)
		}
		assertCells[int](t, got, [][]int{
			{1, 20, 300, 4, 50, 600},
			{7, 80, 900, 10, 110, 1200},
		})
	})

	t.Run("horizontal clamp stays within channel", func(t *testing.T) {
		k := mustRows(t, [][]int{{1, 0, 0}})
		got, err := ConvolveInterleaved[int](m, 3, k, 1, EdgeClamp)
		if err != nil {
			t.Fatalf("ConvolveInterleaved failed: %v", err)
		}
		// Each pixel takes its left neighbour; the first pixel replicates itself.
		assertCells[int](t, got, [][]int{
			{1, 2, 3, 1, 2, 3},
			{7, 8, 9, 7, 8, 9},
		})
	})

	t.Run("bad channel counts", func(t *testing.T) {
		k := mustRows(t, [][]int{{1}})
		if _, err := ConvolveInterleaved[int](m, 2, k, 1, EdgeClamp); !errors.Is(err, ErrInvalidKernel) {
			t.Errorf("channels=2: got %v, want ErrInvalidKernel", err)
		}
		if _, err := ConvolveInterleaved[int](m, 1, k, 3, EdgeClamp); !errors.Is(err, ErrInvalidKernel) {
			t.Errorf("kernelChannels=3: got %v, want ErrInvalidKernel", err)
		}
		odd := mustRows(t, [][]int{{1, 2, 3, 4, 5}})
		if _, err := ConvolveInterleaved[int](odd, 3, k, 1, EdgeClamp); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("ragged pixels: got %v, want ErrDimensionMismatch", err)
		}
	})
}

func TestEdgeHandling_String(t *testing.T) {
	if EdgeClamp.String() != "clamp" || EdgeZero.String() != "zero" {
		t.Errorf("got %q/%q", EdgeClamp, EdgeZero)
	}
}
