package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-core/internal/pixfmt"
)

func TestToImage_Gray8(t *testing.T) {
	v, err := NewVolatileImage([]byte{1, 2, 3, 0, 4, 5, 6, 0}, 3, 2, pixfmt.Gray8, 4)
	if err != nil {
		t.Fatalf("NewVolatileImage failed: %v", err)
	}
	std, err := ToImage(v)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	g, ok := std.(*image.Gray)
	if !ok {
		t.Fatalf("got %T, want *image.Gray", std)
	}
	if got := g.GrayAt(2, 1).Y; got != 6 {
		t.Errorf("GrayAt(2,1) = %d, want 6", got)
	}
}

func TestToImage_Gray16(t *testing.T) {
	v, err := NewVolatileImage([]byte{0x34, 0x12, 0xff, 0x00}, 2, 1, pixfmt.Gray16, 0)
	if err != nil {
		t.Fatalf("NewVolatileImage failed: %v", err)
	}
	std, err := ToImage(v)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	g := std.(*image.Gray16)
	if got := g.Gray16At(0, 0).Y; got != 0x1234 {
		t.Errorf("Gray16At(0,0) = %#x, want 0x1234", got)
	}
	if got := g.Gray16At(1, 0).Y; got != 0x00ff {
		t.Errorf("Gray16At(1,0) = %#x, want 0xff", got)
	}
}

func TestToImage_Color(t *testing.T) {
	v, err := NewVolatileImage(bgrPixels, 3, 3, pixfmt.BGR24, 0)
	if err != nil {
		t.Fatalf("NewVolatileImage failed: %v", err)
	}
	std, err := ToImage(v)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	n := std.(*image.NRGBA)
	if got, want := n.NRGBAAt(0, 0), (color.NRGBA{12, 50, 10, 255}); got != want {
		t.Errorf("NRGBAAt(0,0) = %v, want %v", got, want)
	}
	if got, want := n.NRGBAAt(2, 2), (color.NRGBA{44, 2, 88, 255}); got != want {
		t.Errorf("NRGBAAt(2,2) = %v, want %v", got, want)
	}
}

func TestToImage_UnknownFormat(t *testing.T) {
	var b BufferedImage
	if _, err := ToImage(&b); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestFromImage_Gray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 2))
	copy(g.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	b, err := FromImage(g, pixfmt.Gray8)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if !bytes.Equal(b.Row(1), []byte{5, 6, 7, 8}) {
		t.Errorf("row 1 = %v", b.Row(1))
	}

	sub := g.SubImage(image.Rect(1, 0, 3, 2))
	b, err = FromImage(sub, pixfmt.Gray8)
	if err != nil {
		t.Fatalf("FromImage(sub) failed: %v", err)
	}
	if b.Width() != 2 || !bytes.Equal(b.Row(0), []byte{2, 3}) || !bytes.Equal(b.Row(1), []byte{6, 7}) {
		t.Errorf("sub image rows = %v %v", b.Row(0), b.Row(1))
	}
}

func TestFromImage_Color(t *testing.T) {
	n := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	n.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	n.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 255})

	b, err := FromImage(n, pixfmt.BGR24)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if b.Format() != pixfmt.BGR24 {
		t.Errorf("Format = %v, want bgr24", b.Format())
	}
	if !bytes.Equal(b.Row(0), []byte{30, 20, 10, 50, 100, 200}) {
		t.Errorf("row 0 = %v", b.Row(0))
	}
}

func TestToImage_FromImage_RoundTrip(t *testing.T) {
	src := newRGBImage(t, 5, 4, pixfmt.RGB24, func(x, y int) RGBPixel {
		return RGBPixel{uint8(x * 40), uint8(y * 60), 7}
	})
	std, err := ToImage(src)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	back, err := FromImage(std, pixfmt.RGB24)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	for y := 0; y < 4; y++ {
		if !bytes.Equal(back.Row(y), src.Row(y)) {
			t.Errorf("row %d = %v, want %v", y, back.Row(y), src.Row(y))
		}
	}
}
