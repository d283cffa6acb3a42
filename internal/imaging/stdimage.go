package imaging

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/image-core/internal/convert"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

// ToImage copies img into a standard library image: *image.Gray for Gray8,
// *image.Gray16 for Gray16 and an opaque *image.NRGBA for every color format.
func ToImage(img Image) (image.Image, error) {
	rect := image.Rect(0, 0, img.Width(), img.Height())
	switch img.Format() {
	case pixfmt.Gray8:
		out := image.NewGray(rect)
		for y := 0; y < img.Height(); y++ {
			copy(out.Pix[y*out.Stride:], img.Row(y))
		}
		return out, nil

	case pixfmt.Gray16:
		out := image.NewGray16(rect)
		for y := 0; y < img.Height(); y++ {
			row := img.Row(y)
			dst := out.Pix[y*out.Stride:]
			for x := 0; x < img.Width(); x++ {
				// image.Gray16 is big-endian.
				binary.BigEndian.PutUint16(dst[x*2:], binary.LittleEndian.Uint16(row[x*2:]))
			}
		}
		return out, nil

	case pixfmt.RGB24, pixfmt.RGB32, pixfmt.BGR24, pixfmt.BGR32:
		out := image.NewNRGBA(rect)
		px := pixfmt.PixelSize(img.Format())
		ri, bi := 0, 2
		if d, _ := pixfmt.Describe(img.Format()); d.Color == pixfmt.BGR {
			ri, bi = 2, 0
		}
		for y := 0; y < img.Height(); y++ {
			row := img.Row(y)
			dst := out.Pix[y*out.Stride:]
			for x := 0; x < img.Width(); x++ {
				s, d := x*px, x*4
				dst[d], dst[d+1], dst[d+2], dst[d+3] = row[s+ri], row[s+1], row[s+bi], 0xff
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, img.Format())
}

// FromImage loads any image.Image into a buffered image of the target format.
//
// *image.Gray sources are loaded directly as Gray8. Everything else is
// normalized to RGBA first and loaded as RGB32; alpha is dropped and
// translucent pixels keep their premultiplied values.
func FromImage(src image.Image, target pixfmt.Format, opts ...Option) (*BufferedImage, error) {
	b := newBuffered(opts)
	bounds := src.Bounds()

	var err error
	switch s := src.(type) {
	case *image.Gray:
		err = b.Load(convert.Source{
			Data:   s.Pix,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			FourCC: pixfmt.FourCCGrey,
			Stride: s.Stride,
		}, pixfmt.Gray8)
	default:
		rgba := clone.AsRGBA(src)
		err = b.Load(convert.Source{
			Data:   rgba.Pix,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			FourCC: pixfmt.FourCCRGB32,
			Stride: rgba.Stride,
		}, pixfmt.RGB32)
	}
	if err != nil {
		return nil, err
	}
	if err := b.Convert(target); err != nil {
		return nil, err
	}
	return b, nil
}
