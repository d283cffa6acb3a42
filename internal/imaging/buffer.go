package imaging

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-core/internal/convert"
	"github.com/ironsheep/image-core/internal/logger"
	"github.com/ironsheep/image-core/internal/matrix"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

// BufferedImage owns its pixel storage.
//
// The zero value is an empty image that uses the default conversion engine.
// A BufferedImage is not safe for concurrent mutation.
type BufferedImage struct {
	buf    matrix.Matrix[uint8]
	width  int
	height int
	format pixfmt.Format
	engine *convert.Engine
}

// Option configures a BufferedImage.
type Option func(*BufferedImage)

// WithEngine selects the conversion engine used by Load and Convert.
func WithEngine(e *convert.Engine) Option {
	return func(b *BufferedImage) { b.engine = e }
}

// NewBufferedImage allocates a zeroed image with aligned rows.
func NewBufferedImage(width, height int, format pixfmt.Format, opts ...Option) (*BufferedImage, error) {
	b := newBuffered(opts)
	px := pixfmt.PixelSize(format)
	if px == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := b.buf.ResizeStep(height, width*px, alignStride(width*px, b.eng().Alignment())); err != nil {
		return nil, fmt.Errorf("failed to allocate image: %w", err)
	}
	b.width, b.height, b.format = width, height, format
	return b, nil
}

// NewBufferedImageFrom copies src into a new buffered image of the same
// format.
func NewBufferedImageFrom(src Image, opts ...Option) (*BufferedImage, error) {
	b := newBuffered(opts)
	if err := b.Load(src.Descriptor(), src.Format()); err != nil {
		return nil, err
	}
	return b, nil
}

func newBuffered(opts []Option) *BufferedImage {
	b := &BufferedImage{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *BufferedImage) eng() *convert.Engine {
	if b.engine == nil {
		return convert.Default()
	}
	return b.engine
}

// Width returns the width in pixels.
func (b *BufferedImage) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *BufferedImage) Height() int {
	return b.height
}

// Stride returns the row stride in bytes.
func (b *BufferedImage) Stride() int {
	return b.buf.Step()
}

// Format returns the pixel format.
func (b *BufferedImage) Format() pixfmt.Format {
	return b.format
}

// Empty reports whether the image holds no pixels.
func (b *BufferedImage) Empty() bool {
	return b.width == 0 || b.height == 0
}

// Row returns the pixel bytes of row y, without padding.
func (b *BufferedImage) Row(y int) []byte {
	return b.buf.Row(y)
}

// Buffer exposes the pixel rows as a byte matrix.
func (b *BufferedImage) Buffer() matrix.Reader[uint8] {
	return &b.buf
}

// Descriptor returns the owned storage as a conversion source. The slice is
// invalidated by the next Load, Convert or Clear.
func (b *BufferedImage) Descriptor() convert.Source {
	return convert.Source{
		Data:   b.bytes(),
		Width:  b.width,
		Height: b.height,
		FourCC: pixfmt.FourCCFor(b.format),
		Stride: b.buf.Step(),
	}
}

func (b *BufferedImage) bytes() []byte {
	return b.buf.Storage()[:b.height*b.buf.Step()]
}

// Clone returns a deep copy of b.
func (b *BufferedImage) Clone() (*BufferedImage, error) {
	return NewBufferedImageFrom(b, WithEngine(b.engine))
}

// Clear releases the storage and leaves the image empty.
func (b *BufferedImage) Clear() {
	b.buf.Release()
	b.width, b.height = 0, 0
	b.format = pixfmt.Unknown
}

// Pixel returns a copy of the bytes of the pixel at (x, y).
func (b *BufferedImage) Pixel(x, y int) ([]byte, error) {
	return pixelBytes(b, x, y)
}

// Convert changes the pixel format of b.
//
// # Behavior
//
//  1. Converting to the current format is a no-op.
//  2. Unknown source or target formats, and pairs the engine cannot probe,
//     fail with ErrUnsupportedFormat or ErrProbeFailure. b is untouched.
//  3. When the target pixels and rows are no wider than the source, the
//     conversion runs in place in the existing allocation.
//  4. Otherwise the old buffer is moved aside, a new one is allocated with
//     4-byte aligned rows, and the pixels are transcoded into it.
//
// If step 4 fails the image is cleared and the error wraps
// ErrConversionFailure, or ErrAllocationFailure if the new buffer could not be
// allocated. The pre-conversion pixels are not restored.
func (b *BufferedImage) Convert(target pixfmt.Format) error {
	if b.format == target {
		return nil
	}
	srcCode := pixfmt.FourCCFor(b.format)
	if srcCode == 0 {
		return fmt.Errorf("%w: source format %v", ErrUnsupportedFormat, b.format)
	}
	dstCode := pixfmt.FourCCFor(target)
	if dstCode == 0 {
		return fmt.Errorf("%w: target format %v", ErrUnsupportedFormat, target)
	}
	dstPixel := int(pixfmt.Bits(target) / 8)
	if dstPixel == 0 {
		return fmt.Errorf("%w: target format %v has no pixel size", ErrUnsupportedFormat, target)
	}

	e := b.eng()
	dstStride := alignStride(b.width*dstPixel, e.Alignment())
	src := b.Descriptor()
	if e.Probe(src, dstCode) == 0 {
		return fmt.Errorf("%w: %v to %v at %dx%d", ErrProbeFailure, b.format, target, b.width, b.height)
	}

	log := logger.Get()
	if b.buf.Cap() > 0 {
		in := src
		in.Data = b.buf.Storage()
		plane, err := e.TranscodeInPlace(in, dstCode)
		switch {
		case err == nil:
			if err := b.buf.Reshape(b.height, b.width*dstPixel, plane.Stride); err != nil {
				b.fail(err)
				return fmt.Errorf("%w: %w", ErrConversionFailure, err)
			}
			log.Debug("converted in place", "from", b.format.String(), "to", target.String(),
				"stride", plane.Stride)
			b.format = target
			return nil
		case errors.Is(err, convert.ErrInPlace), errors.Is(err, convert.ErrBufferTooSmall):
			log.Debug("in-place conversion not possible", "reason", err)
		default:
			// The transcoder ran and may have written partial output.
			b.fail(err)
			return fmt.Errorf("%w: %w", ErrConversionFailure, err)
		}
	}

	var old matrix.Matrix[uint8]
	b.buf.MoveTo(&old)
	if err := b.buf.ResizeStep(b.height, b.width*dstPixel, dstStride); err != nil {
		b.fail(err)
		return fmt.Errorf("failed to allocate converted image: %w", err)
	}
	log.Debug("converting into new buffer", "from", b.format.String(), "to", target.String(),
		"bytes", b.height*dstStride)

	_, err := e.Transcode(convert.Target{Data: b.bytes(), FourCC: dstCode, Stride: dstStride}, src)
	if err != nil {
		b.fail(err)
		return fmt.Errorf("%w: %w", ErrConversionFailure, err)
	}
	b.format = target
	return nil
}

// Load replaces the content of b with src converted to target.
//
// When src.FourCC is 0 or already names target the rows are copied directly
// with the target's stride; the caller asserts the bytes are in that layout.
// Any other source code goes through the conversion engine. Any failure
// leaves b empty. Load always allocates fresh storage, so src may alias b's
// current buffer.
func (b *BufferedImage) Load(src convert.Source, target pixfmt.Format) error {
	err := b.load(src, target)
	if err != nil {
		b.fail(err)
	}
	return err
}

func (b *BufferedImage) load(src convert.Source, target pixfmt.Format) error {
	dstCode := pixfmt.FourCCFor(target)
	if dstCode == 0 {
		return fmt.Errorf("%w: target format %v", ErrUnsupportedFormat, target)
	}
	if src.Width <= 0 || src.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, src.Width, src.Height)
	}
	e := b.eng()
	rowBytes := src.Width * pixfmt.PixelSize(target)
	stride := alignStride(rowBytes, e.Alignment())

	// Keep the previous storage alive until the copy is done.
	var old matrix.Matrix[uint8]
	b.buf.MoveTo(&old)

	if src.FourCC == 0 || src.FourCC == dstCode {
		view, err := matrix.Wrap(src.Data, src.Height, rowBytes, src.Stride)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
		}
		if err := b.buf.ResizeStep(src.Height, rowBytes, stride); err != nil {
			return fmt.Errorf("failed to allocate image: %w", err)
		}
		if err := matrix.Copy[uint8](&b.buf, view); err != nil {
			return fmt.Errorf("failed to copy pixels: %w", err)
		}
		b.width, b.height, b.format = src.Width, src.Height, target
		return nil
	}

	if e.Probe(src, dstCode) == 0 {
		return fmt.Errorf("%w: %v to %v at %dx%d", ErrProbeFailure, src.FourCC, target, src.Width, src.Height)
	}
	if err := b.buf.ResizeStep(src.Height, rowBytes, stride); err != nil {
		return fmt.Errorf("failed to allocate image: %w", err)
	}
	b.width, b.height = src.Width, src.Height
	if _, err := e.Transcode(convert.Target{Data: b.bytes(), FourCC: dstCode, Stride: stride}, src); err != nil {
		return fmt.Errorf("%w: %w", ErrConversionFailure, err)
	}
	b.format = target
	return nil
}

// fail clears b after an unrecoverable conversion error.
func (b *BufferedImage) fail(err error) {
	if !b.Empty() || b.buf.Cap() > 0 {
		logger.Get().Warn("image cleared after failed conversion", "error", err)
	}
	b.Clear()
}
