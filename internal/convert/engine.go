package convert

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ironsheep/image-core/internal/logger"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

var (
	// ErrUnsupportedFormat is returned when a fourcc cannot be resolved or no
	// transcoder handles the pair.
	ErrUnsupportedFormat = errors.New("convert: unsupported format")
	// ErrProbeFailure is returned when no destination size can be computed.
	ErrProbeFailure = errors.New("convert: probe failed")
	// ErrInvalidSource is returned for a malformed source descriptor.
	ErrInvalidSource = errors.New("convert: invalid source")
	// ErrBufferTooSmall is returned when a buffer cannot hold the image.
	ErrBufferTooSmall = errors.New("convert: buffer too small")
	// ErrInPlace is returned when a conversion cannot run in place.
	ErrInPlace = errors.New("convert: in-place conversion not possible")
)

// DefaultAlignment is the row alignment, in bytes, of transcoded output.
const DefaultAlignment = 4

// Source describes raw pixel data to read.
type Source struct {
	Data   []byte
	Width  int
	Height int
	FourCC pixfmt.FourCC
	// Stride is the number of bytes between rows. 0 means tightly packed.
	Stride int
}

// Target describes the buffer a transcoder writes to.
type Target struct {
	Data   []byte
	FourCC pixfmt.FourCC
	// Stride is the number of bytes between rows. 0 selects the engine's
	// aligned stride.
	Stride int
}

// Plane is a fully resolved buffer handed to a transcoder.
type Plane struct {
	Data   []byte
	Width  int
	Height int
	Stride int
	FourCC pixfmt.FourCC
}

// Func transcodes src into dst. Both planes have the same Width and Height.
// When called for an in-place conversion dst and src share storage, so an
// implementation must read each source pixel before writing the matching
// destination pixel and walk rows and columns forward.
type Func func(dst, src Plane) error

// Transcoder converts between sets of fourcc codes.
type Transcoder struct {
	Name    string
	From    []pixfmt.FourCC
	To      []pixfmt.FourCC
	Convert Func
}

type route struct {
	from, to pixfmt.FourCC
}

type registration struct {
	transcoder Transcoder
	priority   int
}

// Engine routes conversions to registered transcoders. It is immutable once
// built and safe for concurrent use.
type Engine struct {
	routes    map[route]registration
	alignment int
}

type config struct {
	builtins    bool
	alignment   int
	transcoders []registration
}

// Option configures an Engine.
type Option func(*config)

// WithTranscoder registers t for every (From, To) pair it lists. When two
// transcoders claim the same pair the higher priority wins; on a tie the
// later registration wins. Built-in transcoders have priority 0.
func WithTranscoder(t Transcoder, priority int) Option {
	return func(c *config) {
		c.transcoders = append(c.transcoders, registration{transcoder: t, priority: priority})
	}
}

// WithAlignment sets the row alignment of output buffers. Values below 1 are
// treated as 1.
func WithAlignment(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.alignment = n
	}
}

// WithoutBuiltins starts the engine with no transcoders registered.
func WithoutBuiltins() Option {
	return func(c *config) { c.builtins = false }
}

// New builds an engine from the built-in transcoders plus opts.
func New(opts ...Option) *Engine {
	c := config{builtins: true, alignment: DefaultAlignment}
	for _, opt := range opts {
		opt(&c)
	}

	e := &Engine{routes: make(map[route]registration), alignment: c.alignment}
	if c.builtins {
		for _, t := range Builtins() {
			e.register(registration{transcoder: t})
		}
	}
	for _, r := range c.transcoders {
		e.register(r)
	}
	return e
}

func (e *Engine) register(r registration) {
	for _, from := range r.transcoder.From {
		for _, to := range r.transcoder.To {
			key := route{from, to}
			if cur, ok := e.routes[key]; ok && cur.priority > r.priority {
				continue
			}
			e.routes[key] = r
		}
	}
}

var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns a shared engine with the built-in transcoders.
func Default() *Engine {
	return defaultEngine()
}

// Alignment returns the row alignment of output buffers in bytes.
func (e *Engine) Alignment() int {
	return e.alignment
}

// Supports reports whether a transcoder is registered for from -> to.
func (e *Engine) Supports(from, to pixfmt.FourCC) bool {
	_, ok := e.routes[route{from, to}]
	return ok
}

// TranscoderFor returns the name of the transcoder that handles from -> to.
func (e *Engine) TranscoderFor(from, to pixfmt.FourCC) (string, bool) {
	r, ok := e.routes[route{from, to}]
	return r.transcoder.Name, ok
}

// Stride returns the aligned row size for width pixels of code, or 0 if the
// code has no known layout.
func (e *Engine) Stride(code pixfmt.FourCC, width int) int {
	n := RowBytes(code, width)
	if n == 0 || n > math.MaxInt-e.alignment {
		return 0
	}
	return n + (e.alignment-n%e.alignment)%e.alignment
}

// Probe returns the number of bytes needed to hold src converted to dst, or
// 0 if the pair is unsupported or src is degenerate.
func (e *Engine) Probe(src Source, dst pixfmt.FourCC) int {
	if src.Width <= 0 || src.Height <= 0 {
		return 0
	}
	if RowBytes(src.FourCC, src.Width) == 0 || !e.Supports(src.FourCC, dst) {
		return 0
	}
	stride := e.Stride(dst, src.Width)
	if stride == 0 || src.Height > math.MaxInt/stride {
		return 0
	}
	return src.Height * stride
}

// Transcode converts src into dst.Data, which must not overlap src.Data, and
// returns the resolved destination plane.
func (e *Engine) Transcode(dst Target, src Source) (Plane, error) {
	reg, in, out, err := e.resolve(src, dst)
	if err != nil {
		return Plane{}, err
	}
	if len(out.Data) < out.Height*out.Stride {
		return Plane{}, fmt.Errorf("%w: have %d bytes, need %d",
			ErrBufferTooSmall, len(out.Data), out.Height*out.Stride)
	}
	out.Data = out.Data[:out.Height*out.Stride]
	if err := reg.transcoder.Convert(out, in); err != nil {
		return Plane{}, fmt.Errorf("%s: %w", reg.transcoder.Name, err)
	}
	return out, nil
}

// TranscodeInPlace converts src into its own storage. src.Data must be the
// whole writable buffer; the result starts at offset 0. Conversions whose
// pixels or rows grow are rejected with ErrInPlace, and the buffer is left
// untouched.
func (e *Engine) TranscodeInPlace(src Source, dst pixfmt.FourCC) (Plane, error) {
	reg, in, out, err := e.resolve(src, Target{Data: src.Data, FourCC: dst})
	if err != nil {
		return Plane{}, err
	}
	srcPx, dstPx := pixelBytes(src.FourCC), pixelBytes(dst)
	if dstPx > srcPx || out.Stride > in.Stride {
		return Plane{}, fmt.Errorf("%w: %v (%d bytes/px, stride %d) to %v (%d bytes/px, stride %d)",
			ErrInPlace, src.FourCC, srcPx, in.Stride, dst, dstPx, out.Stride)
	}
	if len(out.Data) < out.Height*out.Stride {
		return Plane{}, fmt.Errorf("%w: have %d bytes, need %d",
			ErrBufferTooSmall, len(out.Data), out.Height*out.Stride)
	}
	out.Data = out.Data[:out.Height*out.Stride]
	if err := reg.transcoder.Convert(out, in); err != nil {
		return Plane{}, fmt.Errorf("%s: %w", reg.transcoder.Name, err)
	}
	return out, nil
}

// resolve validates both descriptors and picks the transcoder.
func (e *Engine) resolve(src Source, dst Target) (registration, Plane, Plane, error) {
	reg, ok := e.routes[route{src.FourCC, dst.FourCC}]
	if !ok {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: %v to %v",
			ErrUnsupportedFormat, src.FourCC, dst.FourCC)
	}
	if src.Width <= 0 || src.Height <= 0 {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: %dx%d",
			ErrInvalidSource, src.Width, src.Height)
	}

	tight := RowBytes(src.FourCC, src.Width)
	if tight == 0 {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: %d pixels of %v do not fit a row",
			ErrInvalidSource, src.Width, src.FourCC)
	}
	stride := src.Stride
	if stride == 0 {
		stride = tight
	}
	if stride < tight {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: stride %d below row size %d",
			ErrInvalidSource, stride, tight)
	}
	if src.Height > math.MaxInt/stride {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: %d rows of %d bytes overflow",
			ErrInvalidSource, src.Height, stride)
	}
	if need := (src.Height-1)*stride + tight; len(src.Data) < need {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: source has %d bytes, need %d",
			ErrBufferTooSmall, len(src.Data), need)
	}

	dstStride := dst.Stride
	if dstStride == 0 {
		dstStride = e.Stride(dst.FourCC, src.Width)
	}
	dstTight := RowBytes(dst.FourCC, src.Width)
	if dstTight == 0 || dstStride < dstTight {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: target stride %d below row size %d",
			ErrInvalidSource, dstStride, dstTight)
	}
	if src.Height > math.MaxInt/dstStride {
		return registration{}, Plane{}, Plane{}, fmt.Errorf("%w: %d rows of %d bytes overflow",
			ErrInvalidSource, src.Height, dstStride)
	}

	logger.Get().Debug("transcode",
		"transcoder", reg.transcoder.Name,
		"from", src.FourCC.String(), "to", dst.FourCC.String(),
		"width", src.Width, "height", src.Height,
		"src_stride", stride, "dst_stride", dstStride)

	in := Plane{Data: src.Data, Width: src.Width, Height: src.Height, Stride: stride, FourCC: src.FourCC}
	out := Plane{Data: dst.Data, Width: src.Width, Height: src.Height, Stride: dstStride, FourCC: dst.FourCC}
	return reg, in, out, nil
}

// RowBytes returns the unpadded size of a row of width pixels, or 0 if the
// code has no known layout.
func RowBytes(code pixfmt.FourCC, width int) int {
	switch code {
	case pixfmt.FourCCYUYV, pixfmt.FourCCYUY2:
		// One 4-byte macropixel covers two pixels.
		if width > math.MaxInt/4*2-1 {
			return 0
		}
		return (width + 1) / 2 * 4
	}
	px := pixfmt.PixelSize(pixfmt.FormatFor(code))
	if px == 0 || width > math.MaxInt/px {
		return 0
	}
	return width * px
}

// pixelBytes is the average bytes per pixel used for in-place safety checks.
func pixelBytes(code pixfmt.FourCC) int {
	switch code {
	case pixfmt.FourCCYUYV, pixfmt.FourCCYUY2:
		return 2
	}
	return pixfmt.PixelSize(pixfmt.FormatFor(code))
}
