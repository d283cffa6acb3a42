package imaging

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-core/internal/convert"
	"github.com/ironsheep/image-core/internal/matrix"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

var (
	// ErrUnsupportedFormat is returned when a pixel format has no fourcc or a
	// format pair has no transcoder.
	ErrUnsupportedFormat = convert.ErrUnsupportedFormat
	// ErrProbeFailure is returned when the engine cannot size a conversion.
	ErrProbeFailure = convert.ErrProbeFailure
	// ErrAllocationFailure is returned when the destination buffer cannot be
	// allocated.
	ErrAllocationFailure = matrix.ErrAllocation
	// ErrConversionFailure is returned when transcoding fails on every path.
	// The image is left empty.
	ErrConversionFailure = errors.New("imaging: conversion failed")
	// ErrInvalidDimensions is returned for negative sizes or buffers too small
	// for the declared dimensions.
	ErrInvalidDimensions = errors.New("imaging: invalid dimensions")
)

// Image is a pixel-format-aware 2D byte buffer.
//
// Rows are Stride bytes apart; Row returns only the Width*PixelSize bytes that
// hold pixels. The Descriptor method exposes the buffer in the shape the
// conversion engine and external collaborators exchange.
type Image interface {
	Width() int
	Height() int
	Stride() int
	Format() pixfmt.Format
	Empty() bool
	Row(y int) []byte
	Buffer() matrix.Reader[uint8]
	Descriptor() convert.Source
}

// VolatileImage is a view over caller-owned memory. It never allocates or
// copies; the caller must keep the wrapped slice alive and unchanged while
// the view is in use.
type VolatileImage struct {
	view   *matrix.View[uint8]
	data   []byte
	width  int
	height int
	format pixfmt.Format
}

// NewVolatileImage wraps data as an image of the given format. A stride of 0
// means tightly packed rows.
func NewVolatileImage(data []byte, width, height int, format pixfmt.Format, stride int) (*VolatileImage, error) {
	px := pixfmt.PixelSize(format)
	if px == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	view, err := matrix.Wrap(data, height, width*px, stride)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}
	return &VolatileImage{view: view, data: data, width: width, height: height, format: format}, nil
}

// Width returns the width in pixels.
func (v *VolatileImage) Width() int {
	return v.width
}

// Height returns the height in pixels.
func (v *VolatileImage) Height() int {
	return v.height
}

// Stride returns the row stride in bytes.
func (v *VolatileImage) Stride() int {
	return v.view.Step()
}

// Format returns the pixel format.
func (v *VolatileImage) Format() pixfmt.Format {
	return v.format
}

// Empty reports whether the image holds no pixels.
func (v *VolatileImage) Empty() bool {
	return v.width == 0 || v.height == 0
}

// Row returns the pixel bytes of row y, without padding.
func (v *VolatileImage) Row(y int) []byte {
	return v.view.Row(y)
}

// Buffer exposes the pixel rows as a byte matrix.
func (v *VolatileImage) Buffer() matrix.Reader[uint8] {
	return v.view
}

// Descriptor returns the wrapped memory as a conversion source.
func (v *VolatileImage) Descriptor() convert.Source {
	return convert.Source{
		Data:   v.data,
		Width:  v.width,
		Height: v.height,
		FourCC: pixfmt.FourCCFor(v.format),
		Stride: v.view.Step(),
	}
}

// alignStride pads a row of n bytes to a multiple of alignment.
func alignStride(n, alignment int) int {
	return n + (alignment-n%alignment)%alignment
}
