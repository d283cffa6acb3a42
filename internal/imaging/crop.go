package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-core/internal/convert"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

// Crop copies the rectangle (x1,y1)-(x2,y2) of img into a new buffered image
// of the same format. A scale other than 1 resamples the result with a
// Lanczos filter.
func Crop(img Image, x1, y1, x2, y2 int, scale float64, opts ...Option) (*BufferedImage, error) {
	if x1 < 0 || y1 < 0 || x2 > img.Width() || y2 > img.Height() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, img.Width(), img.Height())
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	px := pixfmt.PixelSize(img.Format())
	if px == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, img.Format())
	}

	region, err := img.Buffer().Region(y1, x1*px, y2-y1, (x2-x1)*px)
	if err != nil {
		return nil, fmt.Errorf("failed to crop: %w", err)
	}
	cropped := newBuffered(opts)
	err = cropped.Load(convert.Source{
		Data:   region.Storage(),
		Width:  x2 - x1,
		Height: y2 - y1,
		FourCC: pixfmt.FourCCFor(img.Format()),
		Stride: region.Step(),
	}, img.Format())
	if err != nil {
		return nil, err
	}

	if scale == 1.0 || scale <= 0 {
		return cropped, nil
	}
	newWidth := int(float64(cropped.Width()) * scale)
	newHeight := int(float64(cropped.Height()) * scale)
	if newWidth < 1 || newHeight < 1 {
		return nil, fmt.Errorf("scale %.3f collapses %dx%d crop", scale, cropped.Width(), cropped.Height())
	}
	std, err := ToImage(cropped)
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(std, newWidth, newHeight, imaging.Lanczos)
	return FromImage(resized, img.Format(), opts...)
}

// CropQuadrant extracts a named region from an image.
//
// Regions: top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half and center (the middle 50%).
func CropQuadrant(img Image, region string, scale float64, opts ...Option) (*BufferedImage, error) {
	w := img.Width()
	h := img.Height()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return nil, fmt.Errorf("unknown region: %s", region)
	}

	return Crop(img, x1, y1, x2, y2, scale, opts...)
}
