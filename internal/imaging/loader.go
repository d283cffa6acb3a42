package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/ironsheep/image-core/internal/pixfmt"
)

// Open decodes an image file and loads it as target.
//
// Supported inputs are whatever image.Decode knows after imports: PNG, JPEG,
// GIF, BMP, TIFF and WebP.
func Open(path string, target pixfmt.Format, opts ...Option) (*BufferedImage, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return FromImage(src, target, opts...)
}

// Save encodes img to path. The encoder is chosen from the file extension:
// .png, .jpg/.jpeg (quality 95) or .bmp.
func Save(img Image, path string) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}
	std, err := ToImage(img)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, std, enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func encoderFor(path string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	}
	return nil, fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the file format detected from the extension: "png", "jpeg",
	// "gif", "bmp", "tiff", "webp" or "unknown".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// PixelFormat is the registry format that holds the image without losing
	// channels or depth.
	PixelFormat pixfmt.Format `json:"pixel_format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo decodes path and reports its dimensions and layout.
//
// # Color Depth Detection
//
// Depth and alpha are determined by the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64 -> "16-bit", alpha
//   - *image.Gray16 -> "16-bit"
//   - *image.RGBA, *image.NRGBA -> "8-bit", alpha
//   - All other types -> "8-bit"
func LoadImageInfo(path string) (*ImageInfo, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	case ".tif", ".tiff":
		format = "tiff"
	case ".webp":
		format = "webp"
	}

	info := &ImageInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        format,
		ColorDepth:    "8-bit",
		PixelFormat:   pixfmt.RGB24,
		FileSizeBytes: stat.Size(),
	}
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		info.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	case *image.Gray:
		info.PixelFormat = pixfmt.Gray8
	case *image.Gray16:
		info.ColorDepth = "16-bit"
		info.PixelFormat = pixfmt.Gray16
	}
	return info, nil
}
