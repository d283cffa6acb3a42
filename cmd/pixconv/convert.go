package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-core/internal/convert"
	"github.com/ironsheep/image-core/internal/imaging"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

type rawInput struct {
	fourcc string
	width  int
	height int
	stride int
}

// load reads path either as raw pixels described by raw or as an encoded
// image file, producing an image of format target.
func (raw rawInput) load(path string, target pixfmt.Format) (*imaging.BufferedImage, error) {
	if raw.fourcc == "" {
		return imaging.Open(path, target)
	}
	code, err := pixfmt.ParseFourCC(raw.fourcc)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw image: %w", err)
	}
	var img imaging.BufferedImage
	src := convert.Source{Data: data, Width: raw.width, Height: raw.height, FourCC: code, Stride: raw.stride}
	if err := img.Load(src, target); err != nil {
		return nil, err
	}
	return &img, nil
}

// writeRaw writes the pixel rows of img without padding.
func writeRaw(path string, img imaging.Image) error {
	rowBytes := img.Width() * pixfmt.PixelSize(img.Format())
	out := make([]byte, 0, rowBytes*img.Height())
	for y := 0; y < img.Height(); y++ {
		out = append(out, img.Row(y)...)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write raw image: %w", err)
	}
	return nil
}

// store writes img to path: .raw files get bare pixel rows, anything else is
// encoded by extension.
func store(path string, img imaging.Image) error {
	if strings.EqualFold(filepath.Ext(path), ".raw") {
		return writeRaw(path, img)
	}
	return imaging.Save(img, path)
}

func newConvertCmd() *cobra.Command {
	var (
		in, out, to string
		raw         rawInput
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an image to another pixel format",
		Long: `Convert an image to another pixel format.

The input is decoded from its file format unless --raw names the fourcc of a
headerless pixel dump, in which case --width and --height are required. An
output path ending in .raw receives the converted rows without padding;
other extensions (.png, .jpg, .bmp) are encoded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := pixfmt.Parse(to)
			if err != nil {
				return err
			}
			img, err := raw.load(in, target)
			if err != nil {
				return err
			}
			if err := store(out, img); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s, stride %d\n",
				out, img.Width(), img.Height(), img.Format(), img.Stride())
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "input image path")
	cmd.Flags().StringVar(&out, "out", "", "output image path")
	cmd.Flags().StringVar(&to, "to", "rgb24", "target pixel format name or fourcc")
	cmd.Flags().StringVar(&raw.fourcc, "raw", "", "fourcc of a raw input file (e.g. YUYV, BGR3)")
	cmd.Flags().IntVar(&raw.width, "width", 0, "raw input width in pixels")
	cmd.Flags().IntVar(&raw.height, "height", 0, "raw input height in pixels")
	cmd.Flags().IntVar(&raw.stride, "stride", 0, "raw input row stride in bytes (0 = tightly packed)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	cmd.MarkFlagsRequiredTogether("raw", "width", "height")
	return cmd
}
