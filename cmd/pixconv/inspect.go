package main

import (
	"encoding/json"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-core/internal/imaging"
)

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <image>",
		Short: "Print dimensions, depth and suggested pixel format of an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := imaging.LoadImageInfo(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}
}

func newSampleCmd() *cobra.Command {
	var (
		in, as string
		x, y   int
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the color of one pixel as hex, RGB and HSL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openAs(in, as)
			if err != nil {
				return err
			}
			c, err := imaging.SampleColor(img, x, y)
			if err != nil {
				return err
			}
			return printJSON(cmd, c)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input image path")
	cmd.Flags().StringVar(&as, "as", "rgb24", "pixel format to load the image as")
	cmd.Flags().IntVar(&x, "x", 0, "x coordinate")
	cmd.Flags().IntVar(&y, "y", 0, "y coordinate")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// parsePalette parses a comma-separated list of hex colors.
func parsePalette(s string) ([]imaging.RGBPixel, error) {
	var out []imaging.RGBPixel
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := colorful.Hex(part)
		if err != nil {
			return nil, fmt.Errorf("invalid palette color %q: %w", part, err)
		}
		r, g, b := c.RGB255()
		out = append(out, imaging.RGBPixel{R: r, G: g, B: b})
	}
	return out, nil
}

type paletteMatch struct {
	imaging.ColorFrequency
	Nearest string `json:"nearest,omitempty"`
}

func newColorsCmd() *cobra.Command {
	var (
		in, palette string
		count       int
	)

	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Print the dominant colors of an image",
		Long: `Print the dominant colors of an image, most frequent first.

With --palette, every dominant color is also matched to the perceptually
nearest palette entry (CIE Lab distance).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pal, err := parsePalette(palette)
			if err != nil {
				return err
			}
			img, err := openAs(in, "rgb24")
			if err != nil {
				return err
			}
			colors, err := imaging.DominantColors(img, count, nil)
			if err != nil {
				return err
			}

			out := make([]paletteMatch, len(colors))
			for i, c := range colors {
				out[i].ColorFrequency = c
				if j := imaging.NearestColor(c.RGB, pal); j >= 0 {
					out[i].Nearest = pal[j].Hex()
				}
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input image path")
	cmd.Flags().IntVar(&count, "count", 5, "number of colors to report")
	cmd.Flags().StringVar(&palette, "palette", "", "comma-separated hex colors to match against")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var tolerance int

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare two images pixel by pixel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openAs(args[0], "rgb24")
			if err != nil {
				return err
			}
			b, err := openAs(args[1], "rgb24")
			if err != nil {
				return err
			}
			result, err := imaging.Compare(a, b, nil, nil, tolerance)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().IntVar(&tolerance, "tolerance", 10, "mean channel difference above which a pixel counts as different")
	return cmd
}
