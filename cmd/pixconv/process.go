package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-core/internal/imaging"
	"github.com/ironsheep/image-core/internal/matrix"
)

func newCropCmd() *cobra.Command {
	var (
		in, out, as, region string
		rect                []int
		scale               float64
	)

	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Crop a rectangle or named region of an image",
		Long: `Crop a rectangle or named region of an image.

Either --rect x1,y1,x2,y2 or --region is required. Regions: top-left,
top-right, bottom-left, bottom-right, top-half, bottom-half, left-half,
right-half, center.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openAs(in, as)
			if err != nil {
				return err
			}
			var cropped *imaging.BufferedImage
			switch {
			case region != "":
				cropped, err = imaging.CropQuadrant(img, region, scale)
			case len(rect) == 4:
				cropped, err = imaging.Crop(img, rect[0], rect[1], rect[2], rect[3], scale)
			default:
				return fmt.Errorf("--rect needs four values or --region must be set")
			}
			if err != nil {
				return err
			}
			if err := store(out, cropped); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s\n", out, cropped.Width(), cropped.Height(), cropped.Format())
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input image path")
	cmd.Flags().StringVar(&out, "out", "", "output image path")
	cmd.Flags().StringVar(&as, "as", "rgb24", "pixel format to load the image as")
	cmd.Flags().StringVar(&region, "region", "", "named region to crop")
	cmd.Flags().IntSliceVar(&rect, "rect", nil, "rectangle x1,y1,x2,y2 (x2,y2 exclusive)")
	cmd.Flags().Float64Var(&scale, "scale", 1.0, "resample factor applied after cropping")
	cmd.MarkFlagsMutuallyExclusive("rect", "region")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func parseEdge(s string) (matrix.EdgeHandling, error) {
	switch s {
	case "zero":
		return matrix.EdgeZero, nil
	case "clamp":
		return matrix.EdgeClamp, nil
	}
	return 0, fmt.Errorf("unknown edge handling %q (want zero or clamp)", s)
}

func newFilterCmd() *cobra.Command {
	var (
		in, out, as, kernel, edge string
		low, high                 int
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Apply a convolution kernel or edge detector",
		Long: fmt.Sprintf(`Apply a convolution kernel or edge detector.

Kernels: %s.
"sobel" writes the gradient magnitude and "edges" runs Canny-style edge
detection with --low and --high thresholds; both produce gray8 output.`,
			strings.Join(imaging.KernelNames(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openAs(in, as)
			if err != nil {
				return err
			}

			var result *imaging.BufferedImage
			switch kernel {
			case "sobel":
				result, err = imaging.SobelMagnitude(img)
			case "edges":
				result, err = imaging.EdgeDetect(img, low, high)
			default:
				k, kerr := imaging.KernelByName(kernel)
				if kerr != nil {
					return kerr
				}
				e, eerr := parseEdge(edge)
				if eerr != nil {
					return eerr
				}
				result, err = imaging.Filter(img, k, e)
			}
			if err != nil {
				return err
			}
			if err := store(out, result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d %s\n", out, result.Width(), result.Height(), result.Format())
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input image path")
	cmd.Flags().StringVar(&out, "out", "", "output image path")
	cmd.Flags().StringVar(&as, "as", "rgb24", "pixel format to load the image as")
	cmd.Flags().StringVar(&kernel, "kernel", "gaussian", "kernel name, sobel or edges")
	cmd.Flags().StringVar(&edge, "edge", "clamp", "border handling: zero or clamp")
	cmd.Flags().IntVar(&low, "low", 50, "low hysteresis threshold for edges")
	cmd.Flags().IntVar(&high, "high", 150, "high hysteresis threshold for edges")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
