package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-core/internal/convert"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

// sourceCodes are the fourcc codes the default engine reads.
func sourceCodes() []pixfmt.FourCC {
	codes := []pixfmt.FourCC{}
	for _, d := range pixfmt.All() {
		codes = append(codes, d.FourCC)
	}
	return append(codes, pixfmt.FourCCYUYV, pixfmt.FourCCYUY2)
}

func newFormatsCmd() *cobra.Command {
	var routes bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List registered pixel formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFOURCC\tCOLOR\tCHANNELS\tBITS\tBYTES/PX")
			for _, d := range pixfmt.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
					d.Name, d.FourCC, d.Color, d.Channels, d.Bits(), d.PixelSize)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !routes {
				return nil
			}

			e := convert.Default()
			fmt.Fprintln(cmd.OutOrStdout())
			w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FROM\tTO\tTRANSCODER")
			for _, from := range sourceCodes() {
				for _, d := range pixfmt.All() {
					if name, ok := e.TranscoderFor(from, d.FourCC); ok {
						fmt.Fprintf(w, "%s\t%s\t%s\n", from, d.FourCC, name)
					}
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&routes, "routes", false, "also list the transcoder for every supported pair")
	return cmd
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <src-fourcc> <dst-fourcc> <width> <height>",
		Short: "Print the buffer size needed to convert an image",
		Long: `Print the buffer size needed to convert a width x height image from one
fourcc to another. A size of 0 means the conversion is not supported.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pixfmt.ParseFourCC(args[0])
			if err != nil {
				return err
			}
			dst, err := pixfmt.ParseFourCC(args[1])
			if err != nil {
				return err
			}
			width, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid width: %w", err)
			}
			height, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid height: %w", err)
			}

			e := convert.Default()
			size := e.Probe(convert.Source{Width: width, Height: height, FourCC: src}, dst)
			fmt.Fprintf(cmd.OutOrStdout(), "%d bytes (stride %d)\n", size, e.Stride(dst, width))
			return nil
		},
	}
}
