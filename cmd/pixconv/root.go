package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-core/internal/imaging"
	"github.com/ironsheep/image-core/internal/logger"
	"github.com/ironsheep/image-core/internal/pixfmt"
)

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "pixconv",
		Short: "pixconv - inspect and convert raw and encoded images between pixel formats",
		Long: `pixconv - inspect and convert raw and encoded images between pixel formats

Environment variables:
  IMAGECORE_LOG_LEVEL=debug    Enable debug logging`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// stdout carries command output
			log.SetOutput(os.Stderr)
			log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

			if debug || os.Getenv("IMAGECORE_LOG_LEVEL") == "debug" {
				logger.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
				log.Printf("pixconv v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
			}
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("pixconv {{.Version}}\n  Build time: %s\n  Git commit: %s\n", BuildTime, GitCommit))
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newFormatsCmd(),
		newProbeCmd(),
		newConvertCmd(),
		newInfoCmd(),
		newSampleCmd(),
		newColorsCmd(),
		newCropCmd(),
		newFilterCmd(),
		newCompareCmd(),
	)
	return root
}

// openAs decodes an image file and loads it as the named format.
func openAs(path, format string) (*imaging.BufferedImage, error) {
	f, err := pixfmt.Parse(format)
	if err != nil {
		return nil, err
	}
	return imaging.Open(path, f)
}
