package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/screengrab-dev/screengrab-go"
)

// captureFlags holds the capture command's screenshot options.
type captureFlags struct {
	format    string
	quality   int
	width     int
	height    int
	fullPage  bool
	waitUntil string
	waitFor   string
	delay     int
	scale     float64
	blockAds  bool
}

func newCaptureCmd(cfg *viper.Viper) *cobra.Command {
	var (
		flags  captureFlags
		output string
		store  bool
	)

	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Capture a screenshot of a URL",
		Long: `Capture a screenshot of a URL.

By default the raw image bytes are written to --output (or stdout).
With --store the service persists the capture and the storage URL and
metadata are printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			req := buildCaptureRequest(args[0], flags)
			ctx := cmd.Context()

			if store {
				result, err := client.CaptureStored(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.URL)
				if !result.ExpiresAt.IsZero() {
					fmt.Fprintf(cmd.OutOrStdout(), "expires: %s\n", result.ExpiresAt.Format(time.RFC3339))
				}
				if result.Width > 0 && result.Height > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "size: %dx%d (%d bytes)\n", result.Width, result.Height, result.FileSize)
				}
				return nil
			}

			data, err := client.Capture(ctx, req)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			slog.Info("screenshot written", "path", output, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the image to this file instead of stdout")
	cmd.Flags().BoolVar(&store, "store", false, "persist the capture server-side and print its URL")
	cmd.Flags().StringVar(&flags.format, "format", "", "image format: png, jpeg, webp or pdf")
	cmd.Flags().IntVar(&flags.quality, "quality", 0, "lossy-format quality, 1-100")
	cmd.Flags().IntVar(&flags.width, "width", 0, "viewport width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", 0, "viewport height in pixels")
	cmd.Flags().BoolVar(&flags.fullPage, "full-page", false, "capture the full scroll height")
	cmd.Flags().StringVar(&flags.waitUntil, "wait-until", "", "load condition: load, domcontentloaded or networkidle")
	cmd.Flags().StringVar(&flags.waitFor, "wait-for", "", "wait for this CSS selector before capturing")
	cmd.Flags().IntVar(&flags.delay, "delay", 0, "extra wait in seconds after the load condition")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0, "device scale factor, e.g. 2 for retina")
	cmd.Flags().BoolVar(&flags.blockAds, "block-ads", false, "enable the service-side ad blocker")

	return cmd
}

// buildCaptureRequest maps command flags onto the API request. Store is
// left unset; the command picks the call path instead.
func buildCaptureRequest(target string, flags captureFlags) screengrab.CaptureRequest {
	return screengrab.CaptureRequest{
		URL:               target,
		Format:            screengrab.Format(flags.format),
		Quality:           flags.quality,
		ViewportWidth:     flags.width,
		ViewportHeight:    flags.height,
		FullPage:          flags.fullPage,
		WaitUntil:         screengrab.WaitUntil(flags.waitUntil),
		WaitForSelector:   flags.waitFor,
		Delay:             flags.delay,
		DeviceScaleFactor: flags.scale,
		BlockAds:          flags.blockAds,
	}
}
