package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newUsageCmd(cfg *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show the account's usage and rate-limit state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			usage, err := client.Usage(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "screenshots: %d of %d used, %d remaining\n",
				usage.ScreenshotsTaken, usage.ScreenshotsLimit, usage.ScreenshotsRemaining)
			if !usage.PeriodStart.IsZero() || !usage.PeriodEnd.IsZero() {
				fmt.Fprintf(out, "billing period: %s to %s\n",
					usage.PeriodStart.Format(time.RFC3339), usage.PeriodEnd.Format(time.RFC3339))
			}

			if rl := client.RateLimit(); rl != nil {
				if rl.Limit != nil && rl.Remaining != nil {
					fmt.Fprintf(out, "rate limit: %d of %d remaining", *rl.Remaining, *rl.Limit)
					if d := rl.UntilReset(); d > 0 {
						fmt.Fprintf(out, ", resets in %s", d.Round(time.Second))
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
}
