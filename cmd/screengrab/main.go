// Package main is the screengrab command line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/screengrab-dev/screengrab-go"
	"github.com/screengrab-dev/screengrab-go/internal/logging"
)

func main() {
	logger := logging.SetDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("screengrab command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "screengrab",
		Short:         "Capture screenshots with the Screengrab API",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("api-key", "", "Screengrab API key (env: SCREENGRAB_API_KEY)")
	root.PersistentFlags().String("base-url", "", "override the API origin (env: SCREENGRAB_BASE_URL)")
	root.PersistentFlags().Duration("timeout", 60*time.Second, "per-request timeout")

	cfg := viper.New()
	cfg.SetEnvPrefix("SCREENGRAB")
	cfg.AutomaticEnv()
	_ = cfg.BindPFlag("api_key", root.PersistentFlags().Lookup("api-key"))
	_ = cfg.BindPFlag("base_url", root.PersistentFlags().Lookup("base-url"))
	_ = cfg.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(newCaptureCmd(cfg))
	root.AddCommand(newUsageCmd(cfg))
	root.AddCommand(newVersionCmd())

	return root
}

// newClient builds an API client from the resolved configuration.
func newClient(cfg *viper.Viper) (*screengrab.Client, error) {
	apiKey := cfg.GetString("api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set --api-key or SCREENGRAB_API_KEY")
	}

	opts := []screengrab.Option{
		screengrab.WithLogger(logging.New()),
		screengrab.WithTimeout(cfg.GetDuration("timeout")),
	}
	if baseURL := cfg.GetString("base_url"); baseURL != "" {
		opts = append(opts, screengrab.WithBaseURL(baseURL))
	}

	return screengrab.New(apiKey, opts...)
}
