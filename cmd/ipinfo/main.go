package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/config"
	"github.com/evyataryagoni/publicip-mcp/internal/handler"
	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/provider"
	"github.com/evyataryagoni/publicip-mcp/internal/service"
	"github.com/spf13/cobra"
)

// errLookupFailed makes the process exit non-zero after a failure reply was printed
var errLookupFailed = errors.New("lookup failed")

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the one-shot lookup command
// A nil looker means a real provider client built from config and flags.
func newRootCmd(looker handler.Looker) *cobra.Command {
	appConfig := config.Load()

	var (
		providerURL string
		timeout     time.Duration
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:           "ipinfo",
		Short:         "Print this host's public IP address and approximate location",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(logger.Config{
				Level:  logLevel,
				Pretty: appConfig.LogPretty,
				Output: cmd.ErrOrStderr(),
			})

			if looker == nil {
				client := provider.NewClient(provider.Config{
					URL:       providerURL,
					UserAgent: appConfig.ProviderUserAgent,
					Timeout:   timeout,
				}, nil, log)
				looker = service.NewIPService(client, nil, nil, log)
			}

			text, isError := handler.Render(looker.Lookup(cmd.Context()))
			fmt.Fprintln(cmd.OutOrStdout(), text)
			if isError {
				return errLookupFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&providerURL, "url", appConfig.ProviderURL, "geolocation provider endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Duration(appConfig.ProviderTimeout)*time.Second, "provider request timeout, 0 for none")
	cmd.Flags().StringVar(&logLevel, "log-level", appConfig.LogLevel, "log level (debug, info, warn, error)")

	return cmd
}
