// Package cli provides the Cobra-based CLI for the perfume shop ledger.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/warp/perfume-ledger/config"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/telemetry"
)

var (
	v = viper.New()

	rootCmd = &cobra.Command{
		Use:           "perfumeria",
		Short:         "Stock ledger for a perfume shop",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// tests inject app
			if app != nil {
				return nil
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := telemetry.NewLogger(cfg.Server.Env)
			if err != nil {
				return err
			}
			app, err = NewApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			ownsApp = true
			return nil
		},
	}

	app     *App
	ownsApp bool
)

func init() {
	config.Setup(v)

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyEnv, "development", "environment: development|production")
	flags.String(config.KeyStore, "file", "store backend: memory|file|sqlite|postgres|redis")
	flags.String(config.KeyStoreDSN, "data", "directory, database path, URL or address of the store")
	flags.String(config.KeySeed, "default", "catalog used for missing collections: default|empty")
	flags.String(config.KeyKafkaBrokers, "", "comma-separated Kafka brokers for ledger events")
	flags.String(config.KeyKafkaTopic, "ledger-events", "Kafka topic for ledger events")
	flags.String(config.KeyJaegerEndpoint, "", "Jaeger collector endpoint")
	flags.String(config.KeyGeminiAPIKey, "", "Gemini API key for the analytics assistant")
	flags.String(config.KeyGeminiModel, "gemini-2.5-flash", "Gemini model")
	flags.String(config.KeyAnalyticsTimeout, "30s", "analytics request timeout")

	for _, key := range []string{
		config.KeyEnv, config.KeyStore, config.KeyStoreDSN, config.KeySeed,
		config.KeyKafkaBrokers, config.KeyKafkaTopic, config.KeyJaegerEndpoint,
		config.KeyGeminiAPIKey, config.KeyGeminiModel, config.KeyAnalyticsTimeout,
	} {
		v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newProductCmd(),
		newPurchaseCmd(),
		newSaleCmd(),
		newTesterCmd(),
		newCustomerCmd(),
		newReportCmd(),
		newCashFlowCmd(),
		newLowStockCmd(),
		newDashboardCmd(),
		newMovementsCmd(),
		newAskCmd(),
		newEventsCmd(),
	)
}

// Execute runs the root command and releases the app it built, also when
// the command failed (cobra skips post-run hooks on error).
func Execute() error {
	err := rootCmd.Execute()
	releaseApp()
	return err
}

func releaseApp() {
	if app == nil || !ownsApp {
		return
	}
	app.Close(context.Background())
	app.Logger.Sync()
	app = nil
	ownsApp = false
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printJSON(w io.Writer, data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// finish prints the result message and turns a refusal into a command error.
func finish(cmd *cobra.Command, res ledger.Result, data any) error {
	if !res.Success {
		return res.Err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
	if data == nil {
		return nil
	}
	return printJSON(cmd.OutOrStdout(), data)
}

func parseMoney(flag, s string) (ledger.Money, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", flag, s, err)
	}
	return d, nil
}

func parseDate(flag, s string) (ledger.Date, error) {
	if s == "" {
		return ledger.Date{}, nil
	}
	d, err := ledger.ParseDate(s)
	if err != nil {
		return ledger.Date{}, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return d, nil
}
