package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/warp/perfume-ledger/broker"
	"github.com/warp/perfume-ledger/ledger"
)

func newEventsCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow ledger events from Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config.Kafka
			if len(cfg.Brokers) == 0 {
				return errors.New("no Kafka brokers configured (--kafka-brokers)")
			}
			consumer := broker.NewConsumer(cfg.Brokers, cfg.Topic, group)
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := consumer.Consume(ctx, func(ctx context.Context, ev ledger.Event) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %-14s product=%s stock=%d tester=%d\n",
					ev.At.Format("2006-01-02T15:04:05"), ev.Kind, ev.EntityID, ev.ProductID, ev.Stock, ev.TesterStock)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&group, "group", "perfumeria-cli", "consumer group id")
	return cmd
}
