package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/perfume-ledger/ledger"
	"github.com/warp/perfume-ledger/views"
)

// periodFlags registers --from/--to on cmd and returns a resolver that
// defaults to the 30 days ending at --to (today when unset).
func periodFlags(cmd *cobra.Command) func() (ledger.Period, error) {
	var from, to string
	cmd.Flags().StringVar(&from, "from", "", "start date YYYY-MM-DD (default 30 days before --to)")
	cmd.Flags().StringVar(&to, "to", "", "end date YYYY-MM-DD (default today)")
	return func() (ledger.Period, error) {
		end := ledger.DateOf(app.Engine.Now())
		if d, err := parseDate("to", to); err != nil {
			return ledger.Period{}, err
		} else if !d.IsZero() {
			end = d
		}
		period := ledger.LastDays(end, 30)
		if d, err := parseDate("from", from); err != nil {
			return ledger.Period{}, err
		} else if !d.IsZero() {
			period.Start = d
		}
		if period.End.Before(period.Start) {
			return ledger.Period{}, fmt.Errorf("invalid range: --to %s is before --from %s", period.End, period.Start)
		}
		return period, nil
	}
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "report <kind>",
		Short:     "Build a sales, inventory or profit report",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"sales", "inventory", "profit"},
	}
	period := periodFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		kind, err := views.ParseReportKind(args[0])
		if err != nil {
			return err
		}
		p, err := period()
		if err != nil {
			return err
		}
		report, err := views.BuildReport(kind, app.Engine.Snapshot(), p)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	}
	return cmd
}

func newCashFlowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Cash flow with running balance",
	}
	period := periodFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := period()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), views.CashFlow(app.Engine.Snapshot(), p))
	}
	return cmd
}

func newLowStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lowstock",
		Short: "Products with 1 to 3 units left",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range views.LowStock(app.Engine.Snapshot().Products) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %s | %d\n", p.ID, p.Name, p.Stock)
			}
			return nil
		},
	}
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Stock value, revenue, profit and top products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), views.BuildDashboard(app.Engine.Snapshot()))
		},
	}
}

func newMovementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "movements <sku>",
		Short: "Movement history of a product with stock after each one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movements, err := views.Movements(app.Engine.Snapshot(), args[0])
			if err != nil {
				return err
			}
			for _, m := range movements {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %-17s | %+d | %d | %s\n",
					m.Date, m.Kind, m.Quantity, m.StockAfter, m.Details)
			}
			return nil
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant about the shop's data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer := app.Analytics.Ask(cmd.Context(), strings.Join(args, " "), app.Engine.Snapshot())
			fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			return nil
		},
	}
}
