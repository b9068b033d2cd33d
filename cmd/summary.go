package cmd

import (
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/prioritize"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "This month's bills, funds and budget at a glance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()
	l := sess.ledger

	month := l.CurrentMonth()
	st := l.Stats(month)
	due := l.BillsDueIn(month)

	fmt.Println()
	fmt.Println(cli.RenderTitle("BILLBUDDY  " + month))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Funds", cli.FormatAmount(st.Funds)},
			{"Monthly budget", cli.FormatAmount(st.Budget)},
			{"Outstanding", cli.FormatAmount(st.Outstanding)},
			{"Prioritized", cli.FormatAmount(st.Prioritized)},
			{"Headroom", cli.FormatAmount(st.Headroom())},
			{"---"},
			{"Open bills", cli.FormatNumber(int64(st.OpenBills))},
			{"Paid bills", cli.FormatNumber(int64(st.PaidBills))},
			{"Strategy", prioritize.StrategyFor(l.Weighted()).String()},
		},
		RightAlign: []bool{false, true},
	}))
	if bar := cli.RenderBudgetBar(st.Prioritized, st.Budget, 30); bar != "" {
		fmt.Println("  " + bar)
	}
	fmt.Println()

	if len(due) == 0 {
		fmt.Println("  No bills due this month. Add one with `billbuddy add`.")
		return nil
	}
	fmt.Print(cli.RenderTable(cli.BillTable("Due this month", due)))
	return nil
}
