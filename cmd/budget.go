package cmd

import (
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/cli"

	"github.com/spf13/cobra"
)

var flagBudgetMonth string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show the monthly budget against the month's bills",
	Args:  cobra.NoArgs,
	RunE:  runBudget,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

func init() {
	budgetCmd.Flags().StringVarP(&flagBudgetMonth, "month", "m", "", "Month (YYYY-MM, default this month)")
	budgetCmd.AddCommand(budgetSetCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	month, err := monthOrCurrent(sess.ledger, flagBudgetMonth)
	if err != nil {
		return err
	}
	st := sess.ledger.Stats(month.MonthKey())

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Budget " + st.Month,
		Headers: []string{"", "Amount"},
		Rows: [][]string{
			{"Monthly budget", cli.FormatAmount(st.Budget)},
			{"Prioritized", cli.FormatAmount(st.Prioritized)},
			{"Headroom", cli.FormatAmount(st.Headroom())},
			{"---"},
			{"Outstanding", cli.FormatAmount(st.Outstanding)},
			{"Paid", cli.FormatAmount(st.Paid)},
			{"Funds", cli.FormatAmount(st.Funds)},
		},
		RightAlign: []bool{false, true},
	}))
	if bar := cli.RenderBudgetBar(st.Outstanding, st.Budget, 30); bar != "" {
		fmt.Println("  Outstanding " + bar)
	}
	return nil
}

func runBudgetSet(_ *cobra.Command, args []string) error {
	budget, err := parseAmount(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.ledger.SetMonthlyBudget(budget); err != nil {
		return err
	}
	fmt.Println(cli.RenderSuccess("Monthly budget set to " + cli.FormatAmount(budget)))
	return nil
}
