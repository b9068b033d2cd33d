package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/prioritize"

	"github.com/spf13/cobra"
)

var (
	flagPrioMonth    string
	flagPrioBudget   string
	flagPrioWeighted bool
	flagPrioSimple   bool
)

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize",
	Short: "Flag the bills that fit this month's budget",
	Long: "Rank the open bills due in a month and flag them greedily until the\n" +
		"monthly budget is used up. --budget also saves the new monthly budget;\n" +
		"--weighted and --simple also save the strategy.",
	RunE: runPrioritize,
}

func init() {
	prioritizeCmd.Flags().StringVarP(&flagPrioMonth, "month", "m", "", "Month to prioritize (YYYY-MM, default this month)")
	prioritizeCmd.Flags().StringVarP(&flagPrioBudget, "budget", "b", "", "Monthly budget to use and save")
	prioritizeCmd.Flags().BoolVar(&flagPrioWeighted, "weighted", false, "Rank by category weight and scheduling")
	prioritizeCmd.Flags().BoolVar(&flagPrioSimple, "simple", false, "Rank scheduled first, then smallest balance")
	prioritizeCmd.MarkFlagsMutuallyExclusive("weighted", "simple")
	rootCmd.AddCommand(prioritizeCmd)
}

func runPrioritize(_ *cobra.Command, _ []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()
	l := sess.ledger

	month, err := monthOrCurrent(l, flagPrioMonth)
	if err != nil {
		return err
	}
	if flagPrioBudget != "" {
		budget, err := parseAmount(flagPrioBudget)
		if err != nil {
			return err
		}
		if err := l.SetMonthlyBudget(budget); err != nil {
			return err
		}
	}
	switch {
	case flagPrioWeighted && !l.Weighted():
		l.SetWeighted(true)
	case flagPrioSimple && l.Weighted():
		l.SetWeighted(false)
	}

	budget := l.MonthlyBudget()
	if budget.IsZero() && flagPrioBudget == "" {
		return errors.New("no monthly budget set; pass --budget or run `billbuddy budget set`")
	}

	res := l.Prioritize(month.MonthKey(), budget)
	if len(res.Decisions) == 0 {
		fmt.Printf("\n  No open bills due in %s.\n", res.Month)
		return nil
	}

	headers := []string{"#", "Bill", "Outstanding", "Selected"}
	align := []bool{true, false, true, false}
	if res.Strategy == prioritize.Weighted {
		headers = []string{"#", "Bill", "Outstanding", "Score", "Selected"}
		align = []bool{true, false, true, true, false}
	}
	rows := make([][]string, 0, len(res.Decisions)+2)
	for i, d := range res.Decisions {
		mark := ""
		if d.Selected {
			mark = "★"
		}
		row := []string{strconv.Itoa(i + 1), d.Name, cli.FormatAmount(d.Outstanding)}
		if res.Strategy == prioritize.Weighted {
			row = append(row, strconv.FormatFloat(d.Score, 'f', 3, 64))
		}
		rows = append(rows, append(row, mark))
	}
	rows = append(rows, []string{"---"})
	total := []string{"", "TOTAL", cli.FormatAmount(res.Total)}
	if res.Strategy == prioritize.Weighted {
		total = append(total, "")
	}
	rows = append(rows, append(total, fmt.Sprintf("%d", len(res.Selected()))))

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PRIORITIZED  %s  %s", res.Month, res.Strategy)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows, RightAlign: align}))
	fmt.Println("  " + cli.RenderBudgetBar(res.Total, res.Budget, 30))
	return nil
}
