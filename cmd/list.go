package cmd

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagListMonth  string
	flagListStatus string
	flagListOpen   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "bills"},
	Short:   "List bills",
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListMonth, "month", "m", "", "Only bills due in this month (YYYY-MM)")
	listCmd.Flags().StringVarP(&flagListStatus, "status", "s", "", "Only bills with this status (pending, scheduled, partial, paid, canceled)")
	listCmd.Flags().BoolVar(&flagListOpen, "open", false, "Hide paid and canceled bills")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	status := model.Status(flagListStatus)
	if flagListStatus != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", flagListStatus)
	}

	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	bills := sess.ledger.Bills()
	if flagListMonth != "" {
		m, err := monthOrCurrent(sess.ledger, flagListMonth)
		if err != nil {
			return err
		}
		bills = sess.ledger.BillsDueIn(m.MonthKey())
	}
	bills = slices.DeleteFunc(bills, func(b model.Bill) bool {
		return (flagListStatus != "" && b.Status != status) || (flagListOpen && b.Status.Closed())
	})
	slices.SortStableFunc(bills, func(a, b model.Bill) int { return a.Due.Compare(b.Due) })

	if len(bills) == 0 {
		fmt.Println("\n  No bills found.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.BillTable(fmt.Sprintf("Bills (%d)", len(bills)), bills)))
	return nil
}
