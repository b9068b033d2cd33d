package cmd

import (
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/cli"

	"github.com/spf13/cobra"
)

var flagCalMonth string

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show a month calendar of due bills",
	RunE:    runCalendar,
}

func init() {
	calendarCmd.Flags().StringVarP(&flagCalMonth, "month", "m", "", "Month to show (YYYY-MM, default this month)")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(_ *cobra.Command, _ []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	month, err := monthOrCurrent(sess.ledger, flagCalMonth)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderCalendar(month, sess.ledger.BillsDueIn(month.MonthKey())))
	fmt.Println()
	return nil
}
