package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <bill>",
	Short: "Mark a bill as scheduled for payment on its due date",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return runSchedule(args[0], true) },
}

var unscheduleCmd = &cobra.Command{
	Use:   "unschedule <bill>",
	Short: "Withdraw a bill's scheduled payment",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return runSchedule(args[0], false) },
}

func init() {
	rootCmd.AddCommand(scheduleCmd, unscheduleCmd)
}

func runSchedule(ref string, scheduled bool) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	b, err := resolveBill(sess.ledger, ref)
	if err != nil {
		return err
	}
	if scheduled {
		_, err = sess.ledger.ScheduleBill(b.ID)
	} else {
		_, err = sess.ledger.UnscheduleBill(b.ID)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name, err)
	}
	return nil
}
