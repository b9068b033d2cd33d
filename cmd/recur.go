package cmd

import (
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/cli"

	"github.com/spf13/cobra"
)

var recurCmd = &cobra.Command{
	Use:   "recur <bill>",
	Short: "Create next month's copy of a monthly bill",
	Long: "Create next month's copy of a monthly bill. Nothing happens when the\n" +
		"bill does not repeat monthly or next month's copy already exists.",
	Args: cobra.ExactArgs(1),
	RunE: runRecur,
}

func init() {
	rootCmd.AddCommand(recurCmd)
}

func runRecur(_ *cobra.Command, args []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	b, err := resolveBill(sess.ledger, args[0])
	if err != nil {
		return err
	}
	if _, ok := sess.ledger.GenerateNextRecurrence(b.ID); !ok {
		fmt.Println(cli.RenderInfo(fmt.Sprintf("No new bill: %s is %s and next month's copy may already exist",
			b.Name, cli.FormatRecurrence(b.RecurringRule))))
	}
	return nil
}
