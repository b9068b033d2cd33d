package cmd

import (
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <bill>",
	Short: "Cancel a subscription so it stops recurring",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(_ *cobra.Command, args []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	b, err := resolveBill(sess.ledger, args[0])
	if err != nil {
		return err
	}
	if b.Status == model.StatusPaid {
		return fmt.Errorf("%s: %w", b.Name, ledger.ErrAlreadyPaid)
	}
	ok, err := confirm(fmt.Sprintf("Cancel %s due %s? It will stop recurring.", b.Name, b.Due))
	if err != nil {
		return err
	}

	res, err := sess.ledger.CancelSubscription(b.ID, ok)
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name, err)
	}
	if res == ledger.CancelDeclined {
		fmt.Println("  Kept " + b.Name + ".")
	}
	return nil
}
