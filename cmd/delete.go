package cmd

import (
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/ledger"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <bill>",
	Aliases: []string{"rm"},
	Short:   "Delete a bill and its reminder",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	b, err := resolveBill(sess.ledger, args[0])
	if err != nil {
		return err
	}
	ok, err := confirm(fmt.Sprintf("Delete %s due %s? This cannot be undone.", b.Name, b.Due))
	if err != nil {
		return err
	}

	switch sess.ledger.DeleteBill(b.ID, ok) {
	case ledger.DeleteDeclined:
		fmt.Println("  Kept " + b.Name + ".")
	case ledger.DeleteNotFound:
		return fmt.Errorf("%s: %w", b.Name, ledger.ErrNotFound)
	}
	return nil
}
