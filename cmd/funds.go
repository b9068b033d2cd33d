package cmd

import (
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/cli"

	"github.com/spf13/cobra"
)

var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "Show the funds balance used for payments",
	Args:  cobra.NoArgs,
	RunE:  runFunds,
}

var fundsAddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Add money to the funds balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runFundsAdd,
}

func init() {
	fundsCmd.AddCommand(fundsAddCmd)
	rootCmd.AddCommand(fundsCmd)
}

func runFunds(_ *cobra.Command, _ []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	fmt.Printf("  Funds: %s\n", cli.FormatAmount(sess.ledger.Funds()))
	return nil
}

func runFundsAdd(_ *cobra.Command, args []string) error {
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.ledger.AddFunds(amount); err != nil {
		return fmt.Errorf("amount %s: %w", args[0], err)
	}
	fmt.Printf("  Funds: %s\n", cli.FormatAmount(sess.ledger.Funds()))
	return nil
}
