package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/spf13/cobra"
)

var flagPayAmount string

var payCmd = &cobra.Command{
	Use:   "pay <bill>",
	Short: "Pay a bill in full, or partially with --amount",
	Long: "Pay a bill from funds. <bill> is an id, id prefix, or name.\n" +
		"Paying off a monthly bill creates next month's bill.",
	Args: cobra.ExactArgs(1),
	RunE: runPay,
}

func init() {
	payCmd.Flags().StringVarP(&flagPayAmount, "amount", "a", "", "Pay only this much")
	rootCmd.AddCommand(payCmd)
}

func runPay(_ *cobra.Command, args []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()
	l := sess.ledger

	b, err := resolveBill(l, args[0])
	if err != nil {
		return err
	}

	var paid model.Bill
	if flagPayAmount != "" {
		amount, perr := parseAmount(flagPayAmount)
		if perr != nil {
			return perr
		}
		paid, err = l.ProcessPartialPayment(b.ID, amount)
	} else {
		paid, err = l.PayInFull(b.ID)
	}
	if err != nil {
		return explainPayment(b, err, l)
	}

	if !flagQuiet {
		fmt.Println(cli.RenderInfo(fmt.Sprintf("%s remaining on %s; funds %s",
			cli.FormatAmount(paid.AmountRemaining), paid.Name, cli.FormatAmount(l.Funds()))))
	}
	return nil
}

func explainPayment(b model.Bill, err error, l *ledger.Ledger) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fmt.Errorf("%s: %w (funds %s, remaining %s); add funds with `billbuddy funds add`",
			b.Name, err, cli.FormatAmount(l.Funds()), cli.FormatAmount(b.AmountRemaining))
	case errors.Is(err, ledger.ErrExceedsRemaining):
		return fmt.Errorf("%s: %w (remaining %s)", b.Name, err, cli.FormatAmount(b.AmountRemaining))
	default:
		return fmt.Errorf("%s: %w", b.Name, err)
	}
}
