package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagAddDue       string
	flagAddCategory  string
	flagAddMonthly   bool
	flagAddManual    bool
	flagAddScheduled bool
)

var addCmd = &cobra.Command{
	Use:   "add <name> <amount>",
	Short: "Add a bill",
	Example: `  billbuddy add Meralco 2500 --due 2024-01-20 --category Utilities --monthly
  billbuddy add "Car insurance" 18000 --due 2024-03-01 --scheduled`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Category, e.g. Utilities, Telco, Streaming")
	addCmd.Flags().BoolVar(&flagAddMonthly, "monthly", false, "Repeat monthly; the next bill is created when this one is paid")
	addCmd.Flags().BoolVar(&flagAddManual, "manual", false, "With --monthly, only create the next bill via `billbuddy recur`")
	addCmd.Flags().BoolVar(&flagAddScheduled, "scheduled", false, "Mark as scheduled for payment")
	_ = addCmd.MarkFlagRequired("due")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	nb, err := newBillFromArgs(args[0], args[1], flagAddDue)
	if err != nil {
		return err
	}
	nb.Category = strings.TrimSpace(flagAddCategory)
	nb.Scheduled = flagAddScheduled
	if flagAddMonthly {
		nb.Recurring = model.RecurringRule{Interval: model.IntervalMonthly, AutoGenerate: !flagAddManual}
	}

	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	if dup, ok := sess.ledger.FindBill(nb.Name, nb.Amount, nb.Due); ok {
		fmt.Println(cli.RenderWarn(fmt.Sprintf("A matching bill already exists (%s)", cli.ShortID(dup.ID))))
	}

	b := sess.ledger.CreateBill(nb)
	if !flagQuiet {
		fmt.Println(cli.RenderInfo("id " + b.ID))
	}
	return nil
}

// newBillFromArgs validates user input; the ledger itself accepts anything.
func newBillFromArgs(name, amount, due string) (ledger.NewBill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.NewBill{}, errors.New("name is required")
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return ledger.NewBill{}, err
	}
	if !amt.IsPositive() {
		return ledger.NewBill{}, fmt.Errorf("amount %s: %w", amount, ledger.ErrInvalidAmount)
	}
	d, err := model.ParseDate(due)
	if err != nil {
		return ledger.NewBill{}, fmt.Errorf("due date %q: want YYYY-MM-DD", due)
	}
	return ledger.NewBill{Name: name, Amount: amt, Due: d}, nil
}
