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
	flagEditName      string
	flagEditAmount    string
	flagEditDue       string
	flagEditCategory  string
	flagEditScheduled bool
	flagEditRecur     string
)

var editCmd = &cobra.Command{
	Use:   "edit <bill>",
	Short: "Change a bill's details",
	Long: "Change a bill's details. Only the flags you pass are applied.\n" +
		"Changing the amount keeps what was already paid.",
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&flagEditName, "name", "", "New name")
	editCmd.Flags().StringVar(&flagEditAmount, "amount", "", "New total amount")
	editCmd.Flags().StringVar(&flagEditDue, "due", "", "New due date (YYYY-MM-DD)")
	editCmd.Flags().StringVar(&flagEditCategory, "category", "", "New category")
	editCmd.Flags().BoolVar(&flagEditScheduled, "scheduled", false, "Scheduled for payment")
	editCmd.Flags().StringVar(&flagEditRecur, "recur", "", "Recurrence: none, monthly, or manual")
	rootCmd.AddCommand(editCmd)
}

// buildPatch turns the changed flags into a ledger patch.
func buildPatch(flags interface{ Changed(string) bool }) (ledger.BillPatch, error) {
	var p ledger.BillPatch
	if flags.Changed("name") {
		name := strings.TrimSpace(flagEditName)
		if name == "" {
			return p, errors.New("name cannot be empty")
		}
		p.Name = &name
	}
	if flags.Changed("amount") {
		amt, err := parseAmount(flagEditAmount)
		if err != nil {
			return p, err
		}
		if !amt.IsPositive() {
			return p, fmt.Errorf("amount %s: %w", flagEditAmount, ledger.ErrInvalidAmount)
		}
		p.Amount = &amt
	}
	if flags.Changed("due") {
		d, err := model.ParseDate(flagEditDue)
		if err != nil {
			return p, fmt.Errorf("due date %q: want YYYY-MM-DD", flagEditDue)
		}
		p.Due = &d
	}
	if flags.Changed("category") {
		c := strings.TrimSpace(flagEditCategory)
		p.Category = &c
	}
	if flags.Changed("scheduled") {
		s := flagEditScheduled
		p.Scheduled = &s
	}
	if flags.Changed("recur") {
		var rule model.RecurringRule
		switch strings.ToLower(flagEditRecur) {
		case "none":
			rule = model.NoRecurrence
		case "monthly":
			rule = model.Monthly
		case "manual":
			rule = model.RecurringRule{Interval: model.IntervalMonthly}
		default:
			return p, fmt.Errorf("recur %q: want none, monthly, or manual", flagEditRecur)
		}
		p.RecurringRule = &rule
	}
	return p, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	patch, err := buildPatch(cmd.Flags())
	if err != nil {
		return err
	}

	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	b, err := resolveBill(sess.ledger, args[0])
	if err != nil {
		return err
	}
	if b.Status == model.StatusCanceled {
		return fmt.Errorf("%s: %w", b.Name, ledger.ErrCanceled)
	}
	if b.Status == model.StatusPaid && (patch.Amount != nil || patch.Scheduled != nil) {
		fmt.Println(cli.RenderWarn(b.Name + " is paid; amount and scheduled are left unchanged"))
	}

	updated, ok := sess.ledger.UpdateBill(b.ID, patch)
	if !ok {
		return fmt.Errorf("%s: %w", b.Name, ledger.ErrNotFound)
	}
	fmt.Print(cli.RenderTable(cli.BillTable("Updated", []model.Bill{updated})))
	return nil
}
