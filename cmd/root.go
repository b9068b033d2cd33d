// Package cmd implements the billbuddy CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/config"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/logging"
	"github.com/theirongolddev/billbuddy/internal/model"
	"github.com/theirongolddev/billbuddy/internal/prioritize"
	"github.com/theirongolddev/billbuddy/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDBPath   string
	flagYes      bool
	flagLogLevel string
	flagQuiet    bool
)

// cfg is loaded once per invocation before any command runs.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "billbuddy",
	Short: "Bill tracker and budgeting assistant",
	Long: "Track bills, schedule and pay them from a funds balance, and prioritize\n" +
		"what to pay this month against a monthly budget.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "State database path (default "+store.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress notices")
}

func loadSettings(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Config unreadable, using defaults: %v\n", err)
	} else {
		cfg = loaded
	}

	level := flagLogLevel
	if level == "" {
		level = config.LogLevel(cfg)
	}
	logging.Setup(level)
	if cfg.General.AssumeYes {
		flagYes = true
	}
	return nil
}

// session is an open store plus the ledger it backs.
type session struct {
	store  *store.Store
	ledger *ledger.Ledger
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("closing state db", "err", err)
	}
}

func dbPath() string {
	switch {
	case flagDBPath != "":
		return flagDBPath
	case cfg.General.DBPath != "":
		return cfg.General.DBPath
	default:
		return store.DefaultPath()
	}
}

// openSession opens the state database and loads the ledger. A fresh
// database starts from the budget settings in the config file.
func openSession(n ledger.Notifier) (*session, error) {
	path := dbPath()
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	saved, found, err := st.Load()
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if !found {
		saved = model.State{
			Version:                   model.SchemaVersion,
			MonthlyBudget:             decimal.Zero,
			Funds:                     decimal.Zero,
			UseWeightedPrioritization: cfg.Budget.Weighted,
		}
		if cfg.Budget.Monthly != nil {
			saved.MonthlyBudget = decimal.NewFromFloat(*cfg.Budget.Monthly)
		}
	}

	l := ledger.Open(saved,
		ledger.WithSaver(st),
		ledger.WithNotifier(n),
		ledger.WithLogger(slog.Default()),
		ledger.WithWeights(prioritize.DefaultWeights().With(cfg.Prioritize.Weights)),
	)
	slog.Debug("ledger opened", "db", path, "bills", len(l.Bills()), "fresh", !found)
	return &session{store: st, ledger: l}, nil
}

// printNotices is the notifier used by one-shot commands.
var printNotices = ledger.NotifierFunc(func(n ledger.Notice) {
	if flagQuiet {
		return
	}
	switch n.Level {
	case ledger.LevelSuccess:
		fmt.Println(cli.RenderSuccess(n.Message))
	case ledger.LevelWarn:
		fmt.Println(cli.RenderWarn(n.Message))
	default:
		fmt.Println(cli.RenderInfo(n.Message))
	}
})

// confirm asks a yes/no question unless --yes was given.
func confirm(prompt string) (bool, error) {
	if flagYes {
		return true, nil
	}
	ok := false
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// resolveBill finds a bill by id, unique id prefix, or name. Names prefer
// the earliest open bill.
func resolveBill(l *ledger.Ledger, ref string) (model.Bill, error) {
	ref = strings.TrimSpace(ref)
	if b, ok := l.FindBillByID(ref); ok {
		return b, nil
	}

	var matches []model.Bill
	for _, b := range l.Bills() {
		if strings.HasPrefix(b.ID, ref) {
			matches = append(matches, b)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	if b, ok := l.FindOpenByName(ref); ok {
		return b, nil
	}
	bills := l.Bills()
	for i := len(bills) - 1; i >= 0; i-- {
		if strings.EqualFold(bills[i].Name, ref) {
			return bills[i], nil
		}
	}
	if len(matches) > 1 {
		return model.Bill{}, fmt.Errorf("%q matches %d bills; use a longer id", ref, len(matches))
	}
	return model.Bill{}, fmt.Errorf("%q: %w", ref, ledger.ErrNotFound)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number", s)
	}
	return d, nil
}

// monthOrCurrent validates a YYYY-MM flag value, defaulting to this month.
func monthOrCurrent(l *ledger.Ledger, month string) (model.Date, error) {
	if month == "" {
		month = l.CurrentMonth()
	}
	m, err := model.ParseMonth(month)
	if err != nil {
		return model.Date{}, fmt.Errorf("month %q: want YYYY-MM", month)
	}
	return m, nil
}
