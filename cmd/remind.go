package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/daemon"
	"github.com/theirongolddev/billbuddy/internal/model"
	"github.com/theirongolddev/billbuddy/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagRemindDays     int
	flagRemindWatch    bool
	flagRemindInterval time.Duration
	flagRemindAddr     string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Show bills due soon, or watch for them",
	Long: "List open bills whose reminder falls within the next --days days,\n" +
		"overdue ones included. With --watch, keep polling the database and\n" +
		"print each reminder once; --addr also serves /v1/status and /v1/events.",
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().IntVarP(&flagRemindDays, "days", "d", -1, "Reminder horizon in days (default from config)")
	remindCmd.Flags().BoolVarP(&flagRemindWatch, "watch", "w", false, "Keep running and print new reminders")
	remindCmd.Flags().DurationVar(&flagRemindInterval, "interval", time.Minute, "Polling interval for --watch")
	remindCmd.Flags().StringVar(&flagRemindAddr, "addr", "", "HTTP listen address for --watch, e.g. 127.0.0.1:8787")
	rootCmd.AddCommand(remindCmd)
}

func remindDays() int {
	if flagRemindDays >= 0 {
		return flagRemindDays
	}
	return cfg.General.ReminderDays
}

// loadState reads the persisted state without attaching a ledger.
func loadState() (model.State, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return model.State{}, err
	}
	defer func() { _ = st.Close() }()

	saved, _, err := st.Load()
	return saved, err
}

func runRemind(_ *cobra.Command, _ []string) error {
	if flagRemindWatch {
		return runRemindWatch()
	}

	saved, err := loadState()
	if err != nil {
		return err
	}
	due := daemon.DueWithin(saved, model.DateOf(time.Now()), remindDays())
	if len(due) == 0 {
		fmt.Println(cli.RenderInfo(fmt.Sprintf("Nothing due in the next %d days.", remindDays())))
		return nil
	}

	fmt.Println(cli.RenderTitle("Reminders"))
	for _, d := range due {
		fmt.Println(formatDue(d))
	}
	return nil
}

func formatDue(d daemon.Due) string {
	var when string
	switch {
	case d.DaysLeft < 0:
		return cli.RenderWarn(fmt.Sprintf("%s overdue since %s (%s left)", d.Name, d.When, d.Remaining))
	case d.DaysLeft == 0:
		when = "today"
	case d.DaysLeft == 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", d.DaysLeft)
	}
	return fmt.Sprintf("  %s due %s on %s (%s left, %s)", d.Name, when, d.When, d.Remaining, d.Status)
}

func runRemindWatch() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := daemon.New(daemon.Config{
		Load:     loadState,
		Days:     remindDays(),
		Interval: flagRemindInterval,
		Addr:     flagRemindAddr,
		OnEvent: func(ev daemon.Event) {
			fmt.Println(formatDue(ev.Due))
		},
		Logger: slog.Default(),
	})

	if !flagQuiet {
		fmt.Printf("  Watching %s every %s (horizon %d days)\n", dbPath(), flagRemindInterval, remindDays())
		if flagRemindAddr != "" {
			fmt.Printf("  API: http://%s/v1/status\n", flagRemindAddr)
		}
	}
	return svc.Run(ctx)
}
