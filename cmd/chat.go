package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/chat"
	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/tui"
	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [command...]",
	Short: "Run a chat command, or open the interactive session",
	Long: "With arguments, run one chat command and exit, e.g.\n" +
		"  billbuddy chat prioritize bills if monthly budget is 5000\n" +
		"Without arguments, open the interactive session.\n\n" + chat.Help,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runTUI()
	}

	// Ledger notices duplicate the interpreter's replies here.
	sess, err := openSession(ledger.NotifierFunc(func(ledger.Notice) {}))
	if err != nil {
		return err
	}
	defer sess.Close()

	resp := chat.New(sess.ledger).Handle(strings.Join(args, " "))
	printResponse(resp)
	if resp.Confirm == nil {
		return nil
	}

	ok, err := confirm(resp.Confirm.Prompt)
	if err != nil {
		return err
	}
	printResponse(resp.Confirm.Resolve(ok))
	return nil
}

func printResponse(r chat.Response) {
	switch r.Kind {
	case chat.KindSuccess:
		fmt.Println(cli.RenderSuccess(r.Text))
	case chat.KindError:
		fmt.Println(cli.RenderWarn(r.Text))
	default:
		for _, line := range strings.Split(r.Text, "\n") {
			fmt.Println("  " + line)
		}
	}
}

func runTUI() error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so background styling produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	notices := &tui.Notices{}
	sess, err := openSession(notices)
	if err != nil {
		return err
	}
	defer sess.Close()

	p := tea.NewProgram(tui.NewApp(sess.ledger, notices), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
