// Package tui provides the interactive Bubble Tea session for billbuddy: a
// chat pane driving the command interpreter plus bill, calendar and budget
// views over the same ledger.
package tui

import (
	"strings"

	"github.com/theirongolddev/billbuddy/internal/chat"
	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"
	"github.com/theirongolddev/billbuddy/internal/tui/components"
	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabChat = iota
	tabBills
	tabCalendar
	tabBudget
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
	inputHeight      = 3 // bordered single-line input
)

// Notices collects ledger notices between updates. Pass it to the ledger
// with ledger.WithNotifier and to NewApp.
type Notices struct {
	items []ledger.Notice
}

// Notify implements ledger.Notifier.
func (n *Notices) Notify(x ledger.Notice) {
	n.items = append(n.items, x)
}

func (n *Notices) drain() []ledger.Notice {
	if n == nil {
		return nil
	}
	out := n.items
	n.items = nil
	return out
}

// confirmation is a destructive action waiting on y/n. Exactly one of chat
// and apply is set.
type confirmation struct {
	prompt string
	chat   *chat.Pending
	apply  func(confirmed bool) (string, components.StatusKind)
}

// App is the root Bubble Tea model.
type App struct {
	ledger  *ledger.Ledger
	interp  *chat.Interpreter
	notices *Notices

	width     int
	height    int
	activeTab int

	input      textinput.Model
	viewport   viewport.Model
	transcript []entry

	cursor int
	month  model.Date

	pending    *confirmation
	status     string
	statusKind components.StatusKind
}

// NewApp creates the TUI model over l. notices should be the notifier the
// ledger was opened with; it may be nil.
func NewApp(l *ledger.Ledger, notices *Notices) App {
	in := textinput.New()
	in.Placeholder = "add Meralco 2500 due 2024-01-20 monthly category Utilities"
	in.Prompt = "› "
	in.CharLimit = 200
	in.Focus()

	month, err := model.ParseMonth(l.CurrentMonth())
	if err != nil {
		month = model.Date{}
	}

	a := App{
		ledger:   l,
		interp:   chat.New(l),
		notices:  notices,
		input:    in,
		viewport: viewport.New(80, 10),
		month:    month,
	}
	a.transcript = append(a.transcript, entry{from: fromBot, kind: chat.KindHelp, text: "Hi! Type a command.\n" + chat.Help})
	a.refreshTranscript()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnableMouseCellMotion)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := components.TabAtX(msg.X); tab >= 0 {
				return a.switchTab(tab)
			}
		}
		if a.activeTab == tabChat {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if a.pending != nil {
			return a.updateConfirm(key), nil
		}
		switch key {
		case "tab":
			return a.switchTab((a.activeTab + 1) % len(components.Tabs))
		case "shift+tab":
			return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		}

		switch a.activeTab {
		case tabChat:
			return a.updateChat(msg)
		case tabBills:
			return a.updateBills(key)
		case tabCalendar:
			return a.updateCalendar(key)
		case tabBudget:
			return a.updateBudget(key)
		}
	}

	if a.activeTab == tabChat {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) switchTab(tab int) (tea.Model, tea.Cmd) {
	a.activeTab = tab
	if tab == tabChat {
		return a, a.input.Focus()
	}
	a.input.Blur()
	return a, nil
}

// updateConfirm resolves the pending confirmation. Anything but y counts as
// no.
func (a App) updateConfirm(key string) App {
	p := a.pending
	a.pending = nil
	yes := strings.EqualFold(key, "y")

	if p.chat != nil {
		resp := p.chat.Resolve(yes)
		a.addEntry(entry{from: fromBot, kind: resp.Kind, text: resp.Text})
		a.setStatus(resp.Text, kindFor(resp.Kind))
	} else {
		msg, kind := p.apply(yes)
		a.setStatus(msg, kind)
	}
	a.absorbNotices()
	a.clampCursor()
	return a
}

func (a *App) setStatus(msg string, kind components.StatusKind) {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	a.status = msg
	a.statusKind = kind
}

// absorbNotices moves the latest ledger notice to the status bar.
func (a *App) absorbNotices() {
	items := a.notices.drain()
	if len(items) == 0 {
		return
	}
	last := items[len(items)-1]
	kind := components.StatusInfo
	switch last.Level {
	case ledger.LevelSuccess:
		kind = components.StatusOK
	case ledger.LevelWarn:
		kind = components.StatusWarn
	}
	a.setStatus(last.Message, kind)
}

func kindFor(k chat.Kind) components.StatusKind {
	switch k {
	case chat.KindSuccess:
		return components.StatusOK
	case chat.KindError:
		return components.StatusWarn
	default:
		return components.StatusInfo
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a *App) layout() {
	cw := a.contentWidth()
	a.input.Width = max(cw-6, 10)
	a.viewport.Width = cw
	a.viewport.Height = max(a.height-2-inputHeight, minContentHeight)
	a.refreshTranscript()
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return "\n  Terminal too narrow: billbuddy needs at least 60 columns.\n"
	}

	t := theme.Active
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, a.width)
	footer := a.viewFooter()
	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), minContentHeight)

	var content string
	switch a.activeTab {
	case tabChat:
		content = a.viewChat(cw)
	case tabBills:
		content = a.viewBills(cw, contentH)
	case tabCalendar:
		content = a.viewCalendar(cw)
	case tabBudget:
		content = a.viewBudget(cw)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(a.width, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) viewFooter() string {
	funds := cli.FormatAmount(a.ledger.Funds())
	if a.pending != nil {
		t := theme.Active
		prompt := lipgloss.NewStyle().
			Foreground(t.Orange).
			Bold(true).
			Width(a.width).
			Render(" " + a.pending.prompt + " [y/N]")
		return prompt + "\n" + components.RenderStatusBar(a.width, "", components.StatusInfo, funds)
	}
	return components.RenderStatusBar(a.width, a.status, a.statusKind, funds)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return strings.Join(lines, "\n")
}

func padHeight(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n >= h {
		return s
	}
	return s + strings.Repeat("\n", h-n)
}
