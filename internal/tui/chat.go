package tui

import (
	"strings"

	"github.com/theirongolddev/billbuddy/internal/chat"
	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type speaker int

const (
	fromUser speaker = iota
	fromBot
)

// entry is one line of the chat transcript.
type entry struct {
	from speaker
	kind chat.Kind
	text string
}

func (a App) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		line := strings.TrimSpace(a.input.Value())
		a.input.Reset()
		if line != "" {
			a.submit(line)
		}
		return a, nil
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit runs one command line through the interpreter.
func (a *App) submit(line string) {
	a.addEntry(entry{from: fromUser, text: line})

	resp := a.interp.Handle(line)
	a.addEntry(entry{from: fromBot, kind: resp.Kind, text: resp.Text})
	if resp.Confirm != nil {
		a.pending = &confirmation{prompt: resp.Confirm.Prompt, chat: resp.Confirm}
	}
	a.absorbNotices()
	a.clampCursor()
}

func (a *App) addEntry(e entry) {
	a.transcript = append(a.transcript, e)
	a.refreshTranscript()
}

func (a *App) refreshTranscript() {
	a.viewport.SetContent(renderTranscript(a.transcript, a.viewport.Width))
	a.viewport.GotoBottom()
}

func renderTranscript(entries []entry, width int) string {
	t := theme.Active
	wrap := lipgloss.NewStyle().Width(max(width-4, 20))

	user := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	bot := lipgloss.NewStyle().Foreground(t.TextPrimary)
	ok := lipgloss.NewStyle().Foreground(t.Green)
	bad := lipgloss.NewStyle().Foreground(t.Red)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		if e.from == fromUser {
			b.WriteString(user.Render("you › ") + e.text + "\n")
			continue
		}
		style := bot
		switch e.kind {
		case chat.KindSuccess:
			style = ok
		case chat.KindError:
			style = bad
		case chat.KindHelp:
			style = muted
		}
		b.WriteString(style.Render(wrap.Render(e.text)) + "\n")
	}
	return b.String()
}

func (a App) viewChat(cw int) string {
	t := theme.Active
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Width(max(cw-2, 10))

	return a.viewport.View() + "\n" + box.Render(a.input.View())
}
