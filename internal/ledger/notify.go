package ledger

import (
	"fmt"
	"log/slog"

	"github.com/theirongolddev/billbuddy/internal/model"
)

// Level is the severity of a user-facing notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
)

// Notice is a short message meant for the user, emitted after mutations.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives user-facing notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Saver persists ledger state. Save errors are logged, never returned to
// ledger callers.
type Saver interface {
	Save(model.State) error
}

func (l *Ledger) notify(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Debug("notice", "level", level, "msg", msg)
	if l.notifier != nil {
		l.notifier.Notify(Notice{Level: level, Message: msg})
	}
}

func (l *Ledger) persist() {
	if l.saver == nil {
		return
	}
	if err := l.saver.Save(l.State()); err != nil {
		l.logger.Warn("state not saved", slog.Any("err", err))
	}
}
