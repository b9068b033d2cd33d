package ledger

import "github.com/theirongolddev/billbuddy/internal/model"

// GenerateNextRecurrence creates the next monthly occurrence of a bill. It
// returns false when the bill is unknown, does not recur, or its successor
// (same name, due one month later) already exists.
func (l *Ledger) GenerateNextRecurrence(id string) (model.Bill, bool) {
	i := l.index(id)
	if i < 0 {
		return model.Bill{}, false
	}
	next, ok := l.generateNext(l.bills[i])
	if ok {
		l.persist()
	}
	return next, ok
}

func (l *Ledger) generateNext(prev model.Bill) (model.Bill, bool) {
	if !prev.RecurringRule.Recurs() {
		return model.Bill{}, false
	}
	due := prev.Due.AddMonths(1)
	if l.findByNameDue(prev.Name, due) {
		return model.Bill{}, false
	}

	next := l.create(NewBill{
		Name:      prev.Name,
		Amount:    prev.Amount,
		Due:       due,
		Category:  prev.Category,
		Recurring: prev.RecurringRule,
	})
	l.logger.Debug("generated recurrence", "bill", prev.ID, "next", next.ID, "due", due.String())
	l.notify(LevelInfo, "Next %s bill created for %s", next.Name, next.Due)
	return next, true
}
