package ledger

import "github.com/theirongolddev/billbuddy/internal/model"

// Replace discards the ledger's contents and adopts st wholesale.
func (l *Ledger) Replace(st model.State) {
	l.load(st)
	l.persist()
	l.notify(LevelWarn, "Replaced all data (%d bills)", len(l.bills))
}

// Merge adds the bills of st whose ids the ledger does not know yet, along
// with their reminders. Existing bills and the ledger's balances are left
// untouched. It returns the number of bills added.
func (l *Ledger) Merge(st model.State) int {
	known := make(map[string]bool, len(l.bills))
	for _, b := range l.bills {
		known[b.ID] = true
	}

	added := make(map[string]bool)
	for _, b := range st.Bills {
		if known[b.ID] || added[b.ID] {
			continue
		}
		b.Normalize()
		l.bills = append(l.bills, b)
		added[b.ID] = true
	}
	for _, r := range st.Reminders {
		if added[r.BillID] {
			l.reminders = append(l.reminders, r)
		}
	}
	l.repairReminders()

	if len(added) > 0 {
		l.persist()
	}
	l.notify(LevelInfo, "Merged %d new bills", len(added))
	return len(added)
}
