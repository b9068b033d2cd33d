// Package ledger owns the bill and reminder collections and enforces the bill
// lifecycle: pending, scheduled, partial, paid and canceled, with monthly
// recurrence generation on payoff.
//
// A Ledger is a single-actor object and is not safe for concurrent use.
package ledger

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/theirongolddev/billbuddy/internal/model"
	"github.com/theirongolddev/billbuddy/internal/prioritize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the sole owner of bills, reminders and the funds balance.
type Ledger struct {
	bills     []model.Bill
	reminders []model.Reminder

	funds         decimal.Decimal
	monthlyBudget decimal.Decimal
	points        int
	otpMonth      *string
	weighted      bool

	saver       Saver
	notifier    Notifier
	logger      *slog.Logger
	prioritizer *prioritize.Prioritizer
	now         func() time.Time
	newID       func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithSaver persists state after every mutation.
func WithSaver(s Saver) Option {
	return func(l *Ledger) { l.saver = s }
}

// WithNotifier receives user-facing notices.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithLogger overrides the default slog logger.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Ledger) { l.logger = lg }
}

// WithClock overrides time.Now for timestamps and the current month.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides the bill id generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// WithWeights sets the category weights used by weighted prioritization.
func WithWeights(w prioritize.Weights) Option {
	return func(l *Ledger) { l.prioritizer = prioritize.New(w) }
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		funds:         decimal.Zero,
		monthlyBudget: decimal.Zero,
		logger:        slog.Default(),
		prioritizer:   prioritize.New(nil),
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open returns a ledger seeded from previously saved state. Nothing is
// persisted until the first mutation.
func Open(st model.State, opts ...Option) *Ledger {
	l := New(opts...)
	l.load(st)
	return l
}

func (l *Ledger) load(st model.State) {
	l.bills = slices.Clone(st.Bills)
	for i := range l.bills {
		l.bills[i].Normalize()
	}
	l.reminders = slices.Clone(st.Reminders)
	l.funds = st.Funds
	l.monthlyBudget = st.MonthlyBudget
	l.points = st.Points
	l.otpMonth = st.OTPMonth
	l.weighted = st.UseWeightedPrioritization
	l.repairReminders()
}

// repairReminders drops reminders whose bill is gone and creates one for any
// bill that lacks it.
func (l *Ledger) repairReminders() {
	ids := make(map[string]bool, len(l.bills))
	for _, b := range l.bills {
		ids[b.ID] = true
	}
	seen := make(map[string]bool, len(l.reminders))
	kept := l.reminders[:0]
	for _, r := range l.reminders {
		if !ids[r.BillID] || seen[r.BillID] {
			continue
		}
		seen[r.BillID] = true
		kept = append(kept, r)
	}
	l.reminders = kept
	for _, b := range l.bills {
		if !seen[b.ID] {
			l.reminders = append(l.reminders, reminderFor(b))
		}
	}
}

func reminderFor(b model.Bill) model.Reminder {
	return model.Reminder{BillID: b.ID, When: b.Due, Note: "Pay " + b.Name}
}

// State returns a snapshot of everything the ledger persists.
func (l *Ledger) State() model.State {
	return model.State{
		Version:                   model.SchemaVersion,
		Bills:                     l.Bills(),
		Reminders:                 l.Reminders(),
		Points:                    l.points,
		MonthlyBudget:             l.monthlyBudget,
		Funds:                     l.funds,
		OTPMonth:                  l.otpMonth,
		UseWeightedPrioritization: l.weighted,
		LastSaved:                 l.now().UTC(),
	}
}

// Bills returns a copy of all bills in insertion order.
func (l *Ledger) Bills() []model.Bill {
	return slices.Clone(l.bills)
}

// Reminders returns a copy of all reminders.
func (l *Ledger) Reminders() []model.Reminder {
	return slices.Clone(l.reminders)
}

// BillsDueIn returns the bills due in month ("YYYY-MM"), ordered by due date.
func (l *Ledger) BillsDueIn(month string) []model.Bill {
	var out []model.Bill
	for _, b := range l.bills {
		if b.Due.MonthKey() == month {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Bill) int { return a.Due.Compare(b.Due) })
	return out
}

// CurrentMonth is the "YYYY-MM" key of today according to the ledger clock.
func (l *Ledger) CurrentMonth() string {
	return model.DateOf(l.now()).MonthKey()
}

// NewBill holds the fields a caller supplies when adding a bill.
type NewBill struct {
	Name      string
	Amount    decimal.Decimal
	Due       model.Date
	Scheduled bool
	Category  string
	Recurring model.RecurringRule
}

// CreateBill adds a bill and its reminder. Input is expected to be validated
// by the caller; the ledger does not reject it.
func (l *Ledger) CreateBill(nb NewBill) model.Bill {
	b := l.create(nb)
	l.persist()
	l.notify(LevelSuccess, "Added %s due %s", b.Name, b.Due)
	return b
}

func (l *Ledger) create(nb NewBill) model.Bill {
	rule := nb.Recurring
	if rule.Interval == "" {
		rule.Interval = model.IntervalNone
	}
	now := l.now().UTC()
	b := model.Bill{
		ID:              l.newID(),
		Name:            strings.TrimSpace(nb.Name),
		Amount:          nb.Amount,
		AmountRemaining: nb.Amount,
		Due:             nb.Due,
		Scheduled:       nb.Scheduled,
		Category:        nb.Category,
		RecurringRule:   rule,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.RefreshStatus()
	l.bills = append(l.bills, b)
	l.reminders = append(l.reminders, reminderFor(b))
	return b
}

// BillPatch lists the fields UpdateBill may change. Nil fields are left alone.
type BillPatch struct {
	Name          *string
	Amount        *decimal.Decimal
	Due           *model.Date
	Scheduled     *bool
	Category      *string
	RecurringRule *model.RecurringRule
}

// UpdateBill merges patch into the bill with the given id. It reports false
// when the id is unknown. Amount edits keep what was already paid, so the
// remaining balance stays within [0, amount]; negative amounts are ignored.
// Paid and canceled bills are closed: their amount and scheduled flag are
// left as they are.
func (l *Ledger) UpdateBill(id string, patch BillPatch) (model.Bill, bool) {
	i := l.index(id)
	if i < 0 {
		return model.Bill{}, false
	}
	b := &l.bills[i]
	closed := b.Status.Closed()

	if patch.Name != nil {
		b.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Amount != nil && !patch.Amount.IsNegative() && !closed {
		paid := b.Paid()
		b.Amount = *patch.Amount
		b.AmountRemaining = clamp(b.Amount.Sub(paid), b.Amount)
	}
	if patch.Due != nil {
		b.Due = *patch.Due
	}
	if patch.Scheduled != nil && !closed {
		b.Scheduled = *patch.Scheduled
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	if patch.RecurringRule != nil {
		b.RecurringRule = *patch.RecurringRule
	}
	b.RefreshStatus()
	b.UpdatedAt = l.now().UTC()

	updated := *b
	l.persist()
	return updated, true
}

func clamp(v, upper decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(upper) {
		return upper
	}
	return v
}

// ScheduleBill marks the bill as committed for payment on its due date.
func (l *Ledger) ScheduleBill(id string) (model.Bill, error) {
	return l.setScheduled(id, true)
}

// UnscheduleBill withdraws the commitment made by ScheduleBill.
func (l *Ledger) UnscheduleBill(id string) (model.Bill, error) {
	return l.setScheduled(id, false)
}

func (l *Ledger) setScheduled(id string, scheduled bool) (model.Bill, error) {
	i := l.index(id)
	if i < 0 {
		return model.Bill{}, ErrNotFound
	}
	b := &l.bills[i]
	switch b.Status {
	case model.StatusCanceled:
		return *b, ErrCanceled
	case model.StatusPaid:
		return *b, ErrAlreadyPaid
	}

	b.Scheduled = scheduled
	b.RefreshStatus()
	b.UpdatedAt = l.now().UTC()
	updated := *b

	l.persist()
	if scheduled {
		l.notify(LevelInfo, "Scheduled %s for %s", updated.Name, updated.Due)
	} else {
		l.notify(LevelInfo, "Unscheduled %s", updated.Name)
	}
	return updated, nil
}

// DeleteBill removes the bill and its reminder. The caller owns the
// confirmation prompt and passes the user's answer as confirmed.
func (l *Ledger) DeleteBill(id string, confirmed bool) DeleteResult {
	i := l.index(id)
	if i < 0 {
		return DeleteNotFound
	}
	if !confirmed {
		return DeleteDeclined
	}

	name := l.bills[i].Name
	l.bills = slices.Delete(l.bills, i, i+1)
	l.reminders = slices.DeleteFunc(l.reminders, func(r model.Reminder) bool { return r.BillID == id })

	l.persist()
	l.notify(LevelInfo, "Deleted %s", name)
	return Deleted
}

// CancelSubscription ends a bill for good: its status becomes canceled and
// its recurrence rule is cleared. Paid bills cannot be canceled.
func (l *Ledger) CancelSubscription(id string, confirmed bool) (CancelResult, error) {
	i := l.index(id)
	if i < 0 {
		return CancelNotFound, ErrNotFound
	}
	b := &l.bills[i]
	if b.Status == model.StatusPaid {
		return CancelRefused, ErrAlreadyPaid
	}
	if !confirmed {
		return CancelDeclined, nil
	}

	b.Status = model.StatusCanceled
	b.RecurringRule = model.NoRecurrence
	b.Prioritized = false
	b.UpdatedAt = l.now().UTC()
	name := b.Name

	l.persist()
	l.notify(LevelWarn, "Canceled %s", name)
	return Canceled, nil
}

// FindBillByID looks a bill up by id.
func (l *Ledger) FindBillByID(id string) (model.Bill, bool) {
	if i := l.index(id); i >= 0 {
		return l.bills[i], true
	}
	return model.Bill{}, false
}

// FindBill looks a bill up by case-insensitive name, exact amount and exact
// due date.
func (l *Ledger) FindBill(name string, amount decimal.Decimal, due model.Date) (model.Bill, bool) {
	for _, b := range l.bills {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) && b.Amount.Equal(amount) && b.Due.Equal(due) {
			return b, true
		}
	}
	return model.Bill{}, false
}

// FindOpenByName returns the earliest-due bill with the given name that is
// neither paid nor canceled.
func (l *Ledger) FindOpenByName(name string) (model.Bill, bool) {
	var (
		found model.Bill
		ok    bool
	)
	for _, b := range l.bills {
		if b.Status.Closed() || !strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			continue
		}
		if !ok || b.Due.Before(found.Due) {
			found, ok = b, true
		}
	}
	return found, ok
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.bills, func(b model.Bill) bool { return b.ID == id })
}

func (l *Ledger) findByNameDue(name string, due model.Date) bool {
	return slices.ContainsFunc(l.bills, func(b model.Bill) bool {
		return strings.EqualFold(b.Name, name) && b.Due.Equal(due)
	})
}

// Funds is the balance available for payments.
func (l *Ledger) Funds() decimal.Decimal { return l.funds }

// AddFunds tops up the funds balance.
func (l *Ledger) AddFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	l.funds = l.funds.Add(amount)
	l.persist()
	l.notify(LevelSuccess, "Added %s to funds", amount.StringFixed(2))
	return nil
}

// MonthlyBudget is the budget ceiling used by prioritization.
func (l *Ledger) MonthlyBudget() decimal.Decimal { return l.monthlyBudget }

// SetMonthlyBudget stores the budget ceiling. Negative budgets are rejected.
func (l *Ledger) SetMonthlyBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return fmt.Errorf("budget %s: %w", budget, ErrInvalidAmount)
	}
	l.monthlyBudget = budget
	l.persist()
	return nil
}

// Weighted reports whether prioritization uses the weighted ranking.
func (l *Ledger) Weighted() bool { return l.weighted }

// SetWeighted selects the weighted (true) or simple (false) ranking.
func (l *Ledger) SetWeighted(weighted bool) {
	l.weighted = weighted
	l.persist()
	l.notify(LevelInfo, "Using %s prioritization", prioritize.StrategyFor(weighted))
}

// Points is the reward points counter carried in saved state.
func (l *Ledger) Points() int { return l.points }

// Prioritize flags the bills due in month that fit budget, using the ranking
// selected by the weighted flag. Every bill's flag is reset first.
func (l *Ledger) Prioritize(month string, budget decimal.Decimal) prioritize.Result {
	strategy := prioritize.StrategyFor(l.weighted)
	res := l.prioritizer.Run(l.bills, month, budget, strategy)
	if len(res.Decisions) == 0 {
		return res
	}

	prioritize.Apply(l.bills, res)
	l.persist()
	l.logger.Debug("prioritized bills",
		"month", month,
		"strategy", strategy.String(),
		"budget", budget.String(),
		"selected", len(res.Selected()),
		"total", res.Total.String(),
	)
	return res
}

// Stats summarizes the bills due in month against the monthly budget.
func (l *Ledger) Stats(month string) model.BudgetStats {
	st := model.BudgetStats{
		Month:       month,
		Budget:      l.monthlyBudget,
		Funds:       l.funds,
		Outstanding: decimal.Zero,
		Prioritized: decimal.Zero,
		Paid:        decimal.Zero,
	}
	for _, b := range l.bills {
		if b.Due.MonthKey() != month || b.Status == model.StatusCanceled {
			continue
		}
		st.Paid = st.Paid.Add(b.Paid())
		if b.Status == model.StatusPaid {
			st.PaidBills++
			continue
		}
		st.OpenBills++
		st.Outstanding = st.Outstanding.Add(b.AmountRemaining)
		if b.Prioritized {
			st.Prioritized = st.Prioritized.Add(b.AmountRemaining)
		}
	}
	return st
}
