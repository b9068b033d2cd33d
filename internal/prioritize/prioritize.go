// Package prioritize flags a budget-feasible subset of unpaid bills using a
// greedy walk over one of two rankings.
package prioritize

import (
	"slices"

	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

// Strategy selects how candidate bills are ranked before the budget walk.
type Strategy int

const (
	// Simple ranks scheduled bills first, then smaller balances, then earlier due dates.
	Simple Strategy = iota
	// Weighted ranks by scheduling bonus plus category weight minus a large-amount penalty.
	Weighted
)

func (s Strategy) String() string {
	if s == Weighted {
		return "weighted"
	}
	return "simple"
}

// StrategyFor maps the persisted weighted flag to a strategy.
func StrategyFor(weighted bool) Strategy {
	if weighted {
		return Weighted
	}
	return Simple
}

const (
	scheduledBonus = 2.0
	amountPenalty  = 10000.0
)

// Decision records the outcome for one candidate bill, in walk order.
type Decision struct {
	BillID      string
	Name        string
	Outstanding decimal.Decimal
	Score       float64
	Selected    bool
}

// Result is the outcome of one prioritization pass.
type Result struct {
	Month     string
	Budget    decimal.Decimal
	Strategy  Strategy
	Decisions []Decision
	Total     decimal.Decimal
}

// Selected returns the ids of the prioritized bills.
func (r Result) Selected() map[string]bool {
	out := make(map[string]bool)
	for _, d := range r.Decisions {
		if d.Selected {
			out[d.BillID] = true
		}
	}
	return out
}

// Prioritizer ranks bills and walks them against a budget.
type Prioritizer struct {
	weights Weights
}

// New returns a Prioritizer using w, or the default weights when w is nil.
func New(w Weights) *Prioritizer {
	if w == nil {
		w = DefaultWeights()
	}
	return &Prioritizer{weights: w}
}

// Candidates returns the bills due in month ("YYYY-MM") that are neither paid
// nor canceled, preserving input order.
func Candidates(bills []model.Bill, month string) []model.Bill {
	var out []model.Bill
	for _, b := range bills {
		if b.Status.Closed() {
			continue
		}
		if b.Due.MonthKey() != month {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Score returns the weighted ranking score of a bill.
func (p *Prioritizer) Score(b model.Bill) float64 {
	score := p.weights.For(b.Category) - b.Amount.InexactFloat64()/amountPenalty
	if b.Scheduled {
		score += scheduledBonus
	}
	return score
}

// Rank orders the candidates for the given strategy. Ties keep input order.
func (p *Prioritizer) Rank(candidates []model.Bill, strategy Strategy) []model.Bill {
	ranked := slices.Clone(candidates)
	switch strategy {
	case Weighted:
		scores := make(map[string]float64, len(ranked))
		for _, b := range ranked {
			scores[b.ID] = p.Score(b)
		}
		slices.SortStableFunc(ranked, func(a, b model.Bill) int {
			switch sa, sb := scores[a.ID], scores[b.ID]; {
			case sa > sb:
				return -1
			case sa < sb:
				return 1
			}
			return 0
		})
	default:
		slices.SortStableFunc(ranked, compareSimple)
	}
	return ranked
}

func compareSimple(a, b model.Bill) int {
	if a.Scheduled != b.Scheduled {
		if a.Scheduled {
			return -1
		}
		return 1
	}
	if c := a.AmountRemaining.Cmp(b.AmountRemaining); c != 0 {
		return c
	}
	return a.Due.Compare(b.Due)
}

// Run ranks the bills due in month and greedily selects those that fit the
// budget. A bill is selected only while the budget is positive and the
// running total plus its outstanding balance stays within the budget.
func (p *Prioritizer) Run(bills []model.Bill, month string, budget decimal.Decimal, strategy Strategy) Result {
	res := Result{Month: month, Budget: budget, Strategy: strategy, Total: decimal.Zero}

	for _, b := range p.Rank(Candidates(bills, month), strategy) {
		d := Decision{BillID: b.ID, Name: b.Name, Outstanding: b.AmountRemaining}
		if strategy == Weighted {
			d.Score = p.Score(b)
		}
		if next := res.Total.Add(b.AmountRemaining); budget.IsPositive() && next.LessThanOrEqual(budget) {
			d.Selected = true
			res.Total = next
		}
		res.Decisions = append(res.Decisions, d)
	}
	return res
}

// Apply resets every bill's prioritized flag and marks the selected ones.
func Apply(bills []model.Bill, res Result) {
	selected := res.Selected()
	for i := range bills {
		bills[i].Prioritized = selected[bills[i].ID]
	}
}
