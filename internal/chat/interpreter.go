// Package chat interprets the literal chat commands and applies them to a
// ledger. Commands are matched against fixed patterns; anything else gets the
// help listing.
package chat

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/ledger"
	"github.com/theirongolddev/billbuddy/internal/model"

	"github.com/shopspring/decimal"
)

// Help lists every command the interpreter understands.
const Help = `Commands:
  add <name> <amount> due <YYYY-MM-DD> [monthly] [scheduled] [category <c>]
  pay <name>
  pay partial <name> <amount>
  schedule <name>
  unschedule <name>
  cancel <name>
  delete <name>
  prioritize bills if monthly budget is <n>
  add funds <n>
  show funds
  show bills
  use weighted|simple
  help`

// Kind classifies a response for display.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
	KindHelp
)

// Response is the interpreter's reply to one line of input. When Confirm is
// set the command has not run yet; the caller asks the user and resolves it.
type Response struct {
	Kind    Kind
	Text    string
	Confirm *Pending
}

// Pending is a destructive command awaiting a yes/no answer.
type Pending struct {
	Prompt string
	apply  func(confirmed bool) Response
}

// Resolve runs the pending command with the user's answer.
func (p *Pending) Resolve(confirmed bool) Response {
	return p.apply(confirmed)
}

const amountPattern = `(\d+(?:\.\d+)?)`

var (
	reAddFunds   = regexp.MustCompile(`(?i)^add\s+funds\s+` + amountPattern + `$`)
	reAdd        = regexp.MustCompile(`(?i)^add\s+(.+?)\s+` + amountPattern + `\s+due\s+(\S+)(.*)$`)
	rePayPartial = regexp.MustCompile(`(?i)^pay\s+partial\s+(.+?)\s+` + amountPattern + `$`)
	rePay        = regexp.MustCompile(`(?i)^pay\s+(.+)$`)
	reSchedule   = regexp.MustCompile(`(?i)^(un)?schedule\s+(.+)$`)
	reCancel     = regexp.MustCompile(`(?i)^cancel\s+(.+)$`)
	reDelete     = regexp.MustCompile(`(?i)^delete\s+(.+)$`)
	rePrioritize = regexp.MustCompile(`(?i)^prioritize\s+bills\s+if\s+monthly\s+budget\s+is\s+` + amountPattern + `$`)
	reShow       = regexp.MustCompile(`(?i)^show\s+(funds|bills)$`)
	reUse        = regexp.MustCompile(`(?i)^use\s+(weighted|simple)$`)
	reHelp       = regexp.MustCompile(`(?i)^(help|\?)$`)
)

type handler struct {
	re  *regexp.Regexp
	run func(in *Interpreter, m []string) Response
}

// Order matters: "add funds" before "add", "pay partial" before "pay".
var handlers = []handler{
	{reHelp, func(_ *Interpreter, _ []string) Response { return help() }},
	{reAddFunds, (*Interpreter).addFunds},
	{reAdd, (*Interpreter).add},
	{rePayPartial, (*Interpreter).payPartial},
	{rePay, (*Interpreter).pay},
	{reSchedule, (*Interpreter).schedule},
	{reCancel, (*Interpreter).cancel},
	{reDelete, (*Interpreter).remove},
	{rePrioritize, (*Interpreter).prioritize},
	{reShow, (*Interpreter).show},
	{reUse, (*Interpreter).use},
}

// Interpreter applies chat commands to a ledger.
type Interpreter struct {
	ledger *ledger.Ledger
}

// New returns an interpreter bound to l.
func New(l *ledger.Ledger) *Interpreter {
	return &Interpreter{ledger: l}
}

// Handle interprets one line of input.
func (in *Interpreter) Handle(line string) Response {
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return help()
	}
	for _, h := range handlers {
		if m := h.re.FindStringSubmatch(line); m != nil {
			return h.run(in, m)
		}
	}
	return help()
}

func help() Response {
	return Response{Kind: KindHelp, Text: Help}
}

func info(format string, args ...any) Response {
	return Response{Kind: KindInfo, Text: fmt.Sprintf(format, args...)}
}

func success(format string, args ...any) Response {
	return Response{Kind: KindSuccess, Text: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Response {
	return Response{Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

func (in *Interpreter) add(m []string) Response {
	name := strings.TrimSpace(m[1])
	amount, err := decimal.NewFromString(m[2])
	if err != nil || !amount.IsPositive() {
		return failure("Amount must be greater than zero.")
	}
	due, err := model.ParseDate(m[3])
	if err != nil {
		return failure("Due date %q is not a YYYY-MM-DD date.", m[3])
	}

	nb := ledger.NewBill{Name: name, Amount: amount, Due: due}
	rest := strings.Fields(m[4])
	for i := 0; i < len(rest); i++ {
		switch strings.ToLower(rest[i]) {
		case "monthly":
			nb.Recurring = model.Monthly
		case "scheduled":
			nb.Scheduled = true
		case "category":
			if i+1 >= len(rest) {
				return failure("category needs a name.")
			}
			nb.Category = strings.Join(rest[i+1:], " ")
			i = len(rest)
		default:
			return failure("Unknown option %q.\n\n%s", rest[i], Help)
		}
	}

	b := in.ledger.CreateBill(nb)
	return success("Added %s (%s) due %s.", b.Name, cli.FormatAmount(b.Amount), b.Due)
}

func (in *Interpreter) addFunds(m []string) Response {
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return failure("Amount %q is not a number.", m[1])
	}
	if err := in.ledger.AddFunds(amount); err != nil {
		return failure("Could not add funds: %v.", err)
	}
	return success("Funds are now %s.", cli.FormatAmount(in.ledger.Funds()))
}

func (in *Interpreter) pay(m []string) Response {
	b, ok := in.ledger.FindOpenByName(m[1])
	if !ok {
		return failure("No open bill named %q.", m[1])
	}
	paid, err := in.ledger.PayInFull(b.ID)
	if err != nil {
		return paymentFailure(b, err, in.ledger.Funds())
	}
	return success("Paid %s in full. Funds left: %s.", paid.Name, cli.FormatAmount(in.ledger.Funds()))
}

func (in *Interpreter) payPartial(m []string) Response {
	b, ok := in.ledger.FindOpenByName(m[1])
	if !ok {
		return failure("No open bill named %q.", m[1])
	}
	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return failure("Amount %q is not a number.", m[2])
	}
	paid, err := in.ledger.ProcessPartialPayment(b.ID, amount)
	if err != nil {
		return paymentFailure(b, err, in.ledger.Funds())
	}
	if paid.Status == model.StatusPaid {
		return success("Paid off %s.", paid.Name)
	}
	return success("Paid %s toward %s; %s remaining.",
		cli.FormatAmount(amount), paid.Name, cli.FormatAmount(paid.AmountRemaining))
}

func paymentFailure(b model.Bill, err error, funds decimal.Decimal) Response {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return failure("Not enough funds for %s: %s available.", b.Name, cli.FormatAmount(funds))
	case errors.Is(err, ledger.ErrExceedsRemaining):
		return failure("%s only has %s remaining.", b.Name, cli.FormatAmount(b.AmountRemaining))
	case errors.Is(err, ledger.ErrInvalidAmount):
		return failure("Amount must be greater than zero.")
	default:
		return failure("Cannot pay %s: %v.", b.Name, err)
	}
}

func (in *Interpreter) schedule(m []string) Response {
	unschedule := m[1] != ""
	b, ok := in.ledger.FindOpenByName(m[2])
	if !ok {
		return failure("No open bill named %q.", m[2])
	}
	if unschedule {
		if _, err := in.ledger.UnscheduleBill(b.ID); err != nil {
			return failure("Cannot unschedule %s: %v.", b.Name, err)
		}
		return success("Unscheduled %s.", b.Name)
	}
	if _, err := in.ledger.ScheduleBill(b.ID); err != nil {
		return failure("Cannot schedule %s: %v.", b.Name, err)
	}
	return success("Scheduled %s for %s.", b.Name, b.Due)
}

func (in *Interpreter) cancel(m []string) Response {
	b, ok := in.ledger.FindOpenByName(m[1])
	if !ok {
		return failure("No open bill named %q.", m[1])
	}
	return Response{
		Kind: KindInfo,
		Text: fmt.Sprintf("Cancel %s? This stops it from recurring.", b.Name),
		Confirm: &Pending{
			Prompt: fmt.Sprintf("Cancel %s?", b.Name),
			apply: func(confirmed bool) Response {
				res, err := in.ledger.CancelSubscription(b.ID, confirmed)
				switch res {
				case ledger.Canceled:
					return success("Canceled %s.", b.Name)
				case ledger.CancelDeclined:
					return info("Kept %s.", b.Name)
				case ledger.CancelRefused:
					return failure("%s is already paid.", b.Name)
				default:
					return failure("Cannot cancel %s: %v.", b.Name, err)
				}
			},
		},
	}
}

func (in *Interpreter) remove(m []string) Response {
	b, ok := in.findAnyByName(m[1])
	if !ok {
		return failure("No bill named %q.", m[1])
	}
	return Response{
		Kind: KindInfo,
		Text: fmt.Sprintf("Delete %s due %s? This cannot be undone.", b.Name, b.Due),
		Confirm: &Pending{
			Prompt: fmt.Sprintf("Delete %s?", b.Name),
			apply: func(confirmed bool) Response {
				switch in.ledger.DeleteBill(b.ID, confirmed) {
				case ledger.Deleted:
					return success("Deleted %s.", b.Name)
				case ledger.DeleteDeclined:
					return info("Kept %s.", b.Name)
				default:
					return failure("%s no longer exists.", b.Name)
				}
			},
		},
	}
}

// findAnyByName prefers the earliest open bill and falls back to the most
// recent closed one.
func (in *Interpreter) findAnyByName(name string) (model.Bill, bool) {
	if b, ok := in.ledger.FindOpenByName(name); ok {
		return b, true
	}
	bills := in.ledger.Bills()
	for i := len(bills) - 1; i >= 0; i-- {
		if strings.EqualFold(bills[i].Name, strings.TrimSpace(name)) {
			return bills[i], true
		}
	}
	return model.Bill{}, false
}

func (in *Interpreter) prioritize(m []string) Response {
	budget, err := decimal.NewFromString(m[1])
	if err != nil {
		return failure("Budget %q is not a number.", m[1])
	}
	if err := in.ledger.SetMonthlyBudget(budget); err != nil {
		return failure("Cannot use that budget: %v.", err)
	}

	month := in.ledger.CurrentMonth()
	res := in.ledger.Prioritize(month, budget)
	if len(res.Decisions) == 0 {
		return info("No open bills due in %s.", month)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Prioritized for %s (%s, budget %s):\n", month, res.Strategy, cli.FormatAmount(budget))
	picked := 0
	for _, d := range res.Decisions {
		if !d.Selected {
			continue
		}
		picked++
		fmt.Fprintf(&b, "  ★ %s %s\n", d.Name, cli.FormatAmount(d.Outstanding))
	}
	if picked == 0 {
		b.WriteString("  nothing fits the budget\n")
	}
	fmt.Fprintf(&b, "Total %s of %s.", cli.FormatAmount(res.Total), cli.FormatAmount(budget))
	return success("%s", b.String())
}

func (in *Interpreter) show(m []string) Response {
	if strings.EqualFold(m[1], "funds") {
		return info("Funds: %s.", cli.FormatAmount(in.ledger.Funds()))
	}

	bills := in.ledger.Bills()
	if len(bills) == 0 {
		return info("No bills yet.")
	}
	var b strings.Builder
	for i, bill := range bills {
		if i > 0 {
			b.WriteByte('\n')
		}
		flag := ""
		if bill.Prioritized {
			flag = " ★"
		}
		fmt.Fprintf(&b, "%s  %s  %s/%s  %s%s",
			bill.Due, bill.Name,
			cli.FormatAmount(bill.AmountRemaining), cli.FormatAmount(bill.Amount),
			bill.Status, flag)
	}
	return info("%s", b.String())
}

func (in *Interpreter) use(m []string) Response {
	weighted := strings.EqualFold(m[1], "weighted")
	in.ledger.SetWeighted(weighted)
	return success("Using %s prioritization.", strings.ToLower(m[1]))
}
