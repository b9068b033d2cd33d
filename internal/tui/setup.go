package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/theirongolddev/billbuddy/internal/config"
	"github.com/theirongolddev/billbuddy/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Budget   string
	Weighted bool
	Theme    string
	LogLevel string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	v := SetupValues{
		Weighted: cfg.Budget.Weighted,
		Theme:    cfg.Appearance.Theme,
		LogLevel: cfg.Log.Level,
	}
	if cfg.Budget.Monthly != nil {
		v.Budget = strconv.FormatFloat(*cfg.Budget.Monthly, 'f', -1, 64)
	}
	return v
}

func validateBudget(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("enter a number, e.g. 3000")
	}
	if f < 0 {
		return errors.New("budget cannot be negative")
	}
	return nil
}

// NewSetupForm builds the huh form that fills v.
func NewSetupForm(v *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to billbuddy").
				Description("A few settings; run `billbuddy setup` anytime to change them."),
			huh.NewInput().
				Title("Monthly budget").
				Description("Used to prioritize bills. Leave blank to set it later.").
				Placeholder("3000").
				Value(&v.Budget).
				Validate(validateBudget),
			huh.NewConfirm().
				Title("Prioritization strategy").
				Affirmative("Weighted").
				Negative("Simple").
				Value(&v.Weighted),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("warn", "warn"),
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
				).
				Value(&v.LogLevel),
		),
	)
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg config.Config) (config.Config, error) {
	if err := validateBudget(v.Budget); err != nil {
		return cfg, err
	}
	if s := strings.TrimSpace(v.Budget); s == "" {
		cfg.Budget.Monthly = nil
	} else {
		f, _ := strconv.ParseFloat(s, 64)
		cfg.Budget.Monthly = &f
	}
	cfg.Budget.Weighted = v.Weighted
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	if v.LogLevel != "" {
		cfg.Log.Level = v.LogLevel
	}
	return cfg, nil
}
