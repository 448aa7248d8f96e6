package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/store"
	"github.com/theirongolddev/cbudget/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formExpense
	formGoal
	formFund
	formSetup
)

// formValues backs every huh form field. Amounts and dates stay strings
// until submit so the inputs can be validated as typed.
type formValues struct {
	Description string
	Amount      string
	Category    string
	Date        string
	Notes       string

	Name         string
	Target       string
	Current      string
	Deadline     string
	GoalCategory string
	GoalNote     string

	GoalID   string
	GoalName string

	Setup SetupValues
}

// SetupValues are the preferences collected by the setup form.
type SetupValues struct {
	Currency string
	Theme    string
	Backend  string
}

// SetupValuesFrom seeds the setup form from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Currency: config.LookupCurrency(cfg.General.Currency).Code,
		Theme:    cfg.Appearance.Theme,
		Backend:  cfg.Store.Backend,
	}
}

// Apply writes the chosen values into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.Currency = v.Currency
	cfg.Appearance.Theme = v.Theme
	cfg.Store.Backend = v.Backend
}

// NewSetupForm builds the currency, theme and storage form.
func NewSetupForm(v *SetupValues) *huh.Form {
	currencies := make([]huh.Option[string], 0, len(config.DefaultCurrencies))
	for _, code := range config.CurrencyCodes() {
		c := config.DefaultCurrencies[code]
		currencies = append(currencies, huh.NewOption(fmt.Sprintf("%s (%s)", c.Code, strings.TrimSpace(c.Symbol)), c.Code))
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency").
				Description("Symbol used for every amount.").
				Options(currencies...).
				Value(&v.Currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Storage").
				Description("Where the budget is saved. Takes effect on next start.").
				Options(
					huh.NewOption("SQLite file", store.BackendSQLite),
					huh.NewOption("Bolt file", store.BackendBolt),
					huh.NewOption("Redis (set redis_url in config.toml)", store.BackendRedis),
					huh.NewOption("Memory only", store.BackendMemory),
				).
				Value(&v.Backend),
		).Title("cbudget setup"),
	).WithTheme(huh.ThemeCharm())
}

func (v *formValues) expenseInput(cur config.Currency) (ledger.ExpenseInput, error) {
	amount, err := cli.ParseMoney(v.Amount, cur)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	date, err := optionalDate(v.Date)
	if err != nil {
		return ledger.ExpenseInput{}, err
	}
	return ledger.ExpenseInput{
		Description: v.Description,
		Amount:      amount,
		Category:    v.Category,
		Date:        date,
		Notes:       v.Notes,
	}, nil
}

func (v *formValues) goalInput(cur config.Currency) (ledger.GoalInput, error) {
	target, err := cli.ParseMoney(v.Target, cur)
	if err != nil {
		return ledger.GoalInput{}, err
	}
	current := decimal.Zero
	if strings.TrimSpace(v.Current) != "" {
		if current, err = cli.ParseMoney(v.Current, cur); err != nil {
			return ledger.GoalInput{}, err
		}
	}
	deadline, err := model.ParseDate(strings.TrimSpace(v.Deadline))
	if err != nil {
		return ledger.GoalInput{}, err
	}
	return ledger.GoalInput{
		Name:        v.Name,
		Target:      target,
		Current:     current,
		Deadline:    deadline,
		Description: v.GoalNote,
		Category:    model.GoalCategory(v.GoalCategory),
	}, nil
}

func optionalDate(raw string) (model.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Date{}, nil
	}
	return model.ParseDate(raw)
}

func positiveMoney(cur config.Currency) func(string) error {
	return func(s string) error {
		d, err := cli.ParseMoney(s, cur)
		if err != nil {
			return err
		}
		if !d.IsPositive() {
			return errors.New("must be greater than zero")
		}
		return nil
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func quickAmounts(cur config.Currency) string {
	parts := make([]string, 0, len(ledger.QuickAddAmounts))
	for _, amt := range ledger.QuickAddAmounts {
		parts = append(parts, cli.FormatMoney(amt, cur))
	}
	return strings.Join(parts, "/")
}

// openForm builds the form of the given kind and makes it active.
func (a *App) openForm(kind formKind) tea.Cmd {
	today := model.DateOf(a.ledger.Now())
	v := &formValues{
		Date:     today.String(),
		Deadline: today.AddDays(90).String(),
		Setup:    SetupValuesFrom(a.cfg),
	}

	var form *huh.Form
	switch kind {
	case formExpense:
		names := a.snap.CategoryNames()
		if len(names) == 0 {
			a.setFlash("add a budget category first", true)
			return nil
		}
		v.Category = names[0]
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Description").Value(&v.Description).Validate(required("description")),
				huh.NewInput().Title("Amount").Placeholder("12.50").Value(&v.Amount).Validate(positiveMoney(a.cur)),
				huh.NewSelect[string]().Title("Category").Options(huh.NewOptions(names...)...).Value(&v.Category),
				huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&v.Date).Validate(func(s string) error {
					_, err := optionalDate(s)
					return err
				}),
				huh.NewInput().Title("Notes").Value(&v.Notes),
			).Title("Add expense"),
		)

	case formGoal:
		goalCats := make([]huh.Option[string], 0, len(model.GoalCategories))
		for _, c := range model.GoalCategories {
			goalCats = append(goalCats, huh.NewOption(c.Label(), string(c)))
		}
		v.GoalCategory = string(model.GoalSavings)
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Name").Value(&v.Name).Validate(required("name")),
				huh.NewInput().Title("Target").Value(&v.Target).Validate(positiveMoney(a.cur)),
				huh.NewInput().Title("Already saved").Placeholder("0").Value(&v.Current),
				huh.NewInput().Title("Deadline").Placeholder("YYYY-MM-DD").Value(&v.Deadline).Validate(func(s string) error {
					d, err := model.ParseDate(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if !today.Before(d) {
						return errors.New("deadline must be in the future")
					}
					return nil
				}),
				huh.NewSelect[string]().Title("Category").Options(goalCats...).Value(&v.GoalCategory),
				huh.NewInput().Title("Description").Value(&v.GoalNote),
			).Title("New goal"),
		)

	case formFund:
		if a.cursor >= len(a.report.Goals) {
			return nil
		}
		g := a.report.Goals[a.cursor].Goal
		v.GoalID, v.GoalName = g.ID, g.Name
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Amount").
					Description(fmt.Sprintf("%s of %s saved", cli.FormatMoney(g.Current, a.cur), cli.FormatMoney(g.Target, a.cur))).
					Value(&v.Amount).
					Validate(positiveMoney(a.cur)),
			).Title("Fund " + g.Name),
		)

	case formSetup:
		form = NewSetupForm(&v.Setup)

	default:
		return nil
	}

	a.form = form.WithShowHelp(true)
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 72)).WithHeight(a.height)
	}
	a.formKind = kind
	a.vals = v
	return a.form.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.vals = nil
}

// submitForm turns completed form values into a ledger operation.
func (a *App) submitForm(kind formKind, v *formValues) tea.Cmd {
	l, cur := a.ledger, a.cur

	switch kind {
	case formExpense:
		in, err := v.expenseInput(cur)
		if err != nil {
			a.setFlash(err.Error(), true)
			return nil
		}
		return mutate(func(ctx context.Context) (string, error) {
			e, err := l.AddExpense(ctx, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Logged %s %s", cli.FormatMoney(e.Amount, cur), e.Description), nil
		})

	case formGoal:
		in, err := v.goalInput(cur)
		if err != nil {
			a.setFlash(err.Error(), true)
			return nil
		}
		return mutate(func(ctx context.Context) (string, error) {
			g, err := l.AddGoal(ctx, in)
			if err != nil {
				return "", err
			}
			return "Created goal " + g.Name, nil
		})

	case formFund:
		amount, err := cli.ParseMoney(v.Amount, cur)
		if err != nil {
			a.setFlash(err.Error(), true)
			return nil
		}
		return fundCmd(l, v.GoalID, amount, cur)

	case formSetup:
		// Flag overrides in a.cfg must not leak into the saved file.
		saved, err := config.Load()
		if err != nil {
			saved = config.DefaultConfig()
		}
		v.Setup.Apply(&saved)
		a.cfg.General.Currency = saved.General.Currency
		a.cfg.Appearance.Theme = saved.Appearance.Theme
		a.applyConfig()
		a.recompute()
		if err := config.Save(saved); err != nil {
			a.setFlash("settings apply for this session only: "+err.Error(), true)
			return nil
		}
		a.setFlash("Saved "+config.ConfigPath(), false)
	}
	return nil
}
