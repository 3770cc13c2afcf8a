package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/config"
	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formSetup
	formEntry
	formExpense
)

func (k formKind) title() string {
	switch k {
	case formSetup:
		return "Welcome to tripplan"
	case formEntry:
		return "Add itinerary entry"
	case formExpense:
		return "Add expense"
	}
	return ""
}

// formValues is bound to huh fields by pointer, so it must outlive the
// App copies Bubble Tea makes on every Update.
type formValues struct {
	name    string
	amount  string
	address string

	geoapifyKey string
	unsplashKey string
	currency    string
	theme       string
}

var currencyOptions = []string{"₹", "$", "€", "£", "¥"}

func requireName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func amountValidator(currency string, allowZero bool) func(string) error {
	return func(s string) error {
		v, err := cli.ParseAmount(currency, s)
		if err != nil {
			return err
		}
		if v == 0 && !allowZero {
			return errors.New("amount must be greater than zero")
		}
		return nil
	}
}

func (a *App) openSetupForm() {
	cfg, _ := config.Load()
	v := &formValues{
		geoapifyKey: cfg.Catalog.GeoapifyAPIKey,
		unsplashKey: cfg.Catalog.UnsplashAccessKey,
		currency:    cfg.General.Currency,
		theme:       cfg.Appearance.Theme,
	}

	a.formVals = v
	a.formKind = formSetup
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Geoapify API key").
				Description("Used for destination search and nearby suggestions. Leave blank to skip.").
				EchoMode(huh.EchoModePassword).
				Value(&v.geoapifyKey),
			huh.NewInput().
				Title("Unsplash access key").
				Description("Used for destination and place photos. Leave blank to skip.").
				EchoMode(huh.EchoModePassword).
				Value(&v.unsplashKey),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency symbol").
				Options(huh.NewOptions(currencyOptions...)...).
				Value(&v.currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.theme),
		),
	).WithShowHelp(true)
	a.sizeForm()
}

func (a *App) openEntryForm() tea.Cmd {
	v := &formValues{}
	validCost := amountValidator(a.currency, true)
	a.formVals = v
	a.formKind = formEntry
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Validate(requireName).
				Value(&v.name),
			huh.NewInput().
				Title("Estimated cost").
				Placeholder("0").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return validCost(s)
				}).
				Value(&v.amount),
			huh.NewInput().
				Title("Address").
				Value(&v.address),
		),
	).WithShowHelp(true)
	a.sizeForm()
	return a.form.Init()
}

func (a *App) openExpenseForm() tea.Cmd {
	v := &formValues{}
	a.formVals = v
	a.formKind = formExpense
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Validate(requireName).
				Value(&v.name),
			huh.NewInput().
				Title("Amount").
				Validate(amountValidator(a.currency, false)).
				Value(&v.amount),
		),
	).WithShowHelp(true)
	a.sizeForm()
	return a.form.Init()
}

func (a *App) sizeForm() {
	if a.form != nil && a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 72)).WithHeight(a.height)
	}
}

func (a *App) closeForm() {
	if a.formKind == formSetup {
		a.needSetup = false
	}
	a.form = nil
	a.formKind = formNone
	a.formVals = nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.submitForm()
		a.closeForm()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

// submitForm applies the values of a completed form.
func (a *App) submitForm() {
	v := a.formVals
	ctx := context.Background()

	switch a.formKind {
	case formSetup:
		a.saveSetupConfig(v)
	case formEntry:
		cost := 0.0
		if strings.TrimSpace(v.amount) != "" {
			cost, _ = cli.ParseAmount(a.currency, v.amount)
		}
		_, err := a.itin.AddEntry(ctx, v.name, cost, strings.TrimSpace(v.address), "")
		a.report(err)
		a.itinState.entryCursor = max(len(a.itin.Itinerary())-1, 0)
	case formExpense:
		amount, err := cli.ParseAmount(a.currency, v.amount)
		if err != nil {
			return
		}
		_, err = a.budget.AddExpense(ctx, v.name, amount)
		a.report(err)
		a.budgetState.cursor = max(len(a.budget.Budget())-1, 0)
	}
}

func (a *App) saveSetupConfig(v *formValues) {
	cfg, _ := config.Load()
	cfg.Catalog.GeoapifyAPIKey = strings.TrimSpace(v.geoapifyKey)
	cfg.Catalog.UnsplashAccessKey = strings.TrimSpace(v.unsplashKey)
	if v.currency != "" {
		cfg.General.Currency = v.currency
		a.currency = v.currency
	}
	if v.theme != "" {
		cfg.Appearance.Theme = v.theme
		theme.SetActive(v.theme)
	}
	if err := config.Save(cfg); err != nil {
		a.statusErr = "saving config: " + err.Error()
	}
}
