// Package tui provides the interactive Bubble Tea trip planner.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/mapview"
	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/planner"
	"github.com/theirongolddev/tripplan/internal/tui/components"
	"github.com/theirongolddev/tripplan/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabSearch = iota
	tabMap
	tabItinerary
	tabBudget
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5

	fetchTimeout = 30 * time.Second
)

// Searcher resolves destination names. *catalog.Client satisfies it.
type Searcher interface {
	SearchByName(ctx context.Context, query string) []model.Destination
}

// Config wires the App to the planner core. The itinerary and budget tabs
// each get their own Planner; both must publish on Bus.
type Config struct {
	Itinerary *planner.Planner
	Budget    *planner.Planner
	Bus       *planner.Bus
	Searcher  Searcher
	Map       mapview.Defaults
	Currency  string
	NeedSetup bool
}

// searchResultsMsg carries destination search results.
type searchResultsMsg struct {
	query   string
	results []model.Destination
}

// suggestionsMsg is sent when a suggestion refresh finishes.
type suggestionsMsg struct {
	applied bool
}

// changeMsg relays a planner change from the bus.
type changeMsg struct {
	change planner.Change
	ok     bool
}

// App is the root Bubble Tea model.
type App struct {
	itin     *planner.Planner
	budget   *planner.Planner
	changes  <-chan planner.Change
	search   Searcher
	mapView  *mapview.View
	currency string

	destination    model.Destination
	hasDestination bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	statusErr string

	// Per-tab state
	searchState searchState
	itinState   itineraryState
	budgetState budgetState

	// Modal huh form (add entry, add expense, first-run setup)
	form     *huh.Form
	formKind formKind
	formVals *formValues

	needSetup bool
	spinner   spinner.Model
}

// NewApp creates the TUI model and loads the stored plan. The bus
// subscription lives as long as the process.
func NewApp(ctx context.Context, cfg Config) (App, error) {
	if err := cfg.Itinerary.Load(ctx); err != nil {
		return App{}, fmt.Errorf("loading itinerary: %w", err)
	}
	if err := cfg.Budget.Load(ctx); err != nil {
		return App{}, fmt.Errorf("loading budget: %w", err)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	changes, _ := cfg.Bus.Subscribe(64)

	a := App{
		itin:        cfg.Itinerary,
		budget:      cfg.Budget,
		changes:     changes,
		search:      cfg.Searcher,
		mapView:     mapview.New(cfg.Map),
		currency:    cfg.Currency,
		needSetup:   cfg.NeedSetup,
		spinner:     sp,
		searchState: newSearchState(),
		budgetState: newBudgetState(),
	}

	d, ok, err := cfg.Itinerary.CurrentDestination(ctx)
	if err != nil {
		return App{}, fmt.Errorf("loading destination: %w", err)
	}
	if ok {
		a.destination, a.hasDestination = d, true
		a.mapView.Focus(d.Lat, d.Lon)
		a.searchState.input.SetValue(d.Name)
		a.activeTab = tabItinerary
	}
	if a.needSetup {
		a.openSetupForm()
	}
	return a, nil
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		waitForChange(a.changes),
		a.spinner.Tick,
	}
	if a.hasDestination {
		cmds = append(cmds, refreshSuggestionsCmd(a.itin, a.destination))
	}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 72)).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.form != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.switchTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case searchResultsMsg:
		a.searchState.searching = false
		a.searchState.lastQuery = msg.query
		a.searchState.results = msg.results
		a.searchState.cursor = 0
		return a, nil

	case suggestionsMsg:
		a.itinState.clampSuggestionCursor(len(a.itin.Suggestions()))
		return a, nil

	case changeMsg:
		if !msg.ok {
			return a, nil
		}
		a.applyChange(msg.change)
		return a, waitForChange(a.changes)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.form != nil {
		if key == "esc" {
			a.closeForm()
			return a, nil
		}
		return a.updateForm(msg)
	}

	// Text inputs intercept all keys while focused.
	if a.activeTab == tabSearch && a.searchState.input.Focused() {
		return a.updateSearchInput(msg)
	}
	if a.activeTab == tabBudget && a.budgetState.editing {
		return a.updateAmountInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.statusErr = ""

	var (
		handled bool
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case tabSearch:
		handled, cmd = a.updateSearchTab(key)
	case tabMap:
		handled = a.updateMapTab(key)
	case tabItinerary:
		handled, cmd = a.updateItineraryTab(key)
	case tabBudget:
		handled, cmd = a.updateBudgetTab(key)
	}
	if handled {
		return a, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		a.switchTab((a.activeTab + 1) % len(components.Tabs))
	default:
		if len(key) == 1 {
			if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
				a.switchTab(tab)
			}
		}
	}
	return a, nil
}

func (a *App) switchTab(tab int) {
	a.activeTab = tab
	a.budgetState.editing = false
	a.searchState.input.Blur()
}

// applyChange lets each tab's planner reconcile with a change published by
// the other one.
func (a *App) applyChange(c planner.Change) {
	ctx := context.Background()
	for _, p := range []*planner.Planner{a.itin, a.budget} {
		if _, err := p.HandleChange(ctx, c); err != nil {
			a.report(err)
		}
	}
	if c.Kind == planner.KindCleared {
		a.hasDestination = false
		a.destination = model.Destination{}
	}
	a.itinState.clampEntryCursor(len(a.itin.Itinerary()))
	a.budgetState.clampCursor(len(a.budget.Budget()))
}

// selectDestination stores d, recenters the map and starts a suggestion
// refresh.
func (a *App) selectDestination(d model.Destination) tea.Cmd {
	if err := a.itin.SelectDestination(context.Background(), d); err != nil {
		a.report(err)
		return nil
	}
	a.destination, a.hasDestination = d, true
	a.mapView.Focus(d.Lat, d.Lon)
	a.itinState = itineraryState{}
	a.switchTab(tabItinerary)
	return refreshSuggestionsCmd(a.itin, d)
}

// report shows storage failures in the status bar. Rejected input is
// ignored.
func (a *App) report(err error) {
	if err == nil ||
		errors.Is(err, planner.ErrEmptyName) ||
		errors.Is(err, planner.ErrInvalidAmount) ||
		errors.Is(err, planner.ErrIndexOutOfRange) {
		return
	}
	a.statusErr = err.Error()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tripplan needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	hintStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	body := titleStyle.Render("◈ "+a.formKind.title()) + "\n\n" +
		a.form.View() + "\n" +
		hintStyle.Render("esc to cancel")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Key).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"s m i b", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in lists"},
		}},
		{"Search", []struct{ key, desc string }{
			{"/", "Type a destination"},
			{"Enter", "Search / Select result"},
		}},
		{"Itinerary", []struct{ key, desc string }{
			{"a", "Add entry"},
			{"space", "Toggle done"},
			{"d", "Remove entry"},
			{"S", "Switch to suggestions"},
			{"Enter", "Add suggestion"},
			{"r", "Refresh suggestions"},
		}},
		{"Budget", []struct{ key, desc string }{
			{"a", "Add expense"},
			{"e", "Edit amount"},
			{"d", "Remove expense"},
		}},
		{"Map", []struct{ key, desc string }{
			{"h j k l", "Pan"},
			{"+ -", "Zoom"},
			{"c", "Center on destination"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + destination pill
	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	pillAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	pill := pillStyle.Render(" No destination selected ")
	if a.hasDestination {
		pill = pillStyle.Render(" ◉ ") + pillAccentStyle.Render(a.destination.Label()) + pillStyle.Render(" ")
	}
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	// 2. Status bar
	right := fmt.Sprintf("%d planned · %s", len(a.itin.Itinerary()), cli.FormatDecimal(a.currency, a.budget.BudgetTotal()))
	statusBar := components.RenderStatusBar(w, "[?]help  [q]uit", right, a.statusErr)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabSearch:
		content = a.renderSearchTab(cw)
	case tabMap:
		content = a.renderMapTab(cw)
	case tabItinerary:
		content = a.renderItineraryTab(cw)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines, fill background
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

// waitForChange blocks until the next planner change arrives.
func waitForChange(ch <-chan planner.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		return changeMsg{change: c, ok: ok}
	}
}

func searchCmd(s Searcher, query string) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return searchResultsMsg{query: query}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return searchResultsMsg{query: query, results: s.SearchByName(ctx, query)}
	}
}

// refreshSuggestionsCmd fetches suggestions around d. A newer refresh
// started meanwhile wins; see planner.RefreshSuggestions.
func refreshSuggestionsCmd(p *planner.Planner, d model.Destination) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return suggestionsMsg{applied: p.RefreshSuggestions(ctx, d.Lat, d.Lon)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func (a App) money(v float64) string {
	return cli.FormatMoney(a.currency, v)
}

func cursorLine(selected bool, line string) string {
	t := theme.Active
	if selected {
		return lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true).Render("▸ " + line)
	}
	return lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Render("  " + line)
}

func mutedLine(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(s)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
