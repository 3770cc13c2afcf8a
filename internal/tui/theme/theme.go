// Package theme defines color themes for the trip planner TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the planner's screen roles to colors.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Selected tab or row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused dialogs
	TextDim      lipgloss.Color // Hints, unchecked boxes
	TextMuted    lipgloss.Color // Labels, addresses
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color // Section titles, active tab
	AccentBright lipgloss.Color
	Key          lipgloss.Color // Key names in help
	Error        lipgloss.Color

	Money    lipgloss.Color // Costs and amounts
	Custom   lipgloss.Color // Expenses with no itinerary entry
	Done     lipgloss.Color // Completed itinerary entries
	Category lipgloss.Color // Place categories on suggestions

	// Trip completion bar, from just started to nearly done.
	ProgressLow  lipgloss.Color
	ProgressHigh lipgloss.Color

	// An expense's share of the budget, from small to dominant.
	ShareSmall  lipgloss.Color
	ShareMedium lipgloss.Color
	ShareLarge  lipgloss.Color
	ShareTop    lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Key:          lipgloss.Color("#24837B"),
	Error:        lipgloss.Color("#D14D41"),
	Money:        lipgloss.Color("#D0A215"),
	Custom:       lipgloss.Color("#CE5D97"),
	Done:         lipgloss.Color("#879A39"),
	Category:     lipgloss.Color("#8B7EC8"),
	ProgressLow:  lipgloss.Color("#4385BE"),
	ProgressHigh: lipgloss.Color("#A3B859"),
	ShareSmall:   lipgloss.Color("#879A39"),
	ShareMedium:  lipgloss.Color("#D0A215"),
	ShareLarge:   lipgloss.Color("#DA702C"),
	ShareTop:     lipgloss.Color("#D14D41"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Key:          lipgloss.Color("#94E2D5"),
	Error:        lipgloss.Color("#F38BA8"),
	Money:        lipgloss.Color("#F9E2AF"),
	Custom:       lipgloss.Color("#F5C2E7"),
	Done:         lipgloss.Color("#A6E3A1"),
	Category:     lipgloss.Color("#CBA6F7"),
	ProgressLow:  lipgloss.Color("#74C7EC"),
	ProgressHigh: lipgloss.Color("#C6F6C1"),
	ShareSmall:   lipgloss.Color("#A6E3A1"),
	ShareMedium:  lipgloss.Color("#F9E2AF"),
	ShareLarge:   lipgloss.Color("#FAB387"),
	ShareTop:     lipgloss.Color("#F38BA8"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Key:          lipgloss.Color("#7DCFFF"),
	Error:        lipgloss.Color("#F7768E"),
	Money:        lipgloss.Color("#E0AF68"),
	Custom:       lipgloss.Color("#BB9AF7"),
	Done:         lipgloss.Color("#9ECE6A"),
	Category:     lipgloss.Color("#FF007C"),
	ProgressLow:  lipgloss.Color("#2AC3DE"),
	ProgressHigh: lipgloss.Color("#B9E87A"),
	ShareSmall:   lipgloss.Color("#9ECE6A"),
	ShareMedium:  lipgloss.Color("#E0AF68"),
	ShareLarge:   lipgloss.Color("#FF9E64"),
	ShareTop:     lipgloss.Color("#F7768E"),
}

// Monsoon is a wet-season palette: rain greys, paddy greens, laterite reds.
var Monsoon = Theme{
	Name:         "monsoon",
	Background:   lipgloss.Color("#11171A"),
	Surface:      lipgloss.Color("#1A2328"),
	SurfaceHover: lipgloss.Color("#263239"),
	Border:       lipgloss.Color("#3A4A52"),
	BorderAccent: lipgloss.Color("#4FB3A9"),
	TextDim:      lipgloss.Color("#52646C"),
	TextMuted:    lipgloss.Color("#8FA3AB"),
	TextPrimary:  lipgloss.Color("#E6EEF0"),
	Accent:       lipgloss.Color("#4FB3A9"),
	AccentBright: lipgloss.Color("#7FD6CD"),
	Key:          lipgloss.Color("#9CC7E0"),
	Error:        lipgloss.Color("#C8553D"),
	Money:        lipgloss.Color("#E8B04B"),
	Custom:       lipgloss.Color("#C98BB9"),
	Done:         lipgloss.Color("#7CB342"),
	Category:     lipgloss.Color("#B39DDB"),
	ProgressLow:  lipgloss.Color("#6A9FB5"),
	ProgressHigh: lipgloss.Color("#9CCC65"),
	ShareSmall:   lipgloss.Color("#7CB342"),
	ShareMedium:  lipgloss.Color("#E8B04B"),
	ShareLarge:   lipgloss.Color("#E07B39"),
	ShareTop:     lipgloss.Color("#C8553D"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Key:          lipgloss.Color("14"),
	Error:        lipgloss.Color("1"),
	Money:        lipgloss.Color("3"),
	Custom:       lipgloss.Color("5"),
	Done:         lipgloss.Color("2"),
	Category:     lipgloss.Color("13"),
	ProgressLow:  lipgloss.Color("4"),
	ProgressHigh: lipgloss.Color("10"),
	ShareSmall:   lipgloss.Color("2"),
	ShareMedium:  lipgloss.Color("11"),
	ShareLarge:   lipgloss.Color("3"),
	ShareTop:     lipgloss.Color("1"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Monsoon, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ShareColor returns the color for an expense taking pct of the budget.
func (t Theme) ShareColor(pct float64) lipgloss.Color {
	switch {
	case pct >= 0.5:
		return t.ShareTop
	case pct >= 0.3:
		return t.ShareLarge
	case pct >= 0.15:
		return t.ShareMedium
	default:
		return t.ShareSmall
	}
}
