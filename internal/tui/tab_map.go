package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/tui/components"
)

func (a *App) updateMapTab(key string) bool {
	m := a.mapView
	switch key {
	case "h":
		m.Pan(-0.25, 0)
	case "l":
		m.Pan(0.25, 0)
	case "k", "up":
		m.Pan(0, 0.25)
	case "j", "down":
		m.Pan(0, -0.25)
	case "+", "=":
		m.ZoomIn()
	case "-", "_":
		m.ZoomOut()
	case "c":
		if a.hasDestination {
			m.Focus(a.destination.Lat, a.destination.Lon)
		}
	default:
		return false
	}
	return true
}

func (a App) renderMapTab(cw int) string {
	m := a.mapView
	tile := m.Tile()

	marker := "none"
	if m.Marker != nil {
		marker = m.Marker.String()
	}
	stats := components.StatCardRow([]components.Stat{
		{Label: "Center", Value: m.Center.String()},
		{Label: "Zoom", Value: fmt.Sprintf("%d", m.Zoom), Note: "+/- to change"},
		{Label: "Marker", Value: marker},
	}, cw)

	inner := components.CardInnerWidth(cw)
	var body strings.Builder
	if a.hasDestination {
		body.WriteString(cursorLine(true, cli.Truncate(a.destination.Label(), inner-2)))
		body.WriteString("\n")
	} else {
		body.WriteString(mutedLine("No destination selected. Pick one on the Search tab."))
		body.WriteString("\n")
	}
	body.WriteString("\n")
	body.WriteString(mutedLine(fmt.Sprintf("Tile   %d/%d/%d", tile.Z, tile.X, tile.Y)))
	body.WriteString("\n")
	body.WriteString(mutedLine("Image  " + cli.Truncate(m.TileURL(), inner-7)))
	body.WriteString("\n")
	body.WriteString(mutedLine("Open   " + cli.Truncate(m.URL(), inner-7)))
	body.WriteString("\n\n")
	body.WriteString(mutedLine("h/j/k/l pan · c center on destination"))

	return stats + "\n" + components.ContentCard("Map", body.String(), cw)
}
