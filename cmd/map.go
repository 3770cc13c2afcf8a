package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/cli"
	"github.com/theirongolddev/tripplan/internal/mapview"
)

var flagMapZoom int

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Show map tile and link for the destination",
	RunE:  runMap,
}

func init() {
	mapCmd.Flags().IntVar(&flagMapZoom, "zoom", 0, "Zoom level (1-19, default from config)")
	rootCmd.AddCommand(mapCmd)
}

// mapDefaults builds the initial map viewport from config.
func mapDefaults() mapview.Defaults {
	return mapview.Defaults{
		Center:    mapview.Point{Lat: cfg.Map.DefaultLat, Lon: cfg.Map.DefaultLon},
		Zoom:      cfg.Map.DefaultZoom,
		FocusZoom: cfg.Map.FocusZoom,
	}
}

func runMap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	g, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	d, ok, err := g.LoadDestination(ctx)
	if err != nil {
		return err
	}

	v := mapview.New(mapDefaults())
	label := "default view"
	if ok {
		v.Focus(d.Lat, d.Lon)
		label = d.Label()
	}
	for flagMapZoom > 0 && v.Zoom < flagMapZoom && v.Zoom < mapview.MaxZoom {
		v.ZoomIn()
	}
	for flagMapZoom > 0 && v.Zoom > flagMapZoom && v.Zoom > mapview.MinZoom {
		v.ZoomOut()
	}

	tile := v.Tile()
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Map: " + label,
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Center", v.Center.String()},
			{"Zoom", fmt.Sprintf("%d", v.Zoom)},
			{"Tile", fmt.Sprintf("%d/%d/%d", tile.Z, tile.X, tile.Y)},
		},
	}))
	fmt.Printf("  Tile:  %s\n", v.TileURL())
	fmt.Printf("  Open:  %s\n\n", v.URL())
	return nil
}
