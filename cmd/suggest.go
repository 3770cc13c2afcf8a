package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripplan/internal/model"
)

var (
	flagSuggestLat float64
	flagSuggestLon float64
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest places near the destination",
	Long: "Suggest tourist attractions, restaurants, hotels and entertainment near the\n" +
		"selected destination, or near --lat/--lon when given.",
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().Float64Var(&flagSuggestLat, "lat", 0, "Latitude (overrides the destination)")
	suggestCmd.Flags().Float64Var(&flagSuggestLon, "lon", 0, "Longitude (overrides the destination)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p, g, err := openPlanner(ctx, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	d := model.Destination{Lat: flagSuggestLat, Lon: flagSuggestLon}
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lon") {
		current, ok, err := p.CurrentDestination(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no destination selected (run tripplan select <place>, or pass --lat and --lon)")
		}
		d = current
	}
	return printSuggestions(ctx, p, d)
}
