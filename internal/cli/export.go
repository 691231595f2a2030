package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kalimati-price-tracker/internal/app"
	"kalimati-price-tracker/internal/storage"
)

var (
	exportCommodity string
	exportFrom      string
	exportTo        string
	exportCSV       string
	exportPNG       string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one commodity's price history",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			Commodity: exportCommodity,
			CSVPath:   exportCSV,
			PNGPath:   exportPNG,
			MaxPoints: exportMaxPoints,
		}

		if exportFrom != "" {
			from, err := time.Parse(storage.DateFormat, exportFrom)
			if err != nil {
				return fmt.Errorf("invalid --from value: %w", err)
			}
			opts.From = &from
		}

		if exportTo != "" {
			to, err := time.Parse(storage.DateFormat, exportTo)
			if err != nil {
				return fmt.Errorf("invalid --to value: %w", err)
			}
			opts.To = &to
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCommodity, "commodity", "", "Commodity name as listed on the site")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "End date (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVar(&exportCSV, "csv", "", "Write CSV to this path")
	exportCmd.Flags().StringVar(&exportPNG, "png", "", "Write PNG chart to this path")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum number of data points (0 = config default)")
}
