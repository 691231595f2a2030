package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"kalimati-price-tracker/internal/storage"
)

// exportPoint is one commodity observation lifted out of a daily snapshot.
type exportPoint struct {
	Date   time.Time
	Record storage.PriceRecord
}

// Export renders one commodity's price history as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.Commodity == "" {
		return errors.New("--commodity must be provided")
	}
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	from := a.Config.AnchorTime()
	if opts.From != nil {
		from = opts.From.UTC()
	}
	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}
	if !from.Before(to) {
		return errors.New("from must be before to")
	}

	days, err := store.ListDailyPricesBetween(ctx, from, to)
	if err != nil {
		return err
	}

	points := make([]exportPoint, 0, len(days))
	for _, day := range days {
		for _, rec := range day.Records {
			if rec.Commodity == opts.Commodity {
				points = append(points, exportPoint{Date: day.Date, Record: rec})
				break
			}
		}
	}
	if len(points) == 0 {
		a.Logger.Info().Str("commodity", opts.Commodity).Msg("no observations found for export window")
		return nil
	}

	downsampled := downsamplePoints(points, opts.MaxPoints)
	a.Logger.Info().
		Str("commodity", opts.Commodity).
		Int("total", len(points)).
		Int("exported", len(downsampled)).
		Msg("exporting observations")

	if opts.CSVPath != "" {
		if err := writePointsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writePointsPNG(opts.PNGPath, opts.Commodity, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func downsamplePoints(points []exportPoint, max int) []exportPoint {
	if max <= 0 || len(points) <= max {
		return points
	}

	result := make([]exportPoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func writePointsCSV(path string, points []exportPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "unit", "minimum", "maximum", "average", "fluctuation_value", "fluctuation_pct", "significant"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range points {
		record := []string{
			p.Date.Format(storage.DateFormat),
			p.Record.Unit,
			p.Record.Minimum.String(),
			p.Record.Maximum.String(),
			p.Record.Average.String(),
			p.Record.FluctuationValue.String(),
			p.Record.FluctuationPercentage.String(),
			strconv.FormatBool(p.Record.Significant),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writePointsPNG(path, commodity string, points []exportPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(points))
	average := make([]float64, len(points))
	fluctuation := make([]float64, len(points))

	for i, p := range points {
		x[i] = p.Date
		average[i] = p.Record.Average.InexactFloat64()
		fluctuation[i] = p.Record.FluctuationPercentage.InexactFloat64()
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s daily average price", commodity),
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Average (Rs)",
			ValueFormatter: priceFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Fluctuation (%)",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Average",
				XValues: x,
				YValues: average,
			},
			chart.TimeSeries{
				Name:    "Fluctuation %",
				XValues: x,
				YValues: fluctuation,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
