package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"kalimati-price-tracker/internal/storage"
)

// Show prints recent daily snapshots.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	days, err := store.ListRecentDailyPrices(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Fprintln(os.Stdout, "no snapshots found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tCommodities\tSignificant\tStored At (UTC)")

	for _, day := range days {
		significant := 0
		for _, rec := range day.Records {
			if rec.Significant {
				significant++
			}
		}
		fmt.Fprintf(
			writer,
			"%s\t%d\t%d\t%s\n",
			day.Date.Format(storage.DateFormat),
			len(day.Records),
			significant,
			day.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		)
	}

	writer.Flush()
	return nil
}
