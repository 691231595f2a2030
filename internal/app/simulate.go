package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"kalimati-price-tracker/internal/fetcher"
	"kalimati-price-tracker/internal/service"
	"kalimati-price-tracker/internal/storage"
	"kalimati-price-tracker/internal/tracker"
)

// SimulateAlert drives one synthetic day through the pipeline: a single
// commodity moving from prior to current average, with the configured
// notifiers on the receiving end. Nothing is persisted.
func (a *App) SimulateAlert(ctx context.Context, commodity, recipient string, prior, current decimal.Decimal) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is not enabled")
	}

	notifier, broadcast := a.newNotifiers()
	if notifier == nil && broadcast == nil {
		return errors.New("no alert channel configured")
	}

	today := tracker.Day(time.Now())
	static := &staticFetcher{
		rows: [][]string{
			{commodity, "Kg", "Rs " + prior.StringFixed(2), "Rs " + current.StringFixed(2), "Rs " + current.StringFixed(2)},
			{"No data available in the table"},
		},
	}

	svc := service.New(a.Config, static, nil, nil, notifier, broadcast, a.Logger)

	state := tracker.NewLastKnown()
	state.Advance(storage.DailyPrice{
		Date: today.AddDate(0, 0, -1),
		Records: []storage.PriceRecord{
			{Commodity: commodity, Unit: "Kg", Minimum: prior, Maximum: prior, Average: prior},
		},
	})

	subscribers := []storage.Subscriber{
		{Email: recipient, Commodities: []string{commodity}},
	}

	return svc.ProcessDay(ctx, a.Logger, today, state, subscribers)
}

type staticFetcher struct {
	rows [][]string
}

func (s *staticFetcher) FetchRows(ctx context.Context, date time.Time) ([][]string, error) {
	return s.rows, nil
}

var _ fetcher.PriceTableFetcher = (*staticFetcher)(nil)
