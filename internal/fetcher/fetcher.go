package fetcher

import (
	"context"
	"errors"
	"time"
)

// ErrTableUnavailable signals that the price table for a date never loaded:
// the session token was missing or the page rendered without the table.
var ErrTableUnavailable = errors.New("fetcher: price table unavailable")

// PriceTableFetcher retrieves the raw price table rows for one calendar date.
// Each row is the ordered cell texts of one table row, untrimmed.
type PriceTableFetcher interface {
	FetchRows(ctx context.Context, date time.Time) ([][]string, error)
}
