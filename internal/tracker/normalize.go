package tracker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"kalimati-price-tracker/internal/storage"
)

// rowCells is the number of cells a valid price row carries:
// commodity, unit, minimum, maximum, average.
const rowCells = 5

// ParseRow converts one raw table row into a price record with the
// fluctuation fields left at their zero values. An invalid row (too few
// cells, unparseable price text) yields an error so the caller can drop it
// without aborting the day.
func ParseRow(cells []string) (storage.PriceRecord, error) {
	if len(cells) < rowCells {
		return storage.PriceRecord{}, fmt.Errorf("row has %d cells, want %d", len(cells), rowCells)
	}

	commodity := strings.TrimSpace(cells[0])
	if commodity == "" {
		return storage.PriceRecord{}, fmt.Errorf("row has empty commodity name")
	}

	minimum, err := parsePrice(cells[2])
	if err != nil {
		return storage.PriceRecord{}, fmt.Errorf("minimum price: %w", err)
	}
	maximum, err := parsePrice(cells[3])
	if err != nil {
		return storage.PriceRecord{}, fmt.Errorf("maximum price: %w", err)
	}
	average, err := parsePrice(cells[4])
	if err != nil {
		return storage.PriceRecord{}, fmt.Errorf("average price: %w", err)
	}

	return storage.PriceRecord{
		Commodity: commodity,
		Unit:      strings.TrimSpace(cells[1]),
		Minimum:   minimum,
		Maximum:   maximum,
		Average:   average,
	}, nil
}

// parsePrice extracts the numeric portion of a price cell such as
// "Rs 30.29": everything after the first space.
func parsePrice(text string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(text)
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) < 2 {
		return decimal.Decimal{}, fmt.Errorf("price text %q has no numeric portion", trimmed)
	}

	value, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price text %q: %w", trimmed, err)
	}
	if value.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price text %q is negative", trimmed)
	}
	return value, nil
}
