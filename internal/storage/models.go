package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the canonical calendar-day key format used throughout.
const DateFormat = "2006-01-02"

// PriceRecord is one commodity's observation on one date.
type PriceRecord struct {
	Commodity             string          `json:"commodity"`
	Unit                  string          `json:"unit"`
	Minimum               decimal.Decimal `json:"minimum"`
	Maximum               decimal.Decimal `json:"maximum"`
	Average               decimal.Decimal `json:"average"`
	FluctuationValue      decimal.Decimal `json:"fluctuationValue"`
	FluctuationPercentage decimal.Decimal `json:"fluctuationPercentage"`
	Significant           bool            `json:"isSignificant"`
}

// DailyPrice is one calendar day's full snapshot, keyed by Date.
type DailyPrice struct {
	Date      time.Time
	Records   []PriceRecord
	CreatedAt time.Time
}

// Subscriber holds a recipient address and the commodities they watch.
type Subscriber struct {
	Email       string
	Commodities []string
	CreatedAt   time.Time
}
