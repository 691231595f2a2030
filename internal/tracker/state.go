package tracker

import (
	"kalimati-price-tracker/internal/storage"
)

// LastKnown maps each commodity to its most recent observed record. Entries
// are only ever overwritten, never removed: a commodity missing from a day's
// snapshot keeps its old baseline (carry-forward).
type LastKnown struct {
	records map[string]storage.PriceRecord
}

// NewLastKnown returns an empty state map.
func NewLastKnown() *LastKnown {
	return &LastKnown{records: make(map[string]storage.PriceRecord)}
}

// Seed initialises the map from the most recently persisted snapshot. A nil
// snapshot (empty store) leaves the map empty.
func (l *LastKnown) Seed(day *storage.DailyPrice) {
	if day == nil {
		return
	}
	l.Advance(*day)
}

// Advance overwrites the entry for every commodity present in the snapshot.
// Must only be called once the snapshot is durably persisted.
func (l *LastKnown) Advance(day storage.DailyPrice) {
	for _, rec := range day.Records {
		l.records[rec.Commodity] = rec
	}
}

// Lookup returns the last known record for a commodity.
func (l *LastKnown) Lookup(commodity string) (storage.PriceRecord, bool) {
	rec, ok := l.records[commodity]
	return rec, ok
}

// Len reports the number of tracked commodities.
func (l *LastKnown) Len() int {
	return len(l.records)
}
