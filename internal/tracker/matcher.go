package tracker

import (
	"kalimati-price-tracker/internal/storage"
)

// Delivery pairs one subscriber with the significant records that matched
// their watch-list.
type Delivery struct {
	Subscriber storage.Subscriber
	Records    []storage.PriceRecord
}

// Match computes, for every subscriber, the intersection of their watch-list
// with the day's significant records, preserving the records' own
// fluctuation fields and their snapshot order. Subscribers with no match are
// omitted.
func Match(significant []storage.PriceRecord, subs []storage.Subscriber) []Delivery {
	if len(significant) == 0 || len(subs) == 0 {
		return nil
	}

	var deliveries []Delivery
	for _, sub := range subs {
		watched := make(map[string]struct{}, len(sub.Commodities))
		for _, name := range sub.Commodities {
			watched[name] = struct{}{}
		}

		var matched []storage.PriceRecord
		for _, rec := range significant {
			if _, ok := watched[rec.Commodity]; ok {
				matched = append(matched, rec)
			}
		}
		if len(matched) > 0 {
			deliveries = append(deliveries, Delivery{Subscriber: sub, Records: matched})
		}
	}
	return deliveries
}
