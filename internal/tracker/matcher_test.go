package tracker

import (
	"testing"

	"kalimati-price-tracker/internal/storage"
)

func TestMatchIntersection(t *testing.T) {
	significant := []storage.PriceRecord{
		record("Tomato", "36.00"),
		record("Onion", "24.00"),
	}
	subs := []storage.Subscriber{
		{Email: "a@example.com", Commodities: []string{"Tomato"}},
		{Email: "b@example.com", Commodities: []string{"Cabbage"}},
		{Email: "c@example.com", Commodities: []string{"Onion", "Tomato", "Garlic"}},
	}

	deliveries := Match(significant, subs)

	if len(deliveries) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(deliveries))
	}

	first := deliveries[0]
	if first.Subscriber.Email != "a@example.com" {
		t.Fatalf("unexpected recipient: %s", first.Subscriber.Email)
	}
	if len(first.Records) != 1 || first.Records[0].Commodity != "Tomato" {
		t.Fatalf("payload must be exactly the intersection, got %+v", first.Records)
	}

	second := deliveries[1]
	if second.Subscriber.Email != "c@example.com" {
		t.Fatalf("unexpected recipient: %s", second.Subscriber.Email)
	}
	if len(second.Records) != 2 {
		t.Fatalf("expected 2 matched records, got %d", len(second.Records))
	}
	// Snapshot order is preserved regardless of watch-list order.
	if second.Records[0].Commodity != "Tomato" || second.Records[1].Commodity != "Onion" {
		t.Fatalf("matched records out of order: %+v", second.Records)
	}
}

func TestMatchNoSignificant(t *testing.T) {
	subs := []storage.Subscriber{{Email: "a@example.com", Commodities: []string{"Tomato"}}}
	if got := Match(nil, subs); got != nil {
		t.Fatalf("expected no deliveries, got %+v", got)
	}
}

func TestMatchNoSubscribers(t *testing.T) {
	significant := []storage.PriceRecord{record("Tomato", "36.00")}
	if got := Match(significant, nil); got != nil {
		t.Fatalf("expected no deliveries, got %+v", got)
	}
}
