package tracker

import (
	"testing"
	"time"

	"kalimati-price-tracker/internal/storage"
)

func day(dateStr string, recs ...storage.PriceRecord) storage.DailyPrice {
	d, err := time.Parse(storage.DateFormat, dateStr)
	if err != nil {
		panic(err)
	}
	return storage.DailyPrice{Date: d.UTC(), Records: recs}
}

func TestLastKnownSeedNil(t *testing.T) {
	state := NewLastKnown()
	state.Seed(nil)

	if state.Len() != 0 {
		t.Fatalf("empty store must seed an empty map, got %d entries", state.Len())
	}
}

func TestLastKnownCarryForward(t *testing.T) {
	state := NewLastKnown()
	first := day("2025-01-01", record("Tomato", "30.00"), record("Onion", "20.00"))
	state.Seed(&first)

	// Onion absent on the second day: its baseline must survive.
	state.Advance(day("2025-01-02", record("Tomato", "36.00")))

	onion, ok := state.Lookup("Onion")
	if !ok {
		t.Fatal("Onion baseline lost")
	}
	if onion.Average.String() != "20" {
		t.Fatalf("Onion baseline mutated: %s", onion.Average)
	}

	tomato, ok := state.Lookup("Tomato")
	if !ok {
		t.Fatal("Tomato entry missing")
	}
	if tomato.Average.String() != "36" {
		t.Fatalf("Tomato entry should be overwritten, got %s", tomato.Average)
	}

	// Third day: Onion reappears and is compared against the day-1 value.
	prior, _ := state.Lookup("Onion")
	rec, _ := Fluctuation(record("Onion", "21.00"), &prior, threshold)
	if rec.FluctuationValue.String() != "1" {
		t.Fatalf("carry-forward comparison broken: %s", rec.FluctuationValue)
	}
}

func TestLastKnownLookupMissing(t *testing.T) {
	state := NewLastKnown()
	if _, ok := state.Lookup("Pumpkin"); ok {
		t.Fatal("lookup of an unseen commodity must report absence")
	}
}
