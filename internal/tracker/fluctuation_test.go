package tracker

import (
	"testing"

	"github.com/shopspring/decimal"

	"kalimati-price-tracker/internal/storage"
)

var threshold = decimal.NewFromInt(15)

func record(name string, average string) storage.PriceRecord {
	return storage.PriceRecord{
		Commodity: name,
		Unit:      "Kg",
		Minimum:   decimal.RequireFromString(average),
		Maximum:   decimal.RequireFromString(average),
		Average:   decimal.RequireFromString(average),
	}
}

func TestFluctuationNoPrior(t *testing.T) {
	rec, zeroBase := Fluctuation(record("Tomato", "30.00"), nil, threshold)

	if zeroBase {
		t.Fatal("nil prior must not be reported as a zero baseline")
	}
	if !rec.FluctuationValue.IsZero() {
		t.Fatalf("value should be zero, got %s", rec.FluctuationValue)
	}
	if !rec.FluctuationPercentage.IsZero() {
		t.Fatalf("percentage should be zero, got %s", rec.FluctuationPercentage)
	}
	if rec.Significant {
		t.Fatal("record without prior must not be significant")
	}
}

func TestFluctuationSignificantRise(t *testing.T) {
	prior := record("Tomato", "30.00")
	rec, _ := Fluctuation(record("Tomato", "36.00"), &prior, threshold)

	if rec.FluctuationValue.String() != "6" {
		t.Fatalf("expected value 6, got %s", rec.FluctuationValue)
	}
	if rec.FluctuationPercentage.String() != "20" {
		t.Fatalf("expected percentage 20, got %s", rec.FluctuationPercentage)
	}
	if !rec.Significant {
		t.Fatal("20% move must be significant")
	}
}

func TestFluctuationInsignificantDrop(t *testing.T) {
	prior := record("Onion", "20.00")
	rec, _ := Fluctuation(record("Onion", "21.00"), &prior, threshold)

	if rec.FluctuationValue.String() != "1" {
		t.Fatalf("expected value 1, got %s", rec.FluctuationValue)
	}
	if rec.FluctuationPercentage.String() != "5" {
		t.Fatalf("expected percentage 5, got %s", rec.FluctuationPercentage)
	}
	if rec.Significant {
		t.Fatal("5% move must not be significant")
	}
}

func TestFluctuationNegativeMove(t *testing.T) {
	prior := record("Cabbage", "40.00")
	rec, _ := Fluctuation(record("Cabbage", "33.10"), &prior, threshold)

	if rec.FluctuationValue.String() != "-6.9" {
		t.Fatalf("expected value -6.9, got %s", rec.FluctuationValue)
	}
	if rec.FluctuationPercentage.String() != "-17.25" {
		t.Fatalf("expected percentage -17.25, got %s", rec.FluctuationPercentage)
	}
	if !rec.Significant {
		t.Fatal("a -17.25% move must be significant")
	}
}

func TestFluctuationRounding(t *testing.T) {
	prior := record("Ginger", "30.00")
	rec, _ := Fluctuation(record("Ginger", "30.333"), &prior, threshold)

	if rec.FluctuationValue.String() != "0.33" {
		t.Fatalf("value must round to 2 places, got %s", rec.FluctuationValue)
	}
	// Percentage is computed from the rounded value: 0.33/30*100 = 1.1.
	if rec.FluctuationPercentage.String() != "1.1" {
		t.Fatalf("percentage must round to 2 places, got %s", rec.FluctuationPercentage)
	}
}

func TestFluctuationZeroPrior(t *testing.T) {
	prior := record("Garlic", "0.00")
	rec, zeroBase := Fluctuation(record("Garlic", "12.00"), &prior, threshold)

	if !zeroBase {
		t.Fatal("zero prior average must be reported")
	}
	if rec.FluctuationValue.String() != "12" {
		t.Fatalf("value delta still applies, got %s", rec.FluctuationValue)
	}
	if !rec.FluctuationPercentage.IsZero() {
		t.Fatalf("percentage is undefined for zero prior, want 0, got %s", rec.FluctuationPercentage)
	}
	if rec.Significant {
		t.Fatal("zero prior must not trigger significance")
	}
}

func TestFluctuationThresholdBoundary(t *testing.T) {
	prior := record("Carrot", "100.00")
	rec, _ := Fluctuation(record("Carrot", "115.00"), &prior, threshold)

	if !rec.Significant {
		t.Fatal("exactly 15% must count as significant")
	}

	rec, _ = Fluctuation(record("Carrot", "114.99"), &prior, threshold)
	if rec.Significant {
		t.Fatal("14.99% must not count as significant")
	}
}
