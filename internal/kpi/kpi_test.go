package kpi

import (
	"testing"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStockAccuracyBalancedDays(t *testing.T) {
	legs := []domain.MoveLeg{
		{Date: day("2025-03-01"), InboundQty: 10},
		{Date: day("2025-03-01"), OutboundQty: 10},
	}

	card := StockAccuracy(legs, nil, nil)
	if !card.Available {
		t.Fatal("card should be available")
	}
	if card.Value != "100.0%" {
		t.Errorf("value = %q, want 100.0%%", card.Value)
	}
	if card.Direction != DirectionNormal {
		t.Errorf("direction = %q, want normal", card.Direction)
	}
}

func TestStockAccuracyZeroMovementDayScoresFull(t *testing.T) {
	legs := []domain.MoveLeg{
		{Date: day("2025-03-01")}, // no quantities at all
	}
	card := StockAccuracy(legs, nil, nil)
	if card.Value != "100.0%" {
		t.Errorf("value = %q, want 100.0%% for a zero-movement day", card.Value)
	}
}

func TestStockAccuracyImbalance(t *testing.T) {
	legs := []domain.MoveLeg{
		{Date: day("2025-03-01"), InboundQty: 30},
		{Date: day("2025-03-01"), OutboundQty: 10},
	}
	// (1 - |30-10| / 40) * 100 = 50
	card := StockAccuracy(legs, nil, nil)
	if card.Value != "50.0%" {
		t.Errorf("value = %q, want 50.0%%", card.Value)
	}
}

func TestStockAccuracyEmpty(t *testing.T) {
	card := StockAccuracy(nil, nil, nil)
	if card.Available {
		t.Error("card over no legs should be unavailable")
	}
	if card.Direction != DirectionNone {
		t.Errorf("direction = %q, want none", card.Direction)
	}
}

func TestWeightedAccuracy(t *testing.T) {
	legs := []domain.MoveLeg{
		{Date: day("2025-03-01"), OutboundQty: 50, AdjustmentQty: 30, CumulativeSOH: 80},
		{Date: day("2025-03-01"), CumulativeSOH: 100}, // last leg of the day sets TotalSOH
	}
	// denominator = max(100 + 50, |30|, 1) = 150; (1 - 30/150) * 100 = 80
	card := WeightedAccuracy(legs, nil, nil)
	if !card.Available {
		t.Fatal("card should be available")
	}
	if card.Value != "80.0%" {
		t.Errorf("value = %q, want 80.0%%", card.Value)
	}
}

func TestWeightedAccuracyClampedAtZero(t *testing.T) {
	legs := []domain.MoveLeg{
		{Date: day("2025-03-01"), AdjustmentQty: -200, CumulativeSOH: 0},
	}
	// denominator = max(0, 200, 1) = 200; 1 - 200/200 = 0
	card := WeightedAccuracy(legs, nil, nil)
	if card.Value != "0.0%" {
		t.Errorf("value = %q, want 0.0%%", card.Value)
	}
}

func TestSKUAdjusted(t *testing.T) {
	adj := func(d, sku string) domain.MoveLeg {
		return domain.MoveLeg{Date: day(d), SKU: sku, Reference: "Product Quantity Updated"}
	}
	legs := []domain.MoveLeg{
		adj("2025-03-01", "A"),
		adj("2025-03-01", "A"), // same SKU same day counts once
		adj("2025-03-01", "B"),
		adj("2025-03-02", "C"),
		{Date: day("2025-03-02"), SKU: "D", Reference: "WH/OUT/001"}, // not an adjustment
	}

	card := SKUAdjusted(legs, nil, nil)
	if !card.Available {
		t.Fatal("card should be available")
	}
	if card.Value != "3" {
		t.Errorf("value = %q, want 3 (2 SKUs day one + 1 SKU day two)", card.Value)
	}
	if card.Direction != DirectionInverse {
		t.Errorf("direction = %q, want inverse", card.Direction)
	}
}

func TestSKUAdjustedNoAdjustments(t *testing.T) {
	legs := []domain.MoveLeg{
		{Date: day("2025-03-01"), SKU: "A", Reference: "WH/OUT/001"},
	}
	card := SKUAdjusted(legs, nil, nil)
	if card.Available {
		t.Error("card without adjustment rows should be unavailable")
	}
}

func TestSKUVariance(t *testing.T) {
	rows := []domain.PivotRow{
		{SKU: "A", Location: "Pool A", SOH: -5},
		{SKU: "A", Location: "Pool B", SOH: -3}, // same SKU counted once
		{SKU: "B", Location: "Pool A", SOH: -2},
		{SKU: "C", Location: "Pool A", SOH: 10},
	}

	card := SKUVariance(rows)
	if !card.Available {
		t.Fatal("card should be available")
	}
	if card.Value != "2" {
		t.Errorf("value = %q, want 2 distinct negative SKUs", card.Value)
	}
	if card.Stability != "Total negative quantity: -10" {
		t.Errorf("stability = %q, want total -10", card.Stability)
	}
	if card.Delta != "" || card.Direction != DirectionNone {
		t.Error("variance card should carry no trend")
	}
}

func TestActiveLocations(t *testing.T) {
	legs := []domain.MoveLeg{
		{Date: day("2025-03-01"), Location: "Pool A"},
		{Date: day("2025-03-01"), Location: "Pool B"},
		{Date: day("2025-03-02"), Location: "Pool A"},
		{Date: day("2025-03-02"), Location: "Pool B"},
		{Date: day("2025-03-02"), Location: "Pool C"},
		{Date: day("2025-03-02"), Location: "Pool D"},
	}

	card := ActiveLocations(legs, nil, nil)
	if !card.Available {
		t.Fatal("card should be available")
	}
	if card.Value != "3.0" {
		t.Errorf("value = %q, want 3.0 (mean of 2 and 4)", card.Value)
	}
	if card.Direction != DirectionNeutral {
		t.Errorf("direction = %q, want neutral", card.Direction)
	}
}

func TestTrendEndpointFallbacks(t *testing.T) {
	series := []point{
		{Day: day("2025-03-01"), Value: 10},
		{Day: day("2025-03-03"), Value: 25},
		{Day: day("2025-03-05"), Value: 30},
	}

	// Nil bounds default to first and last observations.
	if got := trendOf(series, nil, nil); got != 20 {
		t.Errorf("trend with nil bounds = %v, want 20", got)
	}

	// Exact-day bounds use that day's value.
	start := day("2025-03-03")
	end := day("2025-03-05")
	if got := trendOf(series, &start, &end); got != 5 {
		t.Errorf("trend with exact bounds = %v, want 5", got)
	}

	// A bound on a missing day falls back to the endpoint observation.
	missing := day("2025-03-02")
	if got := trendOf(series, &missing, nil); got != 20 {
		t.Errorf("trend with missing start day = %v, want 20", got)
	}
}

func TestCardsEmptyInputs(t *testing.T) {
	cards := Cards(nil, nil, nil, nil)
	if len(cards) != 5 {
		t.Fatalf("got %d cards, want 5", len(cards))
	}
	for name, card := range cards {
		if card.Available {
			t.Errorf("card %q should be unavailable with no data", name)
		}
		if card.Insight == "" {
			t.Errorf("card %q should still carry an insight", name)
		}
	}
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC)

	rng := ResolvePeriod(Period7d, now, nil, nil)
	if rng.Start == nil || rng.End == nil {
		t.Fatal("preset should produce both bounds")
	}
	if got := rng.End.Sub(*rng.Start); got != 6*24*time.Hour {
		t.Errorf("7d span = %v, want 6 days between bounds", got)
	}
	if rng.Label != "Last 7 Days" {
		t.Errorf("label = %q", rng.Label)
	}

	rng = ResolvePeriod(PeriodAll, now, nil, nil)
	if rng.Start != nil || rng.End != nil {
		t.Error("all-time period should be unbounded")
	}

	custom := day("2025-01-01")
	rng = ResolvePeriod(PeriodCustom, now, &custom, nil)
	if rng.Start == nil || !rng.Start.Equal(custom) {
		t.Error("custom period should pass bounds through")
	}
	if rng.Label != "From 2025-01-01" {
		t.Errorf("custom label = %q", rng.Label)
	}
}
