// Package kpi computes the dashboard headline cards from the filtered daily
// log and pivot tables. Every calculator degrades to an unavailable card on
// insufficient data instead of failing.
package kpi

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

// Direction tags whether an increasing trend is favorable.
type Direction string

const (
	DirectionNormal  Direction = "normal"  // increasing is good
	DirectionInverse Direction = "inverse" // increasing is bad
	DirectionNeutral Direction = "neutral" // increasing is neither
	DirectionNone    Direction = "none"    // no trend applies
)

// Card is the tagged result of one KPI calculation. Callers must check
// Available before reading the computed fields.
type Card struct {
	Available bool      `json:"available"`
	Value     string    `json:"value"`
	Delta     string    `json:"delta,omitempty"`
	Direction Direction `json:"direction"`
	Insight   string    `json:"insight"`
	Stability string    `json:"stability,omitempty"`
}

func unavailable(insight string) Card {
	return Card{Available: false, Direction: DirectionNone, Insight: insight}
}

// point is one day of a KPI time series.
type point struct {
	Day   time.Time
	Value float64
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sortedSeries(byDay map[time.Time]float64) []point {
	series := make([]point, 0, len(byDay))
	for day, v := range byDay {
		series = append(series, point{Day: day, Value: v})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day.Before(series[j].Day) })
	return series
}

func mean(series []point) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, p := range series {
		sum += p.Value
	}
	return sum / float64(len(series))
}

// stddev is the sample standard deviation, matching the original report's
// day-to-day stability index.
func stddev(series []point) float64 {
	if len(series) < 2 {
		return 0
	}
	m := mean(series)
	var sum float64
	for _, p := range series {
		d := p.Value - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(series)-1))
}

// valueAt looks up the series value for an exact day, falling back to the
// given default when the day is absent.
func valueAt(series []point, day time.Time, fallback float64) float64 {
	for _, p := range series {
		if p.Day.Equal(day) {
			return p.Value
		}
	}
	return fallback
}

// trendOf computes end-of-period minus start-of-period over a non-empty
// series, defaulting missing endpoints to the first and last observations.
func trendOf(series []point, start, end *time.Time) float64 {
	first := series[0]
	last := series[len(series)-1]

	startVal := first.Value
	if start != nil {
		startVal = valueAt(series, dayOf(*start), first.Value)
	}
	endVal := last.Value
	if end != nil {
		endVal = valueAt(series, dayOf(*end), last.Value)
	}
	return endVal - startVal
}

// StockAccuracy measures per-day transactional balance: a day with equal
// inbound and outbound totals scores 100.
func StockAccuracy(legs []domain.MoveLeg, start, end *time.Time) Card {
	if len(legs) == 0 {
		return unavailable("Not enough data.")
	}

	type daySums struct{ in, out float64 }
	days := make(map[time.Time]daySums)
	for _, leg := range legs {
		day := dayOf(leg.Date)
		s := days[day]
		s.in += leg.InboundQty
		s.out += leg.OutboundQty
		days[day] = s
	}

	byDay := make(map[time.Time]float64, len(days))
	for day, s := range days {
		total := s.in + s.out
		if total == 0 {
			byDay[day] = 100
			continue
		}
		byDay[day] = (1 - math.Abs(s.in-s.out)/total) * 100
	}

	series := sortedSeries(byDay)
	avg := mean(series)
	trend := trendOf(series, start, end)
	std := stddev(series)

	var insight string
	switch {
	case avg >= 98:
		insight = "Excellent. Accuracy is consistently high."
	case avg >= 95:
		insight = "Good. Stock movements are reasonably balanced."
	case avg >= 85:
		insight = "Needs attention. Accuracy fluctuates between days."
	default:
		insight = "Low. Stock records look unreliable."
	}

	stability := "Stable performance with low day-to-day variation."
	if std >= 2 {
		stability = fmt.Sprintf("High fluctuation (stddev %.1f). Check consistency.", std)
	}

	return Card{
		Available: true,
		Value:     fmt.Sprintf("%.1f%%", avg),
		Delta:     fmt.Sprintf("%+.1f%% vs period start", trend),
		Direction: DirectionNormal,
		Insight:   insight,
		Stability: stability,
	}
}

// WeightedAccuracy measures per-day accuracy weighted by quantity: the
// absolute adjusted quantity against the total stock managed that day.
func WeightedAccuracy(legs []domain.MoveLeg, start, end *time.Time) Card {
	if len(legs) == 0 {
		return unavailable("Not enough data.")
	}

	type dayAgg struct {
		lastSOH    float64
		adjustment float64
		outbound   float64
	}
	days := make(map[time.Time]*dayAgg)
	for _, leg := range legs {
		day := dayOf(leg.Date)
		agg, ok := days[day]
		if !ok {
			agg = &dayAgg{}
			days[day] = agg
		}
		agg.lastSOH = leg.CumulativeSOH // legs arrive in log order, keep the last
		agg.adjustment += leg.AdjustmentQty
		agg.outbound += leg.OutboundQty
	}

	byDay := make(map[time.Time]float64, len(days))
	for day, agg := range days {
		adjAbs := math.Abs(agg.adjustment)
		managed := agg.lastSOH + agg.outbound
		denominator := math.Max(math.Max(managed, adjAbs), 1)
		accuracy := (1 - adjAbs/denominator) * 100
		if accuracy < 0 {
			accuracy = 0
		}
		byDay[day] = accuracy
	}

	series := sortedSeries(byDay)
	avg := mean(series)
	trend := trendOf(series, start, end)
	std := stddev(series)

	var insight string
	switch {
	case avg >= 95:
		insight = "Excellent. Quantity accuracy is very high."
	case avg >= 90:
		insight = "Good. Quantity accuracy is on target."
	case avg >= 80:
		insight = "Needs attention. Quantity accuracy is below target."
	default:
		insight = "Low. Adjusted quantities dominate stock movement."
	}

	stability := "Stable performance with low day-to-day variation."
	if std >= 3 {
		stability = fmt.Sprintf("High fluctuation (stddev %.1f). Check adjustment volumes.", std)
	}

	return Card{
		Available: true,
		Value:     fmt.Sprintf("%.1f%%", avg),
		Delta:     fmt.Sprintf("%+.1f%% vs period start", trend),
		Direction: DirectionNormal,
		Insight:   insight,
		Stability: stability,
	}
}

// SKUAdjusted counts distinct SKUs touched by adjustment references per day;
// the headline is the sum over the period. An increasing trend is bad.
func SKUAdjusted(legs []domain.MoveLeg, start, end *time.Time) Card {
	skusByDay := make(map[time.Time]map[string]struct{})
	for _, leg := range legs {
		if !domain.IsAdjustmentReference(leg.Reference) {
			continue
		}
		day := dayOf(leg.Date)
		if skusByDay[day] == nil {
			skusByDay[day] = make(map[string]struct{})
		}
		skusByDay[day][leg.SKU] = struct{}{}
	}

	if len(skusByDay) == 0 {
		return unavailable("No adjusted SKUs in this period.")
	}

	byDay := make(map[time.Time]float64, len(skusByDay))
	var total float64
	for day, skus := range skusByDay {
		byDay[day] = float64(len(skus))
		total += float64(len(skus))
	}

	series := sortedSeries(byDay)
	avg := mean(series)
	trend := trendOf(series, start, end)
	std := stddev(series)

	var insight string
	switch {
	case avg <= 1:
		insight = "Very good. SKU adjustments are minimal."
	case avg <= 5:
		insight = "Good. Adjustment volume is under control."
	case avg <= 15:
		insight = "Needs attention. SKUs are adjusted fairly often."
	default:
		insight = "High. Too many SKUs are being adjusted."
	}

	stability := "Stable adjustment pattern."
	if std >= 1 {
		stability = fmt.Sprintf("High fluctuation (stddev %.1f). Check adjustment patterns.", std)
	}

	return Card{
		Available: true,
		Value:     fmt.Sprintf("%.0f", total),
		Delta:     fmt.Sprintf("%+.0f SKU/day vs period start", trend),
		Direction: DirectionInverse,
		Insight:   insight,
		Stability: stability,
	}
}

// SKUVariance is a snapshot over the pivot: how many SKUs sit at negative
// SOH, and by how much in total. It carries no trend.
func SKUVariance(rows []domain.PivotRow) Card {
	if len(rows) == 0 {
		return unavailable("No SOH data.")
	}

	negativeSKUs := make(map[string]struct{})
	var negativeTotal float64
	for _, row := range rows {
		if row.SOH < 0 {
			negativeSKUs[row.SKU] = struct{}{}
			negativeTotal += row.SOH
		}
	}

	var insight string
	switch {
	case len(negativeSKUs) == 0:
		insight = "Excellent. No negative SOH."
	case len(negativeSKUs) <= 5:
		insight = "Needs attention. Some SKUs have negative SOH."
	default:
		insight = "Critical. Many SKUs have negative SOH."
	}

	return Card{
		Available: true,
		Value:     fmt.Sprintf("%d", len(negativeSKUs)),
		Direction: DirectionNone,
		Insight:   insight,
		Stability: fmt.Sprintf("Total negative quantity: %.0f", negativeTotal),
	}
}

// ActiveLocations averages the number of distinct transacting locations per
// day. The trend direction is neutral.
func ActiveLocations(legs []domain.MoveLeg, start, end *time.Time) Card {
	if len(legs) == 0 {
		return unavailable("No transactions.")
	}

	locsByDay := make(map[time.Time]map[string]struct{})
	for _, leg := range legs {
		day := dayOf(leg.Date)
		if locsByDay[day] == nil {
			locsByDay[day] = make(map[string]struct{})
		}
		locsByDay[day][leg.Location] = struct{}{}
	}

	byDay := make(map[time.Time]float64, len(locsByDay))
	for day, locs := range locsByDay {
		byDay[day] = float64(len(locs))
	}

	series := sortedSeries(byDay)
	avg := mean(series)
	trend := trendOf(series, start, end)
	std := stddev(series)

	var insight string
	switch {
	case avg <= 5:
		insight = "Highly concentrated. Activity sits in a few locations."
	case avg <= 15:
		insight = "Concentrated. Activity is focused."
	default:
		insight = "Distributed. Activity spans many locations."
	}

	stability := "Stable activity with a consistent location count."
	if std >= 2 {
		stability = fmt.Sprintf("High fluctuation (stddev %.1f). Activity pattern is erratic.", std)
	}

	return Card{
		Available: true,
		Value:     fmt.Sprintf("%.1f", avg),
		Delta:     fmt.Sprintf("%+.0f locations/day vs period start", trend),
		Direction: DirectionNeutral,
		Insight:   insight,
		Stability: stability,
	}
}

// Cards evaluates all five dashboard cards over the filtered views.
func Cards(legs []domain.MoveLeg, pivot []domain.PivotRow, start, end *time.Time) map[string]Card {
	return map[string]Card{
		"stock_accuracy":    StockAccuracy(legs, start, end),
		"weighted_accuracy": WeightedAccuracy(legs, start, end),
		"sku_adjusted":      SKUAdjusted(legs, start, end),
		"sku_variance":      SKUVariance(pivot),
		"active_locations":  ActiveLocations(legs, start, end),
	}
}
