package pipeline

import (
	"sort"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

type pivotKey struct {
	SKU      string
	SKUName  string
	Location string
	Category domain.LocationCategory
}

// BuildPivot aggregates legs into one row per Location x SKU. Inbound,
// outbound and SOH sums exclude partner/virtual categories; adjustment sums
// cover the unfiltered leg set. Only Pool and Bengkel Rekanan rows survive
// the final cut, but every category participates in the aggregate SOH join.
func BuildPivot(legs []domain.MoveLeg, usage map[domain.UsageKey]float64, agg map[string]domain.AggregateSOH) []domain.PivotRow {
	// Adjustment aggregates come from the unfiltered set.
	type adjSums struct{ qty, inc, dec float64 }
	adjustments := make(map[domain.UsageKey]adjSums)
	for _, leg := range legs {
		key := domain.UsageKey{SKU: leg.SKU, Location: leg.Location}
		s := adjustments[key]
		s.qty += leg.AdjustmentQty
		s.inc += leg.AdjustmentIncrease
		s.dec += leg.AdjustmentDecrease
		adjustments[key] = s
	}

	groups := make(map[pivotKey]*domain.PivotRow)
	for _, leg := range legs {
		if leg.LocationCategory.IsExcludedFromStock() {
			continue
		}
		key := pivotKey{SKU: leg.SKU, SKUName: leg.SKUName, Location: leg.Location, Category: leg.LocationCategory}
		row, ok := groups[key]
		if !ok {
			row = &domain.PivotRow{
				SKU:              key.SKU,
				SKUName:          key.SKUName,
				Location:         key.Location,
				LocationCategory: key.Category,
			}
			groups[key] = row
		}
		row.InboundQty += leg.InboundQty
		row.OutboundQty += leg.OutboundQty
	}

	rows := make([]domain.PivotRow, 0, len(groups))
	for key, row := range groups {
		row.SOH = row.InboundQty - row.OutboundQty

		adjKey := domain.UsageKey{SKU: key.SKU, Location: key.Location}
		if s, ok := adjustments[adjKey]; ok {
			row.AdjustmentQty = s.qty
			row.AdjustmentIncrease = s.inc
			row.AdjustmentDecrease = s.dec
		}

		row.DailyUsage = usage[adjKey]
		row.MovesCategory, row.LeadTimeDays = domain.ClassifyUsage(row.DailyUsage)
		row.BufferStock = row.DailyUsage * row.LeadTimeDays
		row.Shortage = row.BufferStock - row.SOH
		if row.Shortage < 0 {
			row.Shortage = 0
		}
		row.Status, row.Action = domain.ReplenishmentDecision(row.SOH, row.BufferStock, row.Shortage)

		if a, ok := agg[key.SKU]; ok {
			row.CentralSOH = a.CentralSOH
			row.ManufactureSOH = a.ManufactureSOH
		}

		if row.LocationCategory.IsReplenishable() {
			rows = append(rows, *row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		if a.SKUName != b.SKUName {
			return a.SKUName < b.SKUName
		}
		return a.Location < b.Location
	})

	return rows
}

// BuildDailyLog annotates balance-ordered legs with the usage and
// replenishment policy columns and restricts the log to the replenishable
// categories. One row per leg, sorted by (Location, SKU, Date).
func BuildDailyLog(legs []domain.MoveLeg, usage map[domain.UsageKey]float64) []domain.MoveLeg {
	log := make([]domain.MoveLeg, 0, len(legs))
	for _, leg := range legs {
		if leg.LocationCategory.IsExcludedFromStock() {
			continue
		}
		applyPolicy(&leg, usage[domain.UsageKey{SKU: leg.SKU, Location: leg.Location}])
		if leg.LocationCategory.IsReplenishable() {
			log = append(log, leg)
		}
	}
	return log
}

// FilterByType projects the daily log down to one movement direction,
// preserving columns and order.
func FilterByType(log []domain.MoveLeg, typ domain.MoveType) []domain.MoveLeg {
	out := make([]domain.MoveLeg, 0, len(log))
	for _, leg := range log {
		if leg.Type == typ {
			out = append(out, leg)
		}
	}
	return out
}
