package pipeline

import (
	"sort"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

// ComputeBalances sorts legs by (Location, SKU, Date) and fills the running
// cumulative stock-on-hand within each (Location, SKU) partition. The sort is
// stable, so legs tied on all three keys keep their normalization order.
func ComputeBalances(legs []domain.MoveLeg) []domain.MoveLeg {
	sorted := make([]domain.MoveLeg, len(legs))
	copy(sorted, legs)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.Date.Before(b.Date)
	})

	var (
		curLocation string
		curSKU      string
		running     float64
		started     bool
	)
	for i := range sorted {
		leg := &sorted[i]
		if !started || leg.Location != curLocation || leg.SKU != curSKU {
			curLocation = leg.Location
			curSKU = leg.SKU
			running = 0
			started = true
		}
		running += leg.SignedQty
		leg.CumulativeSOH = running
	}

	return sorted
}

// ComputeAggregateSOH sums signed quantities per SKU for the Central
// Warehouse and Manufacture categories over the unfiltered leg set. SKUs with
// no activity in a category report 0 for that column.
func ComputeAggregateSOH(legs []domain.MoveLeg) map[string]domain.AggregateSOH {
	agg := make(map[string]domain.AggregateSOH)
	for _, leg := range legs {
		if !leg.LocationCategory.IsSupplySide() {
			continue
		}
		entry := agg[leg.SKU]
		switch leg.LocationCategory {
		case domain.CategoryCentralWarehouse:
			entry.CentralSOH += leg.SignedQty
		case domain.CategoryManufacture:
			entry.ManufactureSOH += leg.SignedQty
		}
		agg[leg.SKU] = entry
	}
	return agg
}
