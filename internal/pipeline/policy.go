package pipeline

import (
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

// usageWindowDays is the trailing window over which average daily usage is
// computed, anchored at the latest date observed in the usage subset itself
// rather than at wall-clock now.
const usageWindowDays = 90

// ComputeUsage derives trailing average daily usage per (SKU, Location).
// The usage subset is: outbound legs whose reference is not an adjustment and
// whose location category is not partner/virtual, restricted to the 90 days
// (inclusive) up to the maximum date present in that subset. An empty subset
// yields an empty map; callers default missing keys to 0.
func ComputeUsage(legs []domain.MoveLeg) map[domain.UsageKey]float64 {
	eligible := make([]domain.MoveLeg, 0, len(legs))
	var maxDate time.Time
	for _, leg := range legs {
		if leg.Type != domain.MoveOutbound {
			continue
		}
		if leg.LocationCategory.IsExcludedFromStock() {
			continue
		}
		if domain.IsAdjustmentReference(leg.Reference) {
			continue
		}
		eligible = append(eligible, leg)
		if leg.Date.After(maxDate) {
			maxDate = leg.Date
		}
	}

	usage := make(map[domain.UsageKey]float64)
	if len(eligible) == 0 {
		return usage
	}

	for _, leg := range eligible {
		// Whole days between the anchor and the leg, matching the
		// truncating day arithmetic of the original report.
		days := int(maxDate.Sub(leg.Date).Hours() / 24)
		if days > usageWindowDays {
			continue
		}
		key := domain.UsageKey{SKU: leg.SKU, Location: leg.Location}
		usage[key] += leg.OutboundQty
	}

	for key, total := range usage {
		usage[key] = total / usageWindowDays
	}

	return usage
}

// applyPolicy fills the velocity, buffer and replenishment columns on a leg
// using its running balance as the stock position.
func applyPolicy(leg *domain.MoveLeg, dailyUsage float64) {
	leg.DailyUsage = dailyUsage
	leg.MovesCategory, leg.LeadTimeDays = domain.ClassifyUsage(dailyUsage)
	leg.BufferStock = dailyUsage * leg.LeadTimeDays
	leg.Shortage = leg.BufferStock - leg.CumulativeSOH
	if leg.Shortage < 0 {
		leg.Shortage = 0
	}
	leg.StatusReplenishment, _ = domain.ReplenishmentDecision(leg.CumulativeSOH, leg.BufferStock, leg.Shortage)
}
