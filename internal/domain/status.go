// internal/domain/status.go
package domain

import (
	"fmt"
	"strings"
)

// MovesCategory classifies movement velocity from trailing daily usage.
type MovesCategory string

const (
	MovesFast   MovesCategory = "Fast"
	MovesMedium MovesCategory = "Medium"
	MovesSlow   MovesCategory = "Slow"
)

// ReplenishmentStatus is the three-tier alert level for a stock position.
type ReplenishmentStatus string

const (
	StatusDanger ReplenishmentStatus = "Danger"
	StatusAlert  ReplenishmentStatus = "Alert"
	StatusSafe   ReplenishmentStatus = "Safe"
)

// adjustmentMarkers are the Odoo reference fragments that mark a transaction
// as an inventory count correction rather than a physical move.
var adjustmentMarkers = []string{
	"product quantity updated",
	"product quantity confirmed",
}

// IsAdjustmentReference reports whether a move reference marks an inventory
// adjustment. Matching is case-insensitive substring containment.
func IsAdjustmentReference(reference string) bool {
	lower := strings.ToLower(reference)
	for _, marker := range adjustmentMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ClassifyUsage maps trailing average daily usage to a velocity class and its
// replenishment lead time in days. Thresholds are strict: usage of exactly
// 1.0 is Medium and exactly 0.1 is Slow.
func ClassifyUsage(dailyUsage float64) (MovesCategory, float64) {
	switch {
	case dailyUsage > 1.0:
		return MovesFast, 21
	case dailyUsage > 0.1:
		return MovesMedium, 14
	default:
		return MovesSlow, 7
	}
}

// ReplenishmentDecision derives the alert status and the recommended action
// for a stock position. A ratio of exactly 0.5 is Alert, not Danger, and a
// ratio of exactly 1.0 is still Alert.
func ReplenishmentDecision(soh, bufferStock, shortage float64) (ReplenishmentStatus, string) {
	if bufferStock == 0 {
		if soh < 0 {
			return StatusDanger, "Negative SOH"
		}
		return StatusDanger, "Zero buffer / no usage"
	}

	ratio := soh / bufferStock
	switch {
	case ratio < 0.5:
		return StatusDanger, fmt.Sprintf("Critical stock (<50%% buffer). Replenish %.0f units.", shortage)
	case ratio <= 1.0 && shortage > 0:
		return StatusAlert, fmt.Sprintf("Replenish soon (%.0f units)", shortage)
	case ratio <= 1.0:
		return StatusAlert, "At buffer level"
	default:
		return StatusSafe, "Stock sufficient"
	}
}
