// internal/domain/models.go
package domain

import "time"

// MoveType distinguishes the two legs derived from every warehouse transaction.
type MoveType string

const (
	MoveInbound  MoveType = "Inbound"
	MoveOutbound MoveType = "Outbound"
)

// RawMove is a single row from the Odoo moves export. One raw move is later
// expanded into an inbound and an outbound leg.
type RawMove struct {
	Date      time.Time
	DateValid bool // false when the Date column failed to parse; such rows are dropped at normalization
	Product   string
	Status    string
	Reference string
	Quantity  float64
	From      string
	To        string
	CreatedBy string
	Contact   string
}

// MoveLeg is one side (inbound or outbound) of a raw move, annotated through
// the pipeline stages: normalization fills the identity and quantity fields,
// the balance stage fills CumulativeSOH, and the policy stage fills the
// usage/replenishment fields.
type MoveLeg struct {
	Date      time.Time
	CreatedBy string
	Reference string
	Contact   string

	Location         string
	LocationCategory LocationCategory
	SKU              string
	SKUName          string
	Type             MoveType

	Quantity    float64
	InboundQty  float64
	OutboundQty float64
	SignedQty   float64 // +Quantity for inbound, -Quantity for outbound

	AdjustmentQty      float64 // SignedQty when the reference marks an inventory adjustment, else 0
	AdjustmentIncrease float64
	AdjustmentDecrease float64

	CumulativeSOH float64

	DailyUsage          float64
	MovesCategory       MovesCategory
	LeadTimeDays        float64
	BufferStock         float64
	Shortage            float64
	StatusReplenishment ReplenishmentStatus
}

// PivotRow aggregates all legs at one Location x SKU into a replenishment
// recommendation. Only Pool and Bengkel Rekanan locations surface as rows.
type PivotRow struct {
	SKU              string
	SKUName          string
	Location         string
	LocationCategory LocationCategory
	Status           ReplenishmentStatus
	Action           string

	SOH         float64 // InboundQty - OutboundQty over the filtered leg set
	InboundQty  float64
	OutboundQty float64

	// Adjustment sums cover the unfiltered leg set, including partner and
	// virtual locations. This asymmetry with SOH is intentional.
	AdjustmentQty      float64
	AdjustmentIncrease float64
	AdjustmentDecrease float64

	DailyUsage    float64
	MovesCategory MovesCategory
	LeadTimeDays  float64
	BufferStock   float64
	Shortage      float64

	CentralSOH     float64
	ManufactureSOH float64
}

// AggregateSOH holds the signed-quantity sums for the two supply categories,
// joined into pivot rows by SKU.
type AggregateSOH struct {
	CentralSOH     float64
	ManufactureSOH float64
}

// UsageKey identifies a daily-usage figure.
type UsageKey struct {
	SKU      string
	Location string
}
