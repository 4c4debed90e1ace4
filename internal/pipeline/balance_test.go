package pipeline

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

func poolLeg(sku, location, date string, signed float64) domain.MoveLeg {
	leg := domain.MoveLeg{
		Date:             day(date),
		SKU:              sku,
		Location:         location,
		LocationCategory: domain.ClassifyLocation(location),
		SignedQty:        signed,
	}
	if signed >= 0 {
		leg.Type = domain.MoveInbound
		leg.InboundQty = signed
	} else {
		leg.Type = domain.MoveOutbound
		leg.OutboundQty = -signed
	}
	leg.Quantity = leg.InboundQty + leg.OutboundQty
	return leg
}

func TestComputeBalancesRunningSum(t *testing.T) {
	legs := []domain.MoveLeg{
		poolLeg("A1", "Pool B", "2025-03-02", -4),
		poolLeg("A1", "Pool A", "2025-03-01", 10),
		poolLeg("A1", "Pool A", "2025-03-03", -3),
		poolLeg("A1", "Pool A", "2025-03-02", 5),
	}

	sorted := ComputeBalances(legs)
	if len(sorted) != 4 {
		t.Fatalf("got %d legs, want 4", len(sorted))
	}

	// Pool A partition first (sorted by location), in date order.
	wantSOH := []float64{10, 15, 12, -4}
	for i, want := range wantSOH {
		if sorted[i].CumulativeSOH != want {
			t.Errorf("leg %d cumulative SOH = %v, want %v", i, sorted[i].CumulativeSOH, want)
		}
	}
}

func TestComputeBalancesPartitionIsolation(t *testing.T) {
	legs := []domain.MoveLeg{
		poolLeg("A1", "Pool A", "2025-03-01", 10),
		poolLeg("B2", "Pool A", "2025-03-02", 7),
	}

	sorted := ComputeBalances(legs)
	if sorted[0].CumulativeSOH != 10 || sorted[1].CumulativeSOH != 7 {
		t.Errorf("partitions leaked: got %v and %v", sorted[0].CumulativeSOH, sorted[1].CumulativeSOH)
	}
}

func TestComputeBalancesLastEqualsSum(t *testing.T) {
	legs := []domain.MoveLeg{
		poolLeg("A1", "Pool A", "2025-03-01", 10),
		poolLeg("A1", "Pool A", "2025-03-02", -4),
		poolLeg("A1", "Pool A", "2025-03-03", 2),
	}

	sorted := ComputeBalances(legs)
	var sum float64
	for _, leg := range sorted {
		sum += leg.SignedQty
	}
	last := sorted[len(sorted)-1].CumulativeSOH
	if last != sum {
		t.Errorf("final cumulative SOH = %v, want sum of signed quantities %v", last, sum)
	}
}

func TestComputeBalancesDoesNotMutateInput(t *testing.T) {
	legs := []domain.MoveLeg{
		poolLeg("A1", "Pool B", "2025-03-02", 3),
		poolLeg("A1", "Pool A", "2025-03-01", 5),
	}
	ComputeBalances(legs)
	if legs[0].Location != "Pool B" {
		t.Error("input slice was reordered")
	}
	if legs[0].CumulativeSOH != 0 {
		t.Error("input slice was annotated")
	}
}

func TestComputeAggregateSOH(t *testing.T) {
	legs := []domain.MoveLeg{
		poolLeg("A1", "Central Warehouse Pondok Indah", "2025-03-01", 100),
		poolLeg("A1", "Central Warehouse Pondok Indah", "2025-03-02", -20),
		poolLeg("A1", "CM Warehouse", "2025-03-01", 40),
		poolLeg("A1", "Pool A", "2025-03-01", 7), // not supply side
		poolLeg("B2", "Warehouse Bitung", "2025-03-01", 9),
	}

	agg := ComputeAggregateSOH(legs)

	a1 := agg["A1"]
	if a1.CentralSOH != 80 {
		t.Errorf("A1 central SOH = %v, want 80", a1.CentralSOH)
	}
	if a1.ManufactureSOH != 40 {
		t.Errorf("A1 manufacture SOH = %v, want 40", a1.ManufactureSOH)
	}

	b2 := agg["B2"]
	if b2.CentralSOH != 9 || b2.ManufactureSOH != 0 {
		t.Errorf("B2 aggregate = %+v, want central 9, manufacture 0", b2)
	}

	if _, ok := agg["C3"]; ok {
		t.Error("SKU with no supply-side legs should be absent")
	}
}
