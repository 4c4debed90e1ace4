package pipeline

import (
	"reflect"
	"strings"
	"testing"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

func TestRunBasicScenario(t *testing.T) {
	csv := movesHeader +
		"2025-03-01 09:00:00,admin,WH/IN/001,Supplier X,[ABC123] Brake Pad,100,Partners/Vendors,Pool Jakarta,done\n" +
		"2025-03-05 09:00:00,admin,WH/OUT/001,Customer Y,[ABC123] Brake Pad,30,Pool Jakarta,Partners/Vendors,done\n"

	result, err := Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.RawRows != 2 {
		t.Errorf("raw rows = %d, want 2", result.RawRows)
	}
	if result.LegRows != 4 {
		t.Errorf("leg rows = %d, want 4", result.LegRows)
	}

	// Only the Pool Jakarta legs surface; the Partners/Vendors side is cut.
	if len(result.MovesHistory) != 2 {
		t.Fatalf("history rows = %d, want 2", len(result.MovesHistory))
	}
	wantSOH := []float64{100, 70}
	for i, want := range wantSOH {
		if result.MovesHistory[i].CumulativeSOH != want {
			t.Errorf("history row %d cumulative SOH = %v, want %v",
				i, result.MovesHistory[i].CumulativeSOH, want)
		}
	}

	if len(result.Inbound) != 1 || result.Inbound[0].InboundQty != 100 {
		t.Errorf("inbound projection wrong: %+v", result.Inbound)
	}
	if len(result.Outbound) != 1 || result.Outbound[0].OutboundQty != 30 {
		t.Errorf("outbound projection wrong: %+v", result.Outbound)
	}

	if len(result.Pivot) != 1 {
		t.Fatalf("pivot rows = %d, want 1", len(result.Pivot))
	}
	row := result.Pivot[0]
	if row.SKU != "ABC123" || row.SKUName != "Brake Pad" || row.Location != "Pool Jakarta" {
		t.Errorf("pivot identity wrong: %+v", row)
	}
	if row.InboundQty != 100 || row.OutboundQty != 30 || row.SOH != 70 {
		t.Errorf("pivot sums = (in %v, out %v, soh %v), want (100, 30, 70)",
			row.InboundQty, row.OutboundQty, row.SOH)
	}
	if row.Status == "" || row.Action == "" {
		t.Error("pivot row missing status or action")
	}
}

func TestRunHeaderOnly(t *testing.T) {
	result, err := Run(strings.NewReader(movesHeader))
	if err != nil {
		t.Fatalf("Run over headers-only csv: %v", err)
	}
	if len(result.Pivot) != 0 || len(result.MovesHistory) != 0 ||
		len(result.Inbound) != 0 || len(result.Outbound) != 0 {
		t.Errorf("expected four empty tables, got %+v", result)
	}
}

func TestRunIdempotent(t *testing.T) {
	csv := movesHeader +
		"2025-03-01 09:00:00,admin,WH/IN/001,,[ABC123] Brake Pad,100,Partners/Vendors,Pool Jakarta,done\n" +
		"2025-03-02 09:00:00,admin,Product Quantity Updated,,[ABC123] Brake Pad,5,Virtual Locations/Adj,Pool Jakarta,done\n" +
		"2025-03-05 09:00:00,admin,WH/OUT/001,,[ABC123] Brake Pad,30,Pool Jakarta,Partners/Vendors,done\n"

	first, err := Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different results")
	}
}

func TestRunOnlyReplenishableRowsSurvive(t *testing.T) {
	csv := movesHeader +
		"2025-03-01 09:00:00,admin,WH/IN/001,,[ABC123] Brake Pad,50,Partners/Vendors,Central Warehouse Pondok Indah,done\n" +
		"2025-03-02 09:00:00,admin,WH/IN/002,,[ABC123] Brake Pad,20,Central Warehouse Pondok Indah,Pool Jakarta,done\n"

	result, err := Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Pivot) != 1 {
		t.Fatalf("pivot rows = %d, want 1 (only the Pool row)", len(result.Pivot))
	}
	row := result.Pivot[0]
	if row.Location != "Pool Jakarta" {
		t.Errorf("surviving row location = %q, want Pool Jakarta", row.Location)
	}

	// The central warehouse activity still reaches the row through the
	// aggregate SOH join: +50 in, -20 out.
	if row.CentralSOH != 30 {
		t.Errorf("central SOH = %v, want 30", row.CentralSOH)
	}

	for _, leg := range result.MovesHistory {
		if !leg.LocationCategory.IsReplenishable() {
			t.Errorf("history contains non-replenishable leg at %q", leg.Location)
		}
	}
}

func TestRunAdjustmentSums(t *testing.T) {
	csv := movesHeader +
		"2025-03-01 09:00:00,admin,WH/IN/001,,[ABC123] Brake Pad,100,Partners/Vendors,Pool Jakarta,done\n" +
		"2025-03-02 09:00:00,admin,Product Quantity Updated,,[ABC123] Brake Pad,5,Virtual Locations/Adj,Pool Jakarta,done\n" +
		"2025-03-03 09:00:00,admin,Product Quantity Confirmed,,[ABC123] Brake Pad,8,Pool Jakarta,Virtual Locations/Adj,done\n"

	result, err := Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Pivot) != 1 {
		t.Fatalf("pivot rows = %d, want 1", len(result.Pivot))
	}
	row := result.Pivot[0]

	// Adjustment in +5 and out -8 both land on the Pool Jakarta row.
	if row.AdjustmentQty != -3 {
		t.Errorf("adjustment qty = %v, want -3", row.AdjustmentQty)
	}
	if row.AdjustmentIncrease != 5 {
		t.Errorf("adjustment increase = %v, want 5", row.AdjustmentIncrease)
	}
	if row.AdjustmentDecrease != -8 {
		t.Errorf("adjustment decrease = %v, want -8", row.AdjustmentDecrease)
	}

	// The adjustment legs also count toward the stock sums at the Pool
	// location: in 100+5, out 8.
	if row.InboundQty != 105 || row.OutboundQty != 8 || row.SOH != 97 {
		t.Errorf("stock sums = (in %v, out %v, soh %v), want (105, 8, 97)",
			row.InboundQty, row.OutboundQty, row.SOH)
	}
}

func TestRunPivotSortOrder(t *testing.T) {
	csv := movesHeader +
		"2025-03-01 09:00:00,admin,R1,,[ZZZ] Last,1,Partners/Vendors,Pool A,done\n" +
		"2025-03-01 09:00:00,admin,R2,,[AAA] First,1,Partners/Vendors,Pool B,done\n" +
		"2025-03-01 09:00:00,admin,R3,,[AAA] First,1,Partners/Vendors,Pool A,done\n"

	result, err := Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Pivot) != 3 {
		t.Fatalf("pivot rows = %d, want 3", len(result.Pivot))
	}

	got := make([]string, len(result.Pivot))
	for i, row := range result.Pivot {
		got[i] = row.SKU + "/" + row.Location
	}
	want := []string{"AAA/Pool A", "AAA/Pool B", "ZZZ/Pool A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pivot order = %v, want %v", got, want)
	}
}

func TestRunDailyLogUsesRunningBalance(t *testing.T) {
	csv := movesHeader +
		"2025-03-01 09:00:00,admin,WH/IN/001,,[ABC123] Brake Pad,10,Partners/Vendors,Pool Jakarta,done\n" +
		"2025-03-02 09:00:00,admin,WH/OUT/001,,[ABC123] Brake Pad,25,Pool Jakarta,Partners/Vendors,done\n"

	result, err := Run(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.MovesHistory) != 2 {
		t.Fatalf("history rows = %d, want 2", len(result.MovesHistory))
	}

	last := result.MovesHistory[1]
	if last.CumulativeSOH != -15 {
		t.Errorf("final cumulative SOH = %v, want -15", last.CumulativeSOH)
	}
	if last.StatusReplenishment != domain.StatusDanger {
		t.Errorf("status at negative balance = %q, want Danger", last.StatusReplenishment)
	}
}
