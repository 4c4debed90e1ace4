package sheets

import (
	"reflect"
	"testing"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

func TestPivotValuesRoundTrip(t *testing.T) {
	rows := []domain.PivotRow{
		{
			SKU:                "ABC123",
			SKUName:            "Brake Pad",
			Location:           "Pool Jakarta",
			LocationCategory:   domain.CategoryPool,
			Status:             domain.StatusAlert,
			Action:             "Replenish soon (12 units)",
			SOH:                70,
			InboundQty:         100,
			OutboundQty:        30,
			AdjustmentQty:      -3,
			AdjustmentIncrease: 5,
			AdjustmentDecrease: -8,
			DailyUsage:         0.5,
			MovesCategory:      domain.MovesMedium,
			LeadTimeDays:       14,
			BufferStock:        7,
			Shortage:           0,
			CentralSOH:         200,
			ManufactureSOH:     40,
		},
	}

	values := PivotValues(rows)
	if len(values) != 2 {
		t.Fatalf("got %d value rows, want header + 1", len(values))
	}
	if len(values[0]) != len(PivotColumns) {
		t.Fatalf("header has %d cells, want %d", len(values[0]), len(PivotColumns))
	}

	decoded := ParsePivotValues(values)
	if !reflect.DeepEqual(decoded, rows) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded[0], rows[0])
	}
}

func TestMovesValuesRoundTrip(t *testing.T) {
	legs := []domain.MoveLeg{
		{
			Date:                time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
			CreatedBy:           "admin",
			Reference:           "WH/OUT/001",
			Contact:             "Customer Y",
			Location:            "Pool Jakarta",
			LocationCategory:    domain.CategoryPool,
			SKU:                 "ABC123",
			SKUName:             "Brake Pad",
			OutboundQty:         30,
			Quantity:            30,
			StatusReplenishment: domain.StatusSafe,
			Type:                domain.MoveOutbound,
			CumulativeSOH:       70,
		},
	}

	decoded := ParseMovesValues(MovesValues(legs))
	if len(decoded) != 1 {
		t.Fatalf("got %d legs, want 1", len(decoded))
	}

	got := decoded[0]
	if !got.Date.Equal(legs[0].Date) {
		t.Errorf("date = %v, want %v", got.Date, legs[0].Date)
	}
	if got.SKU != "ABC123" || got.Location != "Pool Jakarta" || got.Type != domain.MoveOutbound {
		t.Errorf("identity fields wrong: %+v", got)
	}
	if got.OutboundQty != 30 || got.CumulativeSOH != 70 {
		t.Errorf("numeric fields wrong: %+v", got)
	}
}

func TestParseValuesCoercion(t *testing.T) {
	values := [][]interface{}{
		make([]interface{}, len(MovesColumns)), // header, content irrelevant
		{
			"garbage date", "admin", "R1", nil, "Pool A", "Pool",
			"A1", "Widget", "not-a-number", "30", nil,
			"Safe", "Outbound", "", "", "", "70.5",
		},
	}

	legs := ParseMovesValues(values)
	if len(legs) != 1 {
		t.Fatalf("got %d legs, want 1", len(legs))
	}

	leg := legs[0]
	if !leg.Date.IsZero() {
		t.Errorf("unparsable date = %v, want zero time", leg.Date)
	}
	if leg.InboundQty != 0 {
		t.Errorf("unparsable quantity = %v, want 0", leg.InboundQty)
	}
	if leg.OutboundQty != 30 {
		t.Errorf("string quantity = %v, want 30", leg.OutboundQty)
	}
	if leg.Contact != "" {
		t.Errorf("nil cell = %q, want empty", leg.Contact)
	}
	if leg.CumulativeSOH != 70.5 {
		t.Errorf("cumulative SOH = %v, want 70.5", leg.CumulativeSOH)
	}
}

func TestParseValuesShortRows(t *testing.T) {
	values := [][]interface{}{
		make([]interface{}, len(PivotColumns)),
		{"A1", "Widget"}, // truncated row
	}

	rows := ParsePivotValues(values)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].SKU != "A1" || rows[0].SOH != 0 {
		t.Errorf("short row decoded wrong: %+v", rows[0])
	}
}

func TestParseValuesHeaderOnly(t *testing.T) {
	if rows := ParsePivotValues([][]interface{}{make([]interface{}, len(PivotColumns))}); rows != nil {
		t.Errorf("header-only pivot = %v, want nil", rows)
	}
	if legs := ParseMovesValues(nil); legs != nil {
		t.Errorf("nil moves values = %v, want nil", legs)
	}
}
