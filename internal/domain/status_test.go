package domain

import "testing"

func TestIsAdjustmentReference(t *testing.T) {
	tests := []struct {
		reference string
		want      bool
	}{
		{"Product Quantity Updated", true},
		{"Product Quantity Confirmed", true},
		{"INV: product quantity updated by admin", true},
		{"PRODUCT QUANTITY CONFIRMED", true},
		{"WH/OUT/00123", false},
		{"", false},
		{"Quantity Updated", false},
	}

	for _, tt := range tests {
		if got := IsAdjustmentReference(tt.reference); got != tt.want {
			t.Errorf("IsAdjustmentReference(%q) = %v, want %v", tt.reference, got, tt.want)
		}
	}
}

func TestClassifyUsage(t *testing.T) {
	tests := []struct {
		usage    float64
		want     MovesCategory
		leadTime float64
	}{
		{5.0, MovesFast, 21},
		{1.01, MovesFast, 21},
		{1.0, MovesMedium, 14}, // boundary: exactly 1.0 is not Fast
		{0.5, MovesMedium, 14},
		{0.1, MovesSlow, 7}, // boundary: exactly 0.1 is not Medium
		{0.0, MovesSlow, 7},
	}

	for _, tt := range tests {
		category, leadTime := ClassifyUsage(tt.usage)
		if category != tt.want || leadTime != tt.leadTime {
			t.Errorf("ClassifyUsage(%v) = (%q, %v), want (%q, %v)",
				tt.usage, category, leadTime, tt.want, tt.leadTime)
		}
	}
}

func TestReplenishmentDecision(t *testing.T) {
	tests := []struct {
		name       string
		soh        float64
		buffer     float64
		shortage   float64
		wantStatus ReplenishmentStatus
		wantAction string
	}{
		{"negative soh no buffer", -5, 0, 0, StatusDanger, "Negative SOH"},
		{"zero buffer", 10, 0, 0, StatusDanger, "Zero buffer / no usage"},
		{"critical", 40, 100, 60, StatusDanger, "Critical stock (<50% buffer). Replenish 60 units."},
		{"half buffer is alert", 50, 100, 50, StatusAlert, "Replenish soon (50 units)"},
		{"at buffer", 100, 100, 0, StatusAlert, "At buffer level"},
		{"above buffer", 150, 100, 0, StatusSafe, "Stock sufficient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, action := ReplenishmentDecision(tt.soh, tt.buffer, tt.shortage)
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if action != tt.wantAction {
				t.Errorf("action = %q, want %q", action, tt.wantAction)
			}
		})
	}
}
