package sheets

import (
	"strconv"
	"strings"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

const dateLayout = "2006-01-02 15:04:05"

// PivotColumns is the fixed header row of the Pivot worksheet (columns A:S).
var PivotColumns = []string{
	"SKU", "SKU Name", "Location", "Location Category", "Status", "Action",
	"SOH", "Inbound_Qty", "Outbound_Qty",
	"Adjustment Qty", "Adjustment Increase", "Adjustment Decrease",
	"Daily Usage", "Moves Category", "Lead Time", "Buffer Stock", "Shortage",
	"Central_SOH", "Manufacture_SOH",
}

// MovesColumns is the fixed header row of the moves worksheets (columns A:Q).
var MovesColumns = []string{
	"Date", "Created by", "Reference", "Contact", "Location", "Location Category",
	"SKU", "SKU Name", "Inbound_Qty", "Outbound_Qty", "Quantity",
	"Status_Replenishment", "Type",
	"Adjustment Qty", "Adjustment Increase", "Adjustment Decrease",
	"Cumulative_SOH",
}

func pivotRowValues(r domain.PivotRow) []interface{} {
	return []interface{}{
		r.SKU, r.SKUName, r.Location, string(r.LocationCategory),
		string(r.Status), r.Action,
		r.SOH, r.InboundQty, r.OutboundQty,
		r.AdjustmentQty, r.AdjustmentIncrease, r.AdjustmentDecrease,
		r.DailyUsage, string(r.MovesCategory), r.LeadTimeDays,
		r.BufferStock, r.Shortage,
		r.CentralSOH, r.ManufactureSOH,
	}
}

func moveLegValues(l domain.MoveLeg) []interface{} {
	return []interface{}{
		l.Date.Format(dateLayout), l.CreatedBy, l.Reference, l.Contact,
		l.Location, string(l.LocationCategory),
		l.SKU, l.SKUName,
		l.InboundQty, l.OutboundQty, l.Quantity,
		string(l.StatusReplenishment), string(l.Type),
		l.AdjustmentQty, l.AdjustmentIncrease, l.AdjustmentDecrease,
		l.CumulativeSOH,
	}
}

// PivotValues renders pivot rows as a sheet range including the header row.
func PivotValues(rows []domain.PivotRow) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(PivotColumns))
	for i, c := range PivotColumns {
		header[i] = c
	}
	values = append(values, header)
	for _, r := range rows {
		values = append(values, pivotRowValues(r))
	}
	return values
}

// MovesValues renders move legs as a sheet range including the header row.
func MovesValues(legs []domain.MoveLeg) [][]interface{} {
	values := make([][]interface{}, 0, len(legs)+1)
	header := make([]interface{}, len(MovesColumns))
	for i, c := range MovesColumns {
		header[i] = c
	}
	values = append(values, header)
	for _, l := range legs {
		values = append(values, moveLegValues(l))
	}
	return values
}

// cellString reads a cell as text, treating a missing or null cell as empty.
func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	if s, ok := row[idx].(string); ok {
		return s
	}
	return ""
}

// cellFloat reads a cell as a number; anything unparsable reads as 0.
func cellFloat(row []interface{}, idx int) float64 {
	if idx >= len(row) || row[idx] == nil {
		return 0
	}
	switch v := row[idx].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// cellDate reads a cell as a timestamp; an unparsable cell reads as the zero
// time.
func cellDate(row []interface{}, idx int) time.Time {
	s := strings.TrimSpace(cellString(row, idx))
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{dateLayout, "2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParsePivotValues decodes a Pivot worksheet range, skipping the header row.
func ParsePivotValues(values [][]interface{}) []domain.PivotRow {
	if len(values) <= 1 {
		return nil
	}
	rows := make([]domain.PivotRow, 0, len(values)-1)
	for _, row := range values[1:] {
		rows = append(rows, domain.PivotRow{
			SKU:                cellString(row, 0),
			SKUName:            cellString(row, 1),
			Location:           cellString(row, 2),
			LocationCategory:   domain.LocationCategory(cellString(row, 3)),
			Status:             domain.ReplenishmentStatus(cellString(row, 4)),
			Action:             cellString(row, 5),
			SOH:                cellFloat(row, 6),
			InboundQty:         cellFloat(row, 7),
			OutboundQty:        cellFloat(row, 8),
			AdjustmentQty:      cellFloat(row, 9),
			AdjustmentIncrease: cellFloat(row, 10),
			AdjustmentDecrease: cellFloat(row, 11),
			DailyUsage:         cellFloat(row, 12),
			MovesCategory:      domain.MovesCategory(cellString(row, 13)),
			LeadTimeDays:       cellFloat(row, 14),
			BufferStock:        cellFloat(row, 15),
			Shortage:           cellFloat(row, 16),
			CentralSOH:         cellFloat(row, 17),
			ManufactureSOH:     cellFloat(row, 18),
		})
	}
	return rows
}

// ParseMovesValues decodes a moves worksheet range, skipping the header row.
func ParseMovesValues(values [][]interface{}) []domain.MoveLeg {
	if len(values) <= 1 {
		return nil
	}
	legs := make([]domain.MoveLeg, 0, len(values)-1)
	for _, row := range values[1:] {
		legs = append(legs, domain.MoveLeg{
			Date:                cellDate(row, 0),
			CreatedBy:           cellString(row, 1),
			Reference:           cellString(row, 2),
			Contact:             cellString(row, 3),
			Location:            cellString(row, 4),
			LocationCategory:    domain.LocationCategory(cellString(row, 5)),
			SKU:                 cellString(row, 6),
			SKUName:             cellString(row, 7),
			InboundQty:          cellFloat(row, 8),
			OutboundQty:         cellFloat(row, 9),
			Quantity:            cellFloat(row, 10),
			StatusReplenishment: domain.ReplenishmentStatus(cellString(row, 11)),
			Type:                domain.MoveType(cellString(row, 12)),
			AdjustmentQty:       cellFloat(row, 13),
			AdjustmentIncrease:  cellFloat(row, 14),
			AdjustmentDecrease:  cellFloat(row, 15),
			CumulativeSOH:       cellFloat(row, 16),
		})
	}
	return legs
}
