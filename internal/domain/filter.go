// internal/domain/filter.go
package domain

import "time"

// Filter narrows the daily log and pivot views before KPI evaluation and
// table rendering. Empty slices mean "no restriction"; nil dates mean the
// full time range.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time

	Categories []string
	Locations  []string
	Statuses   []string
	SKUs       []string
	SKUNames   []string
	CreatedBy  []string
	References []string
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return f.StartDate == nil && f.EndDate == nil &&
		len(f.Categories) == 0 && len(f.Locations) == 0 && len(f.Statuses) == 0 &&
		len(f.SKUs) == 0 && len(f.SKUNames) == 0 && len(f.CreatedBy) == 0 &&
		len(f.References) == 0
}

func matchAny(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// MatchLeg reports whether a daily-log row passes the filter.
func (f Filter) MatchLeg(leg MoveLeg) bool {
	if f.StartDate != nil && leg.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && leg.Date.After(f.EndDate.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return matchAny(string(leg.LocationCategory), f.Categories) &&
		matchAny(leg.Location, f.Locations) &&
		matchAny(string(leg.StatusReplenishment), f.Statuses) &&
		matchAny(leg.SKU, f.SKUs) &&
		matchAny(leg.SKUName, f.SKUNames) &&
		matchAny(leg.CreatedBy, f.CreatedBy) &&
		matchAny(leg.Reference, f.References)
}

// MatchPivot reports whether a pivot row passes the filter. Date and
// creator/reference restrictions do not apply to the aggregated view.
func (f Filter) MatchPivot(row PivotRow) bool {
	return matchAny(string(row.LocationCategory), f.Categories) &&
		matchAny(row.Location, f.Locations) &&
		matchAny(string(row.Status), f.Statuses) &&
		matchAny(row.SKU, f.SKUs) &&
		matchAny(row.SKUName, f.SKUNames)
}

// FilterLegs returns the legs passing the filter, preserving order.
func FilterLegs(legs []MoveLeg, f Filter) []MoveLeg {
	if f.IsZero() {
		return legs
	}
	out := make([]MoveLeg, 0, len(legs))
	for _, leg := range legs {
		if f.MatchLeg(leg) {
			out = append(out, leg)
		}
	}
	return out
}

// FilterPivot returns the pivot rows passing the filter, preserving order.
func FilterPivot(rows []PivotRow, f Filter) []PivotRow {
	if f.IsZero() {
		return rows
	}
	out := make([]PivotRow, 0, len(rows))
	for _, row := range rows {
		if f.MatchPivot(row) {
			out = append(out, row)
		}
	}
	return out
}

// FilterOptions lists the distinct values offered for each filterable column,
// derived from the current daily log.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Locations  []string `json:"locations"`
	Statuses   []string `json:"statuses"`
	SKUs       []string `json:"skus"`
	SKUNames   []string `json:"sku_names"`
	CreatedBy  []string `json:"created_by"`
	References []string `json:"references"`
}
