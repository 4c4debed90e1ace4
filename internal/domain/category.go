// internal/domain/category.go
package domain

import "strings"

// LocationCategory buckets free-text warehouse location names into the eight
// fixed categories the replenishment logic keys on.
type LocationCategory string

const (
	CategoryManufacture      LocationCategory = "Manufacture"
	CategoryCentralWarehouse LocationCategory = "Central Warehouse"
	CategoryPool             LocationCategory = "Pool"
	CategoryBengkelRekanan   LocationCategory = "Bengkel Rekanan"
	CategoryPartnersVendors  LocationCategory = "Partners/Vendors"
	CategoryVirtualLocations LocationCategory = "Virtual Locations"
	CategoryUnknown          LocationCategory = "Unknown"
	CategoryOthers           LocationCategory = "Others"
)

// categoryRule maps substring patterns to a category. Rules are evaluated in
// order and the first match wins, so e.g. a location containing both "Pool"
// and "Unknown" classifies as Pool.
type categoryRule struct {
	patterns []string
	category LocationCategory
}

var categoryRules = []categoryRule{
	{[]string{"cm warehouse"}, CategoryManufacture},
	{[]string{"central warehouse pondok indah", "warehouse bitung"}, CategoryCentralWarehouse},
	{[]string{"pool"}, CategoryPool},
	{[]string{"bengkel rekanan"}, CategoryBengkelRekanan},
	{[]string{"partners/vendors"}, CategoryPartnersVendors},
	{[]string{"virtual locations"}, CategoryVirtualLocations},
	{[]string{"unknown"}, CategoryUnknown},
}

// ClassifyLocation maps a location name to its category. Matching is
// case-insensitive substring containment; anything unmatched is Others.
func ClassifyLocation(location string) LocationCategory {
	lower := strings.ToLower(location)
	for _, rule := range categoryRules {
		for _, p := range rule.patterns {
			if strings.Contains(lower, p) {
				return rule.category
			}
		}
	}
	return CategoryOthers
}

// IsSupplySide reports whether the category feeds the aggregate SOH columns
// rather than surfacing as pivot rows.
func (c LocationCategory) IsSupplySide() bool {
	return c == CategoryCentralWarehouse || c == CategoryManufacture
}

// IsExcludedFromStock reports whether legs at this category are excluded from
// stock and usage sums (they still contribute to adjustment aggregates).
func (c LocationCategory) IsExcludedFromStock() bool {
	return c == CategoryVirtualLocations || c == CategoryPartnersVendors
}

// IsReplenishable reports whether the category surfaces in the pivot and the
// daily log.
func (c LocationCategory) IsReplenishable() bool {
	return c == CategoryPool || c == CategoryBengkelRekanan
}
