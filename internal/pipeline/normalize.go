package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/domain"
)

// RequiredColumns are the CSV columns the upload must carry. A file missing
// any of them is rejected wholesale before any transformation runs.
var RequiredColumns = []string{
	"Date", "Product", "Status", "Reference", "Quantity", "From", "To", "Created by",
}

// SchemaError reports the required columns absent from an uploaded CSV.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("csv is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// dateLayouts are tried in order when parsing the Date column. Odoo exports
// use the first layout; the rest cover re-exports from spreadsheets.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	time.RFC3339,
}

var (
	skuPattern     = regexp.MustCompile(`\[(.*?)\]`)
	skuStripper    = regexp.MustCompile(`\[.*?\]\s*`)
	thousandsComma = strings.NewReplacer(",", "")
)

// ParseMoves decodes the raw moves CSV. It validates the header, coerces the
// Quantity column (unparsable values become 0), parses dates (invalid dates
// are flagged, not dropped here), and retains only rows with Status "done".
func ParseMoves(r io.Reader) ([]domain.RawMove, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: RequiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	get := func(record []string, col string) string {
		idx, ok := index[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var moves []domain.RawMove
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		if get(record, "Status") != "done" {
			continue
		}

		date, ok := parseDate(get(record, "Date"))
		move := domain.RawMove{
			Date:      date,
			DateValid: ok,
			Product:   get(record, "Product"),
			Status:    "done",
			Reference: get(record, "Reference"),
			Quantity:  parseQuantity(get(record, "Quantity")),
			From:      get(record, "From"),
			To:        get(record, "To"),
			CreatedBy: get(record, "Created by"),
			Contact:   get(record, "Contact"),
		}
		moves = append(moves, move)
	}

	return moves, nil
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseQuantity(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(thousandsComma.Replace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

// Normalize expands each retained raw move into its inbound and outbound
// legs. Rows whose date failed to parse are dropped entirely. All inbound
// legs are emitted before all outbound legs so that rows tied on the
// (Location, SKU, Date) sort keys keep a deterministic order across runs.
func Normalize(moves []domain.RawMove) []domain.MoveLeg {
	legs := make([]domain.MoveLeg, 0, 2*len(moves))
	for _, m := range moves {
		if !m.DateValid {
			continue
		}
		legs = append(legs, makeLeg(m, domain.MoveInbound, m.To))
	}
	for _, m := range moves {
		if !m.DateValid {
			continue
		}
		legs = append(legs, makeLeg(m, domain.MoveOutbound, m.From))
	}
	return legs
}

func makeLeg(m domain.RawMove, typ domain.MoveType, location string) domain.MoveLeg {
	leg := domain.MoveLeg{
		Date:             m.Date,
		CreatedBy:        m.CreatedBy,
		Reference:        m.Reference,
		Contact:          m.Contact,
		Location:         location,
		LocationCategory: domain.ClassifyLocation(location),
		SKU:              extractSKU(m.Product),
		SKUName:          stripSKU(m.Product),
		Type:             typ,
		Quantity:         m.Quantity,
	}

	if typ == domain.MoveInbound {
		leg.InboundQty = m.Quantity
		leg.SignedQty = m.Quantity
	} else {
		leg.OutboundQty = m.Quantity
		leg.SignedQty = -m.Quantity
	}

	if domain.IsAdjustmentReference(m.Reference) {
		leg.AdjustmentQty = leg.SignedQty
		if leg.AdjustmentQty > 0 {
			leg.AdjustmentIncrease = leg.AdjustmentQty
		} else if leg.AdjustmentQty < 0 {
			leg.AdjustmentDecrease = leg.AdjustmentQty
		}
	}

	return leg
}

// extractSKU pulls the first bracketed code out of the product label,
// e.g. "[ABC123] Brake Pad" yields "ABC123".
func extractSKU(product string) string {
	m := skuPattern.FindStringSubmatch(product)
	if m == nil {
		return "NO_SKU"
	}
	return m[1]
}

func stripSKU(product string) string {
	return strings.TrimSpace(skuStripper.ReplaceAllString(product, ""))
}
