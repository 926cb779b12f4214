// Package normalize flattens a heterogeneous expense-analysis response into
// a summary mapping and an ordered list of line items. It tolerates
// synonymous field labels, missing substructures, and absent values; every
// missing value degrades to an empty string rather than failing.
package normalize

import "github.com/expenseops/receipt-relay/internal/extract"

// Summary maps a detected field label to its detected text value. Keys are
// whatever labels the service produced; duplicates resolve last-write-wins.
type Summary map[string]string

// LineItem is one normalized receipt row. Raw retains every originally
// detected label/value pair for troubleshooting and is never interpreted
// further.
type LineItem struct {
	Description string            `json:"description"`
	Quantity    string            `json:"quantity"`
	UnitPrice   string            `json:"unit_price"`
	Total       string            `json:"total"`
	Raw         map[string]string `json:"_raw"`
}

// Normalize flattens the extraction result. Only the first document is
// read; a response with zero documents yields an empty summary and an empty
// item list, which the caller treats as a warning, not a failure.
func Normalize(docs []extract.ExpenseDocument) (Summary, []LineItem) {
	summary := Summary{}
	items := []LineItem{}
	if len(docs) == 0 {
		return summary, items
	}
	doc := docs[0]

	for _, f := range doc.SummaryFields {
		label := fieldLabel(f)
		if label == "" {
			continue
		}
		summary[label] = fieldValue(f)
	}

	for _, g := range doc.LineItemGroups {
		for _, li := range g.LineItems {
			raw := map[string]string{}
			for _, f := range li.Fields {
				label := fieldLabel(f)
				if label == "" {
					continue
				}
				raw[label] = fieldValue(f)
			}
			items = append(items, LineItem{
				Description: firstNonEmpty(raw, "ITEM", "DESCRIPTION"),
				Quantity:    firstNonEmpty(raw, "QUANTITY"),
				UnitPrice:   firstNonEmpty(raw, "PRICE", "UNIT_PRICE"),
				Total:       firstNonEmpty(raw, "TOTAL", "LINE_TOTAL"),
				Raw:         raw,
			})
		}
	}
	return summary, items
}

// fieldLabel resolves a field's label: declared type first, then label
// detection, else empty.
func fieldLabel(f extract.Field) string {
	if f.Type != nil && f.Type.Text != "" {
		return f.Type.Text
	}
	if f.LabelDetection != nil && f.LabelDetection.Text != "" {
		return f.LabelDetection.Text
	}
	return ""
}

func fieldValue(f extract.Field) string {
	if f.ValueDetection == nil {
		return ""
	}
	return f.ValueDetection.Text
}

// firstNonEmpty consults candidate keys in priority order and returns the
// first non-empty value, else "".
func firstNonEmpty(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}
